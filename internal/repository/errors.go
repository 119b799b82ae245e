package repository

import "errors"

var (
	ErrNotFound          = errors.New("entity not found")
	ErrMalformedSnapshot = errors.New("malformed cart snapshot")
	ErrSaveFailed        = errors.New("save failed")
	ErrDeleteFailed      = errors.New("delete failed")
	ErrConnectionFailed  = errors.New("storage connection failed")
)
