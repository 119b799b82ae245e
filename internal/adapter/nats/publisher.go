package nats

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	jsoniter "github.com/json-iterator/go"
)

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type CartEventPublisher interface {
	PublishCartEvent(ctx context.Context, event entity.CartEvent) error
}

type natsPublisher struct {
	conn          Conn
	subjectPrefix string
}

func NewCartEventPublisher(conn Conn, subjectPrefix string) (CartEventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return &natsPublisher{
		conn:          conn,
		subjectPrefix: subjectPrefix,
	}, nil
}

// Subject builds e.g. "storefront.cart.item.added".
func Subject(prefix string, eventType entity.CartEventType) string {
	if prefix == "" {
		return "cart." + string(eventType)
	}
	return prefix + ".cart." + string(eventType)
}

func (p *natsPublisher) PublishCartEvent(ctx context.Context, event entity.CartEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := Subject(p.subjectPrefix, event.Type)

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cart event for subject %s: %w", subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish message to NATS subject %s: %w", subject, err)
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher is used when NATS is disabled.
func NewNoopPublisher() CartEventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishCartEvent(context.Context, entity.CartEvent) error {
	return nil
}
