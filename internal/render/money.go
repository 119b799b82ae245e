package render

import "github.com/shopspring/decimal"

// FormatMoney prefixes the currency glyph and always prints two decimals.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
