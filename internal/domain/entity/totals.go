package entity

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Pricing holds the fee constants applied to a non-empty cart. TaxRate is a
// percentage, so 2.5 means 2.5%.
type Pricing struct {
	TaxRate  decimal.Decimal
	Shipping decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:  decimal.RequireFromString("2.5"),
		Shipping: decimal.NewFromInt(50),
	}
}

type Totals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Shipping   decimal.Decimal
	GrandTotal decimal.Decimal
	ItemCount  int
}

// ComputeTotals derives all totals from items. An empty cart carries no tax
// or shipping regardless of the configured pricing.
func ComputeTotals(items []LineItem, p Pricing) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}

	if len(items) == 0 {
		return Totals{
			Subtotal:   decimal.Zero,
			Tax:        decimal.Zero,
			Shipping:   decimal.Zero,
			GrandTotal: decimal.Zero,
		}
	}

	tax := subtotal.Mul(p.TaxRate).Div(hundred)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   p.Shipping,
		GrandTotal: subtotal.Add(tax).Add(p.Shipping),
		ItemCount:  count,
	}
}

func (c *Cart) Totals(p Pricing) Totals {
	return ComputeTotals(c.Items, p)
}
