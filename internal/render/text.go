package render

import (
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
)

// TextSummary prints the cart as a plain-text receipt.
func TextSummary(symbol string, items []entity.LineItem, totals entity.Totals) string {
	var b strings.Builder
	if len(items) == 0 {
		b.WriteString("Your cart is empty.\n")
	}
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (x%d) @ %s = %s\n",
			item.Title,
			item.Quantity,
			FormatMoney(symbol, item.UnitPrice),
			FormatMoney(symbol, item.LineTotal()),
		)
	}
	fmt.Fprintf(&b, "\nItems: %d\nSubtotal: %s\nTax: %s\nShipping: %s\nTotal: %s\n",
		totals.ItemCount,
		FormatMoney(symbol, totals.Subtotal),
		FormatMoney(symbol, totals.Tax),
		FormatMoney(symbol, totals.Shipping),
		FormatMoney(symbol, totals.GrandTotal),
	)
	return b.String()
}
