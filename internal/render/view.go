package render

import "github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"

type ItemView struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	ImageRef  string `json:"image"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	Quantity  int    `json:"quantity"`
}

type TotalsView struct {
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	Shipping   string `json:"shipping"`
	GrandTotal string `json:"grand_total"`
	ItemCount  int    `json:"item_count"`
}

// CartView is the display form of the cart. Every monetary value is already
// formatted.
type CartView struct {
	Items  []ItemView `json:"items"`
	Totals TotalsView `json:"totals"`
	Empty  bool       `json:"empty"`
}

func NewCartView(symbol string, items []entity.LineItem, totals entity.Totals) CartView {
	view := CartView{
		Items: make([]ItemView, 0, len(items)),
		Totals: TotalsView{
			Subtotal:   FormatMoney(symbol, totals.Subtotal),
			Tax:        FormatMoney(symbol, totals.Tax),
			Shipping:   FormatMoney(symbol, totals.Shipping),
			GrandTotal: FormatMoney(symbol, totals.GrandTotal),
			ItemCount:  totals.ItemCount,
		},
		Empty: len(items) == 0,
	}
	for i, item := range items {
		view.Items = append(view.Items, ItemView{
			Index:     i,
			Title:     item.Title,
			ImageRef:  item.ImageRef,
			UnitPrice: FormatMoney(symbol, item.UnitPrice),
			LineTotal: FormatMoney(symbol, item.LineTotal()),
			Quantity:  item.Quantity,
		})
	}
	return view
}
