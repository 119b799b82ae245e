package render

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/logger"
)

// Renderer receives every post-mutation state. Implementations must replace
// what they displayed before rather than patch it.
type Renderer interface {
	Render(items []entity.LineItem, totals entity.Totals)
}

const cartTemplate = `<div class="cart-items{{if .Empty}} is-empty{{end}}">
{{- if .Empty}}
<p>Your cart is empty.</p>
{{- else}}
{{- range .Items}}
<div class="individual-cart-item">
<img src="{{.ImageRef}}" alt="{{.Title}}" class="cart-item-image">
<div class="cart-item-details">
<div class="cart-item-title">{{.Title}}</div>
<div class="cart-item-price">{{.LineTotal}}</div>
<div class="cart-item-quantity">
<button class="decrease-quantity" data-index="{{.Index}}">-</button>
<span>{{.Quantity}}</span>
<button class="increase-quantity" data-index="{{.Index}}">+</button>
</div>
</div>
</div>
{{- end}}
{{- end}}
</div>
<div class="cart-summary">
<span class="cart-total">{{.Totals.Subtotal}}</span>
<span id="tax">{{.Totals.Tax}}</span>
<span id="shipping">{{.Totals.Shipping}}</span>
<span id="total">{{.Totals.GrandTotal}}</span>
<span id="payAmount">{{.Totals.GrandTotal}}</span>
<span class="cart-count">{{.Totals.ItemCount}}</span>
</div>
`

type HTMLRenderer struct {
	symbol string
	tmpl   *template.Template
	log    logger.Logger

	mu   sync.RWMutex
	html string
}

func NewHTMLRenderer(symbol string, log logger.Logger) *HTMLRenderer {
	r := &HTMLRenderer{
		symbol: symbol,
		tmpl:   template.Must(template.New("cart").Parse(cartTemplate)),
		log:    log,
	}
	r.Render(nil, entity.ComputeTotals(nil, entity.Pricing{}))
	return r
}

func (r *HTMLRenderer) Render(items []entity.LineItem, totals entity.Totals) {
	view := NewCartView(r.symbol, items, totals)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		r.log.Errorf("Failed to render cart fragment: %v", err)
		return
	}

	r.mu.Lock()
	r.html = buf.String()
	r.mu.Unlock()
}

// HTML returns the most recently rendered fragment.
func (r *HTMLRenderer) HTML() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.html
}
