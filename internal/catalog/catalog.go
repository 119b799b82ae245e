package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("invalid price")
)

// Product is a product card as displayed on the storefront. Price keeps the
// display string; ParsePrice turns it into an amount.
type Product struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Price string `yaml:"price" json:"price"`
	Image string `yaml:"image" json:"image"`
}

type Catalog struct {
	products []Product
	byID     map[string]int
}

type catalogFile struct {
	Products []Product `yaml:"products"`
}

func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" || p.Title == "" {
			return nil, fmt.Errorf("catalog product needs both id and title: %+v", p)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Load reads products from a YAML file. An empty path yields the default menu.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(DefaultProducts())
	}
	var f catalogFile
	if err := cleanenv.ReadConfig(path, &f); err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return New(f.Products)
}

func (c *Catalog) Get(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.products[i], nil
}

// Search keeps products whose title contains query, ignoring case. An empty
// query matches everything.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if q == "" || strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

var plainAmount = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ParsePrice reads a display price such as "₱1,250.50". Only plain decimal
// notation is accepted; exponents and signs are rejected.
func ParsePrice(display, symbol string) (decimal.Decimal, error) {
	s := strings.TrimSpace(display)
	if symbol != "" {
		s = strings.TrimSpace(strings.TrimPrefix(s, symbol))
	}
	s = strings.ReplaceAll(s, ",", "")
	if !plainAmount.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}
	if err := entity.ValidateUnitPrice(amount); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, display, err)
	}
	return amount, nil
}

func DefaultProducts() []Product {
	return []Product{
		{ID: "adobo-rice-bowl", Title: "Adobo Rice Bowl", Price: "₱180.00", Image: "/static/img/adobo.jpg"},
		{ID: "pancit-canton", Title: "Pancit Canton", Price: "₱150.00", Image: "/static/img/pancit.jpg"},
		{ID: "lumpia-shanghai", Title: "Lumpia Shanghai", Price: "₱120.00", Image: "/static/img/lumpia.jpg"},
		{ID: "halo-halo", Title: "Halo-Halo", Price: "₱95.00", Image: "/static/img/halo-halo.jpg"},
		{ID: "iced-coffee", Title: "Iced Coffee", Price: "₱85.00", Image: "/static/img/iced-coffee.jpg"},
		{ID: "ube-cake", Title: "Ube Cake", Price: "₱210.00", Image: "/static/img/ube-cake.jpg"},
	}
}
