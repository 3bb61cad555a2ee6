package catalog

import (
	"strings"
	"time"
)

type Category struct {
	ID          string `json:"categoryId"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ParentID    string `json:"parentId,omitempty"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID          string    `json:"productId"`
	CategoryID  string    `json:"categoryId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Variant is a purchasable SKU of a product carrying its own price
// and stock count.
type Variant struct {
	ID         string  `json:"variantId"`
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Price      float64 `json:"price"`
	StockCount int     `json:"stockCount"`
}

// Slugify derives a URL slug from a name, matching how categories and
// products get their slugs when none is provided.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
