package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const MaxTitleLength = 200

type Product struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	Category     Category        `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Availability bool            `json:"availability"`
	Slug         string          `json:"slug"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Category is one of a fixed, closed set of product categories.
type Category string

const (
	CategoryClothing    Category = "Clothing"
	CategoryShoes       Category = "Shoes"
	CategoryAccessories Category = "Accessories"
	CategoryElectronics Category = "Electronics"
	CategoryHomeDecor   Category = "Home & Decor"
	CategorySports      Category = "Sports"
	CategoryBooks       Category = "Books"
	CategoryBeauty      Category = "Beauty"
	CategoryToys        Category = "Toys"
)

var categories = []Category{
	CategoryClothing,
	CategoryShoes,
	CategoryAccessories,
	CategoryElectronics,
	CategoryHomeDecor,
	CategorySports,
	CategoryBooks,
	CategoryBeauty,
	CategoryToys,
}

// Categories returns every category in display order. The result is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Validate() error {
	for _, known := range categories {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("unknown category: %q", string(c))
}

func (c Category) String() string {
	return string(c)
}
