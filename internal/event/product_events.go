package event

import (
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// Topics lists every topic the catalog publishes.
func Topics() []string {
	return []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}
}

// ProductEvent is the payload of every product topic. PreviousSlug is only
// set on updates that changed the slug.
type ProductEvent struct {
	ProductID    string `json:"productId"`
	Slug         string `json:"slug"`
	PreviousSlug string `json:"previousSlug,omitempty"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	Availability bool   `json:"availability"`
}

func NewProductEvent(p model.Product) ProductEvent {
	return ProductEvent{
		ProductID:    p.ID.String(),
		Slug:         p.Slug,
		Title:        p.Title,
		Category:     string(p.Category),
		Price:        p.Price.String(),
		Availability: p.Availability,
	}
}
