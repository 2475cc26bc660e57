package http

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

type productResponse struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	Category     model.Category `json:"category"`
	Price        json.Number    `json:"price"`
	Availability bool           `json:"availability"`
	Slug         string         `json:"slug"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func newProductResponse(p model.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Image:        p.Image,
		Category:     p.Category,
		Price:        json.Number(p.Price.String()),
		Availability: p.Availability,
		Slug:         p.Slug,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func newProductResponses(products []model.Product) []productResponse {
	items := make([]productResponse, 0, len(products))
	for _, p := range products {
		items = append(items, newProductResponse(p))
	}
	return items
}

type adminResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func newAdminResponse(a model.Admin) adminResponse {
	return adminResponse{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
	}
}

type authResponse struct {
	Token string        `json:"token"`
	Admin adminResponse `json:"admin"`
}

func newAuthResponse(res service.AuthResult) authResponse {
	return authResponse{
		Token: res.Token,
		Admin: newAdminResponse(res.Admin),
	}
}
