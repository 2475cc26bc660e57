package query

import (
	"github.com/shopspring/decimal"
)

// Filter is the predicate a product listing is restricted by. Zero values
// mean "no restriction".
type Filter struct {
	TitleContains string
	Categories    []string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
}

// SortField is a sortable product column.
type SortField string

const (
	SortFieldCreatedAt SortField = "created_at"
	SortFieldPrice     SortField = "price"
)

type Sort struct {
	Field      SortField
	Descending bool
}

// PageInfo is the derived window of a paginated listing.
type PageInfo struct {
	Page  int
	Limit int
	Skip  int
}

// Pagination is returned alongside a page of results.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Build translates params into a filter, a sort order and a page window.
func Build(p Params) (Filter, Sort, PageInfo) {
	filter := Filter{
		TitleContains: p.Search,
		Categories:    p.Categories,
		MinPrice:      p.MinPrice,
		MaxPrice:      p.MaxPrice,
	}

	sort := Sort{Field: SortFieldCreatedAt, Descending: true}
	switch p.SortBy {
	case SortPriceAsc:
		sort = Sort{Field: SortFieldPrice}
	case SortPriceDesc:
		sort = Sort{Field: SortFieldPrice, Descending: true}
	}

	page, limit := p.Page, p.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	return filter, sort, PageInfo{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

// NewPagination computes the page count for total matching records.
func NewPagination(info PageInfo, total int64) Pagination {
	limit := int64(info.Limit)
	return Pagination{
		Page:  info.Page,
		Limit: info.Limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}
}
