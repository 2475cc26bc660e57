package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// SortBy is the requested product ordering.
type SortBy string

const (
	SortNewest    SortBy = "newest"
	SortPriceAsc  SortBy = "price_asc"
	SortPriceDesc SortBy = "price_desc"
)

// Params is the recognized set of product listing parameters after
// defaulting. Unset optional filters are nil.
type Params struct {
	Search     string
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     SortBy
	Page       int
	Limit      int
}

// DefaultParams lists everything, newest first.
func DefaultParams() Params {
	return Params{
		SortBy: SortNewest,
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}
}

// ParseParams reads listing parameters from a query string.
//
// Bad page, limit and price values fall back to their defaults instead of
// failing. A repeated single value parameter uses its first occurrence;
// repeated categories are merged.
func ParseParams(values url.Values) (Params, error) {
	var (
		search   *string
		minPrice *string
		maxPrice *string
		sortBy   *string
		page     *string
		limit    *string
	)

	bindings := []struct {
		name string
		dest **string
	}{
		{"search", &search},
		{"minPrice", &minPrice},
		{"maxPrice", &maxPrice},
		{"sortBy", &sortBy},
		{"page", &page},
		{"limit", &limit},
	}
	for _, b := range bindings {
		all, ok := values[b.name]
		if !ok || len(all) == 0 {
			continue
		}
		if err := runtime.BindQueryParameter("form", true, false, b.name, url.Values{b.name: all[:1]}, b.dest); err != nil {
			return Params{}, apperr.ValidationErr.WrapParent(err).
				WithMsg(fmt.Sprintf("invalid query parameter %q", b.name))
		}
	}

	var categories []string
	for _, raw := range values["categories"] {
		var part []string
		if err := runtime.BindQueryParameter("form", false, false, "categories", url.Values{"categories": {raw}}, &part); err != nil {
			return Params{}, apperr.ValidationErr.WrapParent(err).
				WithMsg(`invalid query parameter "categories"`)
		}
		categories = append(categories, part...)
	}

	p := DefaultParams()

	if search != nil {
		p.Search = strings.TrimSpace(*search)
	}

	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			p.Categories = append(p.Categories, c)
		}
	}

	p.MinPrice = parsePrice(minPrice)
	p.MaxPrice = parsePrice(maxPrice)

	if sortBy != nil {
		switch SortBy(*sortBy) {
		case SortPriceAsc, SortPriceDesc:
			p.SortBy = SortBy(*sortBy)
		}
	}

	p.Page = parsePositive(page, DefaultPage, math.MaxInt32)
	p.Limit = parsePositive(limit, DefaultLimit, MaxLimit)

	return p, nil
}

func parsePrice(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

func parsePositive(s *string, def, upper int) int {
	if s == nil {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil || n < 1 {
		return def
	}
	if n > upper {
		return upper
	}
	return n
}
