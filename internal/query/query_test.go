package query_test

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/query"
)

func TestParseParams(t *testing.T) {
	t.Run("Should default when empty", func(t *testing.T) {
		p, err := query.ParseParams(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, query.DefaultParams(), p)
	})

	t.Run("Should parse every recognized parameter", func(t *testing.T) {
		values, err := url.ParseQuery("search=%20shoe%20&categories=Shoes,Clothing&minPrice=50&maxPrice=100.5&sortBy=price_desc&page=2&limit=24")
		require.NoError(t, err)

		p, err := query.ParseParams(values)
		require.NoError(t, err)

		assert.Equal(t, "shoe", p.Search)
		assert.Equal(t, []string{"Shoes", "Clothing"}, p.Categories)
		require.NotNil(t, p.MinPrice)
		require.NotNil(t, p.MaxPrice)
		assert.True(t, decimal.NewFromInt(50).Equal(*p.MinPrice))
		assert.True(t, decimal.RequireFromString("100.5").Equal(*p.MaxPrice))
		assert.Equal(t, query.SortPriceDesc, p.SortBy)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 24, p.Limit)
	})

	t.Run("Should fall back on invalid paging values", func(t *testing.T) {
		tests := []struct {
			raw   string
			page  int
			limit int
		}{
			{"page=abc&limit=xyz", 1, 12},
			{"page=0&limit=0", 1, 12},
			{"page=-3&limit=-1", 1, 12},
			{"page=3&limit=1000", 3, query.MaxLimit},
			{"page=1.5&limit=", 1, 12},
		}
		for _, tt := range tests {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			p, err := query.ParseParams(values)
			require.NoError(t, err, tt.raw)
			assert.Equal(t, tt.page, p.Page, tt.raw)
			assert.Equal(t, tt.limit, p.Limit, tt.raw)
		}
	})

	t.Run("Should ignore unparsable or negative prices", func(t *testing.T) {
		p, err := query.ParseParams(url.Values{"minPrice": {"cheap"}, "maxPrice": {"-5"}})
		require.NoError(t, err)
		assert.Nil(t, p.MinPrice)
		assert.Nil(t, p.MaxPrice)
	})

	t.Run("Should treat unknown sort as newest", func(t *testing.T) {
		p, err := query.ParseParams(url.Values{"sortBy": {"title_asc"}})
		require.NoError(t, err)
		assert.Equal(t, query.SortNewest, p.SortBy)
	})

	t.Run("Should drop empty categories", func(t *testing.T) {
		p, err := query.ParseParams(url.Values{"categories": {" Shoes ,,Home & Decor,"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Shoes", "Home & Decor"}, p.Categories)
	})

	t.Run("Should merge repeated categories", func(t *testing.T) {
		values, err := url.ParseQuery("categories=Shoes&categories=Books,Toys&categories=")
		require.NoError(t, err)

		p, err := query.ParseParams(values)
		require.NoError(t, err)
		assert.Equal(t, []string{"Shoes", "Books", "Toys"}, p.Categories)
	})

	t.Run("Should use the first of repeated single value parameters", func(t *testing.T) {
		tests := []struct {
			raw    string
			page   int
			limit  int
			sortBy query.SortBy
		}{
			{"page=2&page=3", 2, 12, query.SortNewest},
			{"limit=5&limit=x", 1, 5, query.SortNewest},
			{"limit=x&limit=5", 1, 12, query.SortNewest},
			{"sortBy=price_asc&sortBy=price_desc", 1, 12, query.SortPriceAsc},
		}
		for _, tt := range tests {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			p, err := query.ParseParams(values)
			require.NoError(t, err, tt.raw)
			assert.Equal(t, tt.page, p.Page, tt.raw)
			assert.Equal(t, tt.limit, p.Limit, tt.raw)
			assert.Equal(t, tt.sortBy, p.SortBy, tt.raw)
		}
	})
}

func TestBuild(t *testing.T) {
	t.Run("Should sort newest first by default", func(t *testing.T) {
		_, sort, info := query.Build(query.DefaultParams())
		assert.Equal(t, query.Sort{Field: query.SortFieldCreatedAt, Descending: true}, sort)
		assert.Equal(t, query.PageInfo{Page: 1, Limit: 12, Skip: 0}, info)
	})

	t.Run("Should map price sorts", func(t *testing.T) {
		p := query.DefaultParams()
		p.SortBy = query.SortPriceAsc
		_, sort, _ := query.Build(p)
		assert.Equal(t, query.Sort{Field: query.SortFieldPrice}, sort)

		p.SortBy = query.SortPriceDesc
		_, sort, _ = query.Build(p)
		assert.Equal(t, query.Sort{Field: query.SortFieldPrice, Descending: true}, sort)
	})

	t.Run("Should derive skip from page and limit", func(t *testing.T) {
		p := query.DefaultParams()
		p.Page = 2
		_, _, info := query.Build(p)
		assert.Equal(t, 12, info.Skip)
	})

	t.Run("Should carry filters", func(t *testing.T) {
		min := decimal.NewFromInt(50)
		p := query.DefaultParams()
		p.Search = "shoe"
		p.Categories = []string{"Shoes"}
		p.MinPrice = &min

		filter, _, _ := query.Build(p)
		assert.Equal(t, "shoe", filter.TitleContains)
		assert.Equal(t, []string{"Shoes"}, filter.Categories)
		assert.Equal(t, &min, filter.MinPrice)
		assert.Nil(t, filter.MaxPrice)
	})
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		pages int64
	}{
		{25, 12, 3},
		{24, 12, 2},
		{0, 12, 0},
		{1, 12, 1},
	}
	for _, tt := range tests {
		got := query.NewPagination(query.PageInfo{Page: 2, Limit: tt.limit, Skip: 12}, tt.total)
		assert.Equal(t, tt.pages, got.Pages)
		assert.Equal(t, tt.total, got.Total)
	}
}
