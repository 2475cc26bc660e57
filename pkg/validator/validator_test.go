package validator_test

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

type color string

func (c color) Validate() error {
	if c == "red" || c == "blue" {
		return nil
	}
	return errors.New("unknown color")
}

type item struct {
	Name  string          `json:"name" validate:"required,max=5"`
	Color color           `json:"color" validate:"enum"`
	Price decimal.Decimal `json:"price" validate:"nonnegative"`
	Qty   int             `json:"qty" validate:"nonnegative"`

	Discount *decimal.Decimal `json:"discount" validate:"omitempty,nonnegative"`
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	t.Run("Should accept a valid struct", func(t *testing.T) {
		err := v.Validate(item{Name: "mug", Color: "red", Price: decimal.RequireFromString("1.5"), Qty: 0})
		assert.NoError(t, err)
	})

	t.Run("Should report json field names", func(t *testing.T) {
		err := v.Validate(item{Name: "", Color: "green", Price: decimal.RequireFromString("-1"), Qty: -2})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		var verrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &verrs))

		fields := map[string]string{}
		for _, fe := range verrs {
			fields[fe.Field()] = validator.ValidationErrorMessage(fe)
		}
		assert.Equal(t, "field is required", fields["name"])
		assert.Equal(t, "invalid enum value: green", fields["color"])
		assert.Equal(t, "must not be negative", fields["price"])
		assert.Equal(t, "must not be negative", fields["qty"])
	})

	t.Run("Should validate optional decimals", func(t *testing.T) {
		neg := decimal.RequireFromString("-0.01")
		err := v.Validate(item{Name: "mug", Color: "red", Discount: &neg})
		require.Error(t, err)

		zero := decimal.Zero
		assert.NoError(t, v.Validate(item{Name: "mug", Color: "red", Discount: &zero}))
	})

	t.Run("Should count runes for max", func(t *testing.T) {
		err := v.Validate(item{Name: "ééééé", Color: "blue"})
		assert.NoError(t, err)
	})
}
