package entity

import (
	"encoding/json"
	"testing"

	domainerrors "freshharvest/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPatch_Resolve_KeepsSuppliedOrder(t *testing.T) {
	patch := ProductPatch{
		{Name: "price", Value: json.Number("12.5")},
		{Name: "name", Value: "  Heirloom Tomatoes "},
		{Name: "image_url", Value: "https://cdn.example.com/t.png"},
		{Name: "description", Value: nil},
	}

	changes, err := patch.Resolve()
	require.NoError(t, err)
	require.Len(t, changes, 4)

	assert.Equal(t, []string{"price", "name", "imageUrl", "description"}, changes.Fields())

	price, ok := changes[0].Value.(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("12.50").Equal(price))

	assert.Equal(t, "Heirloom Tomatoes", changes[1].Value)

	imageURL, ok := changes[2].Value.(*string)
	require.True(t, ok)
	require.NotNil(t, imageURL)
	assert.Equal(t, "https://cdn.example.com/t.png", *imageURL)

	description, ok := changes[3].Value.(*string)
	require.True(t, ok)
	assert.Nil(t, description)
}

func TestProductPatch_Resolve_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		patch   ProductPatch
		details string
	}{
		{
			name:    "empty patch",
			patch:   ProductPatch{},
			details: "no fields to update",
		},
		{
			name:    "unknown field",
			patch:   ProductPatch{{Name: "price; DROP TABLE products", Value: json.Number("1")}},
			details: "unknown field",
		},
		{
			name:    "immutable id",
			patch:   ProductPatch{{Name: "id", Value: json.Number("7")}},
			details: "cannot be updated",
		},
		{
			name:    "immutable farmer",
			patch:   ProductPatch{{Name: "farmerId", Value: "someone-else"}},
			details: "cannot be updated",
		},
		{
			name: "alias and canonical name together",
			patch: ProductPatch{
				{Name: "imageUrl", Value: "a.png"},
				{Name: "image_url", Value: "b.png"},
			},
			details: "more than once",
		},
		{
			name:    "negative price",
			patch:   ProductPatch{{Name: "price", Value: json.Number("-1")}},
			details: "price must not be negative",
		},
		{
			name:    "price too large for the column",
			patch:   ProductPatch{{Name: "price", Value: json.Number("100000000")}},
			details: "price must be less than",
		},
		{
			name:    "price is not numeric",
			patch:   ProductPatch{{Name: "price", Value: "cheap"}},
			details: "price must be a number",
		},
		{
			name:    "blank name",
			patch:   ProductPatch{{Name: "name", Value: "   "}},
			details: "name must not be empty",
		},
		{
			name:    "null name",
			patch:   ProductPatch{{Name: "name", Value: nil}},
			details: "name must be a string",
		},
		{
			name:    "unit is not text",
			patch:   ProductPatch{{Name: "unit", Value: json.Number("3")}},
			details: "unit must be a string or null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes, err := tt.patch.Resolve()
			require.Error(t, err)
			assert.Nil(t, changes)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

			var appErr domainerrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Contains(t, appErr.Details(), tt.details)
		})
	}
}

func TestProductPatch_Resolve_EmptyIsRejectedEveryTime(t *testing.T) {
	for range 3 {
		_, err := ProductPatch(nil).Resolve()
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "json number", value: json.Number("3.50"), want: "3.5"},
		{name: "string", value: "4", want: "4"},
		{name: "float", value: 2.345, want: "2.35"},
		{name: "int", value: 7, want: "7"},
		{name: "zero", value: json.Number("0"), want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := ParsePrice(nil)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
