package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	domainerrors "freshharvest/internal/domain/errors"

	"github.com/shopspring/decimal"
)

// ProductField names a mutable product attribute.
type ProductField string

const (
	ProductFieldName        ProductField = "name"
	ProductFieldDescription ProductField = "description"
	ProductFieldPrice       ProductField = "price"
	ProductFieldUnit        ProductField = "unit"
	ProductFieldCategory    ProductField = "category"
	ProductFieldImageURL    ProductField = "imageUrl"
)

// FieldUpdate is one client-supplied field and its JSON-decoded value
// (string, json.Number, float64, bool, nil, ...).
type FieldUpdate struct {
	Name  string
	Value any
}

// ProductPatch lists field updates in the order the client supplied them.
type ProductPatch []FieldUpdate

// ProductChange is a validated assignment. Value is a string for name,
// a decimal.Decimal for price and a *string for the nullable text fields.
type ProductChange struct {
	Field ProductField
	Value any
}

// ProductChanges keeps the order of the patch it was resolved from.
type ProductChanges []ProductChange

// Fields returns the changed field names in order.
func (c ProductChanges) Fields() []string {
	fields := make([]string, 0, len(c))
	for _, change := range c {
		fields = append(fields, string(change.Field))
	}

	return fields
}

type fieldSetter struct {
	field ProductField
	parse func(name string, value any) (any, error)
}

// productFieldSetters is the allow-list of updatable fields. Anything not listed
// here never reaches the store.
var productFieldSetters = map[string]fieldSetter{
	"name":        {field: ProductFieldName, parse: parseRequiredText},
	"description": {field: ProductFieldDescription, parse: parseNullableText},
	"price":       {field: ProductFieldPrice, parse: parsePriceValue},
	"unit":        {field: ProductFieldUnit, parse: parseNullableText},
	"category":    {field: ProductFieldCategory, parse: parseNullableText},
	"imageUrl":    {field: ProductFieldImageURL, parse: parseNullableText},
	"image_url":   {field: ProductFieldImageURL, parse: parseNullableText},
}

var immutableProductFields = map[string]struct{}{
	"id":        {},
	"farmerId":  {},
	"farmer_id": {},
}

// Resolve validates every update against the allow-list and converts the values
// to their typed form. Nothing is returned unless the whole patch is valid.
func (p ProductPatch) Resolve() (ProductChanges, error) {
	if len(p) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("no fields to update")
	}

	seen := make(map[ProductField]struct{}, len(p))
	changes := make(ProductChanges, 0, len(p))
	for _, update := range p {
		if _, ok := immutableProductFields[update.Name]; ok {
			return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("field %q cannot be updated", update.Name))
		}

		setter, ok := productFieldSetters[update.Name]
		if !ok {
			return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown field %q", update.Name))
		}

		if _, dup := seen[setter.field]; dup {
			return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("field %q supplied more than once", setter.field))
		}
		seen[setter.field] = struct{}{}

		value, err := setter.parse(update.Name, update.Value)
		if err != nil {
			return nil, err
		}

		changes = append(changes, ProductChange{Field: setter.field, Value: value})
	}

	return changes, nil
}

// ParsePrice converts a JSON-decoded value into a normalized price.
func ParsePrice(value any) (decimal.Decimal, error) {
	var (
		price decimal.Decimal
		err   error
	)

	switch v := value.(type) {
	case nil:
		return decimal.Zero, errInvalidValue("price", "is required")
	case decimal.Decimal:
		price = v
	case json.Number:
		price, err = decimal.NewFromString(v.String())
	case string:
		price, err = decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		price = decimal.NewFromFloat(v)
	case int:
		price = decimal.NewFromInt(int64(v))
	case int64:
		price = decimal.NewFromInt(v)
	default:
		return decimal.Zero, errInvalidValue("price", "must be a number")
	}
	if err != nil {
		return decimal.Zero, errInvalidValue("price", "must be a number")
	}

	return NormalizePrice(price)
}

func parsePriceValue(_ string, value any) (any, error) {
	return ParsePrice(value)
}

func parseRequiredText(name string, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errInvalidValue(name, "must be a string")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errInvalidValue(name, "must not be empty")
	}

	return s, nil
}

func parseNullableText(name string, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return (*string)(nil), nil
	case string:
		return &v, nil
	default:
		return nil, errInvalidValue(name, "must be a string or null")
	}
}

func errInvalidValue(field, reason string) error {
	return domainerrors.ErrValidationFailed.WithDetails(field + " " + reason)
}
