package handler

import (
	"encoding/json"
	"io"

	"freshharvest/internal/domain/entity"
	domainerrors "freshharvest/internal/domain/errors"

	"github.com/pkg/errors"
)

// decodeProductPatch reads a JSON object as an ordered list of field updates.
// Numbers stay json.Number so prices keep their decimal digits.
func decodeProductPatch(r io.Reader) (entity.ProductPatch, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, invalidBody(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, domainerrors.ErrValidationFailed.WithDetails("request body must be a JSON object")
	}

	patch := entity.ProductPatch{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalidBody(err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, domainerrors.ErrValidationFailed.WithDetails("invalid field name")
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, invalidBody(err)
		}
		patch = append(patch, entity.FieldUpdate{Name: name, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("malformed JSON: unterminated object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unexpected data after JSON object")
	}

	return patch, nil
}

func invalidBody(err error) error {
	if errors.Is(err, io.EOF) {
		return domainerrors.ErrValidationFailed.WithDetails("request body is empty")
	}

	return domainerrors.ErrValidationFailed.WithDetails("malformed JSON: " + err.Error())
}
