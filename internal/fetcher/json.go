package fetcher

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONObject decodes a single JSON object from a reader. Untyped
// numbers inside T decode as json.Number.
func DecodeJSONObject[T any](r io.Reader) (*T, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var obj T
	if err := dec.Decode(&obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	return &obj, nil
}

// DecodeJSONValue decodes one arbitrary JSON value from a reader. Numbers are
// kept as json.Number so their literal text survives a re-encode, and any
// non-whitespace content after the value is rejected.
func DecodeJSONValue(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, eris.Wrap(err, "json: decode value")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, eris.New("json: trailing data after value")
	}
	return v, nil
}
