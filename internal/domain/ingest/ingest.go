// Package ingest turns an untrusted upload payload into reviews.
//
// The pipeline is Parse -> Validate -> Decode. Validate only checks that every
// element carries the six review keys; Decode coerces whatever values passed
// that gate so the aggregations downstream never see a type they cannot use.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/reviewlens/internal/domain/review"
)

var errEmptyPayload = errors.New("empty payload")

// Parse decodes raw as generic JSON. Numbers are kept as json.Number.
func Parse(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &review.ParseError{Err: errEmptyPayload}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, toParseError(err, dec.InputOffset())
	}

	// Anything after the first value is malformed input.
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, toParseError(err, dec.InputOffset())
	}
	return v, nil
}

func toParseError(err error, offset int64) *review.ParseError {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		offset = se.Offset
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &review.ParseError{Offset: offset, Err: err}
}

// Validate checks key presence only: candidate must be a non-empty array whose
// elements are objects holding every required field.
func Validate(candidate any) error {
	items, ok := candidate.([]any)
	if !ok {
		return &review.ValidationError{Index: -1, Reason: fmt.Sprintf("payload must be an array, got %s", kind(candidate))}
	}
	if len(items) == 0 {
		return review.EmptyError()
	}
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return &review.ValidationError{Index: i, Reason: fmt.Sprintf("must be an object, got %s", kind(item))}
		}
		for _, field := range review.RequiredFields {
			if _, present := obj[field]; !present {
				return &review.ValidationError{Index: i, Field: field, Reason: "is missing"}
			}
		}
	}
	return nil
}

// IsValid is the boolean form of Validate.
func IsValid(candidate any) bool {
	return Validate(candidate) == nil
}

// Decode validates candidate and converts it into reviews.
//
// Text fields keep strings as-is, stringify other scalars and map null to "".
// Rating keeps any finite number or numeric string as-is, fractions included.
// Anything else becomes 0, which the rating histogram skips.
func Decode(candidate any) ([]review.Review, error) {
	if err := Validate(candidate); err != nil {
		return nil, err
	}
	items, _ := candidate.([]any)
	out := make([]review.Review, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		out = append(out, review.Review{
			Author:   text(obj[review.FieldAuthor]),
			Body:     text(obj[review.FieldBody]),
			Date:     text(obj[review.FieldDate]),
			Heading:  text(obj[review.FieldHeading]),
			Location: text(obj[review.FieldLocation]),
			Rating:   rating(obj[review.FieldRating]),
		})
	}
	return out, nil
}

// Load runs the full boundary pipeline on raw bytes.
func Load(raw []byte) ([]review.Review, error) {
	v, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func rating(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case float64:
		return finite(t)
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return finite(f)
	default:
		return 0
	}
}

// finite maps NaN and infinities onto 0 so sums stay defined.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
