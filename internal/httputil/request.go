package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"userledger/internal/config"
	"userledger/internal/domain/models"
)

// ErrMalformedBody is returned for any body that is not a single JSON object.
// Decoder details are wrapped for logs only.
var ErrMalformedBody = errors.New("request body must be a JSON object")

// ParseDocument decodes a JSON object body into a free-form document.
// An absent body yields an empty document; emptiness is the caller's call.
// Numbers are kept as json.Number so integers survive a store round trip.
func ParseDocument(w http.ResponseWriter, r *http.Request) (models.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	doc := models.Document{}
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return models.Document{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	// More() is false before a stray '}' or ']', so read to the end instead
	if tok, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("trailing data %v after object", tok)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	// A literal null decodes into a nil map
	if doc == nil {
		doc = models.Document{}
	}
	return doc, nil
}
