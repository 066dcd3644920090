package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Request body errors. Handlers answer both with 409.
var (
	ErrMalformedBody = errors.New("malformed JSON body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// DecodeJSON decodes the request body into v. When limit is positive the body
// is capped at limit bytes. Any decoding failure is reported as
// ErrMalformedBody or ErrBodyTooLarge.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, limit int64) error {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrMalformedBody)
		}
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}
