package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dom/pitcher-favorites/internal/validation"
	"github.com/goccy/go-json"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var (
	errEmptyBody   = errors.New("request body is required")
	errInvalidBody = errors.New("invalid request body")
)

// decodeAndValidate decodes a JSON body into dst and runs its validate tags.
// The returned error is safe to show to clients.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return errInvalidBody
	}
	return validation.ValidateStruct(dst)
}
