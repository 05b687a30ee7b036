// Package helpers holds small request/response utilities shared by the
// controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	httperrors "github.com/todolabs/todolist/internal/http/errors"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// ReadJSON decodes the request body into dst, rejecting unknown fields and
// oversized bodies.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return httperrors.ErrInvalidJSON.WithDetail("empty body")
		}
		return httperrors.ErrInvalidJSON.WithCause(err)
	}
	// A body must contain exactly one JSON value.
	if dec.More() {
		return httperrors.ErrInvalidJSON.WithDetail("unexpected trailing data")
	}
	return nil
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
