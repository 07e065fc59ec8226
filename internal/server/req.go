package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// readBody decodes and validates a JSON request body into dest.
func readBody(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errBadRequest("invalid JSON body: %v", err)
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return errBadRequest("validation failed: %v", err)
	}

	return nil
}

// intParam reads a positive integer URL parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, errBadRequest("%s must be a positive integer, got %q", name, raw)
	}
	return value, nil
}
