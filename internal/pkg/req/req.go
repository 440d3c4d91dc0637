/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates strict JSON decoding and struct-tag validation of request
bodies, so handlers receive fully validated, typed input.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"batepapo/internal/pkg/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BindJSON binds the JSON request body to dst. It rejects non-JSON content
// types, malformed JSON, unknown fields, and trailing content.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// Validate checks dst against its `validate` struct tags.
func Validate(dst any) *errs.CustomError {
	if err := validate.Struct(dst); err != nil {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}
