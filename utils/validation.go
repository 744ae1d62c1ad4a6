// utils/validation.go
package utils

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidateDocument reports whether a customer document number can be stored.
// Any format is accepted (cédula, RNC, passport, foreign IDs); it only has to
// contain something other than whitespace.
func ValidateDocument(doc string) bool {
	return strings.TrimSpace(doc) != ""
}

// RegisterValidators adds the "documento" binding tag to gin's validator and
// makes validation errors report JSON field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return v.RegisterValidation("documento", func(fl validator.FieldLevel) bool {
		return ValidateDocument(fl.Field().String())
	})
}

// jsonFieldName returns "" for fields without a json tag; the validator then
// falls back to the Go field name.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
