package utils

import (
	"encoding/json"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance. Field names in errors come
// from json tags; the "password" tag checks character-class complexity.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterValidation("password", validPassword)
	})
	return validate
}

func validPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// Decode reads a JSON body without validation.
func Decode(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return internal_errors.New("validation_failure", 400)
	}
	return nil
}

// MessageKeyFunc maps a failed field and its validator tag to a message key.
type MessageKeyFunc func(field, tag string) string

// DecodeValidate decodes a JSON body and validates it, turning validator
// failures into a field-keyed validation error for the error boundary.
func DecodeValidate(r io.Reader, body any, keyFor MessageKeyFunc) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return internal_errors.New("validation_failure", 400)
	}
	if err := Validator().Struct(body); err != nil {
		fieldKeys := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fieldKeys[fieldErr.Field()] = keyFor(fieldErr.Field(), fieldErr.Tag())
		}
		return internal_errors.NewValidation(fieldKeys)
	}
	return nil
}
