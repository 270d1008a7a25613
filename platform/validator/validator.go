// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"maturity_backend/platform/apperr"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator and keeps a table of
// user-facing messages keyed by "field.tag".
type Validator struct {
	v        *validator.Validate
	messages map[string]string
}

// New creates a new Validator instance with the shared custom rules.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phonedigits", phoneDigits)

	return &Validator{
		v:        v,
		messages: make(map[string]string),
	}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// RegisterMessage sets the message reported when field fails tag.
func (val *Validator) RegisterMessage(field, tag, message string) {
	val.messages[field+"."+tag] = message
}

// Fields validates s and converts failures to per-field messages.
// Returns nil when s is valid.
func (val *Validator) Fields(s any) apperr.FieldErrors {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.FieldErrors{"_": err.Error()}
	}

	out := make(apperr.FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		if msg, ok := val.messages[fe.Field()+"."+fe.Tag()]; ok {
			out[fe.Field()] = msg
			continue
		}
		out[fe.Field()] = fe.Field() + " failed " + fe.Tag()
	}
	return out
}

func phoneDigits(fl validator.FieldLevel) bool {
	count := 0
	for _, r := range fl.Field().String() {
		if unicode.IsDigit(r) {
			count++
		}
	}
	min := 10
	if param := fl.Param(); param != "" {
		n := 0
		for _, r := range param {
			if r < '0' || r > '9' {
				return false
			}
			n = n*10 + int(r-'0')
		}
		min = n
	}
	return count >= min
}
