package usecase

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"storefront/internal/domain"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("brstate", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.BrazilianStates, strings.ToUpper(fl.Field().String()))
	})
	return v
}

var fieldMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"number":   "must contain digits only",
	"len":      "must have exactly 8 digits",
	"brstate":  "must be a Brazilian state code",
	"oneof":    "must be pix or cardOrBillet",
}

// toValidationErrors flattens validator output into field/message pairs.
func toValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(domain.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		out = append(out, domain.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

func hasField(verrs domain.ValidationErrors, field string) bool {
	for _, fe := range verrs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

var punctuation = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "", "+", "")

// stripPunctuation removes the separators people type into phone and postal
// code fields. Letters are left in place so they still fail validation.
func stripPunctuation(s string) string {
	return punctuation.Replace(strings.TrimSpace(s))
}
