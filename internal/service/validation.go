package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that reports JSON field names and knows
// the category icon palette.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("category_icon", func(fl validator.FieldLevel) bool {
		return domain.IsCategoryIcon(fl.Field().String())
	})
	return v
}

// validate runs struct validation and converts the first failure into a
// domain.ErrValidation.
func validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &domain.ErrValidation{Field: "body", Message: err.Error()}
	}
	fe := ve[0]
	return &domain.ErrValidation{Field: fe.Field(), Message: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gt":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "hexcolor":
		return "must be a hex colour"
	case "url":
		return "must be a URL"
	case "category_icon":
		return "must be one of the supported icons"
	}
	return "invalid (" + fe.Tag() + ")"
}
