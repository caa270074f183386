package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func humanizeValidationErrors(errs validator.ValidationErrors) string {
	var b strings.Builder
	for _, fe := range errs {
		if fe.Param() != "" {
			fmt.Fprintf(&b, "%s: %s=%s; ", fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			fmt.Fprintf(&b, "%s: %s; ", fe.Namespace(), fe.Tag())
		}
	}
	s := b.String()
	if len(s) > 2 {
		s = s[:len(s)-2]
	}
	return s
}

func validateStruct(v *validator.Validate, x any) error {
	err := v.Struct(x)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		return validationf("%s", humanizeValidationErrors(verrs))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
