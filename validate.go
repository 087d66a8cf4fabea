package fixture

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validateRoot checks a generated root value with the configured validator.
// Values that are not structs or non-nil pointers to structs are not checked.
func (g *Generator) validateRoot(v any) error {
	if g.validate == nil || v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Struct:
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
	default:
		return nil
	}

	err := g.validate.Struct(v)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		return validationError(rv.Type().String(), valErrs)
	}
	return &Error{
		Code:    CodeInvalidFixture,
		Message: fmt.Sprintf("cannot validate %s", rv.Type()),
		Type:    rv.Type().String(),
		cause:   err,
	}
}
