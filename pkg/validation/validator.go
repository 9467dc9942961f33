// Package validation checks graph documents and command configuration before anything is built.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxNodes bounds the node count accepted from external documents
	MaxNodes = 1 << 28
	// MaxMembershipLength bounds membership lists read from external documents
	MaxMembershipLength = MaxNodes
)

func init() {
	validate = validator.New()
	// Register cannot fail for a non-empty tag and a non-nil function
	_ = validate.RegisterValidation("finite", validateFinite)
}

// validateFinite rejects NaN and infinite floats
func validateFinite(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// Struct validates v using its validate struct tags
func Struct(v any) error {
	if v == nil {
		return errors.New("value to validate cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateMembership checks that every community id is non-negative and that the list
// has one entry per node
func ValidateMembership(membership []int, nodes int) error {
	if len(membership) > MaxMembershipLength {
		return fmt.Errorf("membership: maximum %d entries allowed, got %d", MaxMembershipLength, len(membership))
	}
	if len(membership) != nodes {
		return fmt.Errorf("membership: got %d entries, want %d", len(membership), nodes)
	}
	for v, c := range membership {
		if c < 0 {
			return fmt.Errorf("membership: node %d has negative community %d", v, c)
		}
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "finite":
			return fmt.Errorf("%s: must be a finite number", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
