package script

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Dotted identifier, e.g. "Game.Scripts" or "Klawr.UnrealEngine.UActor".
var qualifiedName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// validate is shared by every name check in the package.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidations installs the "class_name" and "assembly_name" tags on v.
// Both accept dotted identifiers.
func RegisterValidations(v *validator.Validate) error {
	isQualified := func(fl validator.FieldLevel) bool {
		return qualifiedName.MatchString(fl.Field().String())
	}
	if err := v.RegisterValidation("class_name", isQualified); err != nil {
		return fmt.Errorf("register class_name: %w", err)
	}
	if err := v.RegisterValidation("assembly_name", isQualified); err != nil {
		return fmt.Errorf("register assembly_name: %w", err)
	}
	return nil
}

// ValidateName checks that name is a non-empty dotted identifier.
func ValidateName(name string) error {
	if err := validate.Var(name, "required,class_name"); err != nil {
		return fmt.Errorf("invalid name %q: %w", name, err)
	}
	return nil
}
