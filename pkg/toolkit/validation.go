package toolkit

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidArgument is matched by every error returned before a request is sent.
var ErrInvalidArgument = errors.New("invalid argument")

var validate = validator.New()

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func validateStruct(name string, v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArgument, name, err)
	}
	return nil
}

func requireID(name string, id int) error {
	if id <= 0 {
		return invalid("%s must be positive, got %d", name, id)
	}
	return nil
}
