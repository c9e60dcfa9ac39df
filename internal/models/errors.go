package models

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned by every constructor and With* method of
// Employee when a field violates its rule. Field-specific errors wrap it.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrInvalidFirstName   = fmt.Errorf("%w: first name must not be empty", ErrInvalidArgument)
	ErrInvalidLastName    = fmt.Errorf("%w: last name must not be empty", ErrInvalidArgument)
	ErrInvalidDescription = fmt.Errorf("%w: description must not be empty", ErrInvalidArgument)
	ErrInvalidJobTitle    = fmt.Errorf("%w: job title must not be empty", ErrInvalidArgument)
	ErrInvalidJobYears    = fmt.Errorf("%w: job years must be between 0 and %d", ErrInvalidArgument, MaxJobYears)
	ErrInvalidEmail       = fmt.Errorf("%w: email must not be empty", ErrInvalidArgument)
)
