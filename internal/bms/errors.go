package bms

import (
	"errors"
	"fmt"
)

// Failure classes surfaced to callers. Match with errors.Is.
var (
	ErrInvalidCommand    = errors.New("invalid command")
	ErrAuth              = errors.New("vendor login rejected")
	ErrNoSession         = errors.New("no active vendor session")
	ErrSessionExpired    = errors.New("vendor session expired")
	ErrVendorUnreachable = errors.New("vendor unreachable")
	ErrVendorLogic       = errors.New("vendor reported failure")
)

// VendorError is returned when the vendor answered but the call did not
// succeed: either a non-success embedded status or an HTTP error status
// with nothing recoverable in the body.
type VendorError struct {
	Command    string
	HTTPStatus int
	Status     string
	StatusCode string
	Message    string
}

func (e *VendorError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s: vendor status %q: %s", e.Command, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: vendor http %d: %s", e.Command, e.HTTPStatus, e.Message)
}

// Is lets errors.Is(err, ErrVendorLogic) match any VendorError.
func (e *VendorError) Is(target error) bool {
	return target == ErrVendorLogic
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}
