package service

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

var (
	ErrDecode     = errors.New("decode")
	ErrValidation = errors.New("validation")
)

var (
	ErrMissingMapping     = errors.New("location mapping missing")
	ErrShipmentProcessing = errors.New("tracking set, but order processing failed")
	ErrWebhookFailed      = errors.New("webhook processing failed")
)

// MissingMappingError names the Books warehouse that has no OMS location bound to it.
// Suggestion is only a hint for the operator; it is never applied.
type MissingMappingError struct {
	BooksLocationID   string
	BooksLocationName string
	Suggestion        string
}

func (e *MissingMappingError) Error() string {
	if e.BooksLocationID == "" {
		return "location mapping missing: no books location id"
	}
	msg := fmt.Sprintf("location mapping missing for books warehouse %s (%s)", e.BooksLocationID, e.BooksLocationName)
	if e.Suggestion != "" {
		msg += "; closest oms location: " + e.Suggestion
	}
	return msg
}

func (e *MissingMappingError) Is(target error) bool { return target == ErrMissingMapping }

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func trimErr(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if len(s) > 1000 {
		return s[:1000]
	}
	return s
}
