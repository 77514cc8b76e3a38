package errors

import (
	"errors"
	"fmt"

	"github.com/luan640/nr01facil/internal/errors/i18n"
)

// DefaultLocale is the default locale for user-facing messages. The product
// speaks Brazilian Portuguese.
const DefaultLocale = "pt-BR"

// Error is a domain error carrying a machine code and optional metadata used
// to render the user-facing message.
type Error struct {
	Code     Code
	Metadata map[string]string
	cause    error
}

// New creates a domain error for the given code.
func New(code Code) *Error {
	return &Error{Code: code}
}

// WithMetadata attaches message template metadata.
func (e *Error) WithMetadata(metadata map[string]string) *Error {
	e.Metadata = metadata
	return e
}

// Wrap records the underlying cause.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// Error implements the error interface with the machine code.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return string(e.Code)
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// UserMessage renders the localized user-facing message for an error. Non
// domain errors map to the generic unknown-error message.
func UserMessage(err error, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}
	catalog := i18n.GetCatalog(locale)

	var appErr *Error
	if errors.As(err, &appErr) {
		return catalog.Format(string(appErr.Code), appErr.Metadata)
	}
	return catalog.Format(string(CodeUnknown), nil)
}

// Message renders the localized message for a bare code.
func Message(code Code, locale string, metadata map[string]string) string {
	if locale == "" {
		locale = DefaultLocale
	}
	return i18n.GetCatalog(locale).Format(string(code), metadata)
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}
