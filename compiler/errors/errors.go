// Package errors provides structured error handling for the Loom derivation
// pass. Derivation-time failures are fatal to the build of the offending
// definition and carry codes for both terminal output and machine-parseable
// JSON; decode-time failures are ordinary error values produced by derived
// decoders and are not represented here.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCategory represents the category of derivation error
type ErrorCategory string

const (
	// CategoryDerivation represents derivation-pass errors (DRV001-099)
	CategoryDerivation ErrorCategory = "derivation"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that prevents derivation
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a warning that suggests potential issues
	SeverityWarning ErrorSeverity = "warning"
)

// ErrorCode represents a unique error code in the derivation pass
type ErrorCode string

const (
	// CodeUnsupportedShape is an element-type shape the generators do not
	// understand (DRV001)
	CodeUnsupportedShape ErrorCode = "DRV001"
	// CodeDuplicateKey is a wire key or tag declared twice within one
	// definition (DRV002)
	CodeDuplicateKey ErrorCode = "DRV002"
	// CodeUnknownReference is a named reference to a definition the
	// registry does not hold (DRV003)
	CodeUnknownReference ErrorCode = "DRV003"
	// CodeArityMismatch is a type-argument count that does not match the
	// referenced definition's parameters (DRV004)
	CodeArityMismatch ErrorCode = "DRV004"
	// CodeUnboundVariable is a type variable not bound by the enclosing
	// definition (DRV005)
	CodeUnboundVariable ErrorCode = "DRV005"
	// CodeRedefined is a definition name derived twice in one registry
	// (DRV006)
	CodeRedefined ErrorCode = "DRV006"
)

// DeriveError represents a fatal derivation-time failure for one type
// definition.
type DeriveError struct {
	// Code is the unique error code (e.g., "DRV001")
	Code ErrorCode `json:"code"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Definition is the name of the offending type definition
	Definition string `json:"definition"`
	// Message is the primary error message
	Message string `json:"message"`
	// Expected describes what was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was actually found (optional)
	Actual string `json:"actual,omitempty"`
}

// Error implements the error interface
func (e *DeriveError) Error() string {
	if e.Definition == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Definition, e.Message)
}

// ToJSON returns the error as a JSON string for tooling consumption
func (e *DeriveError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// New creates a derivation error for the named definition.
func New(code ErrorCode, definition, format string, args ...interface{}) *DeriveError {
	return &DeriveError{
		Code:       code,
		Category:   CategoryDerivation,
		Severity:   SeverityError,
		Definition: definition,
		Message:    fmt.Sprintf(format, args...),
	}
}

// WithShapes attaches expected/actual shape descriptions to the error.
func (e *DeriveError) WithShapes(expected, actual string) *DeriveError {
	e.Expected = expected
	e.Actual = actual
	return e
}
