// Package errors provides a lightweight structured error type (DocVersionsError)
// for category-based classification of configuration, hook, and asset failures.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a docversions error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Extension and asset errors
	CategoryHook  ErrorCategory = "hook"
	CategoryTheme ErrorCategory = "theme"
	CategoryAsset ErrorCategory = "asset"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// Kinds usable with errors.Is against any DocVersionsError.
var (
	ErrModuleLoad       = stdErrors.New("hook module load failed")
	ErrUnsupportedHook  = stdErrors.New("hook not supported")
	ErrHookFailed       = stdErrors.New("hook failed")
	ErrDuplicateAsset   = stdErrors.New("duplicate asset")
	ErrUnsupportedTheme = stdErrors.New("theme unsupported")
)

// DocVersionsError is a structured error with category, severity, and context
type DocVersionsError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`

	// Kind is one of the Err* sentinels (or nil) and drives Is.
	Kind error `json:"-"`
}

// ContextFields carries structured context for DocVersionsError
type ContextFields map[string]any

// Error implements the error interface
func (e *DocVersionsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DocVersionsError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the kind sentinel of this error.
func (e *DocVersionsError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// WithContext adds context information to the error
func (e *DocVersionsError) WithContext(key string, value any) *DocVersionsError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithKind tags the error with a sentinel kind.
func (e *DocVersionsError) WithKind(kind error) *DocVersionsError {
	e.Kind = kind
	return e
}

// New creates a new DocVersionsError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DocVersionsError {
	return &DocVersionsError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new DocVersionsError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DocVersionsError {
	return &DocVersionsError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first DocVersionsError in err's chain.
func As(err error) (*DocVersionsError, bool) {
	var dve *DocVersionsError
	if stdErrors.As(err, &dve) {
		return dve, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if dve, ok := As(err); ok {
		return dve.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a DocVersionsError
func GetCategory(err error) ErrorCategory {
	if dve, ok := As(err); ok {
		return dve.Category
	}
	return CategoryInternal
}
