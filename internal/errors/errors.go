// Package errors provides a lightweight structured error type (MenuError)
// for category-based classification and retry semantics across the retrieval,
// recovery, and cache layers.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a menu service error for classification
type ErrorCategory string

const (
	// External retrieval errors: non-2xx HTTP responses and transport failures
	CategoryRetrieval ErrorCategory = "retrieval"

	// Recovery and structure errors
	CategoryParse      ErrorCategory = "parse"      // expected declaration/object-literal shape not found
	CategoryValidation ErrorCategory = "validation" // parsed structure missing required fields

	// Local state errors
	CategoryCache  ErrorCategory = "cache" // stored cache entry unreadable
	CategoryConfig ErrorCategory = "config"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// MenuError is a structured error with category, retryability, and context
type MenuError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for MenuError
type ContextFields map[string]any

// Error implements the error interface
func (e *MenuError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *MenuError) Unwrap() error {
	return e.Cause
}

// WithRetryable overrides the retryability classification.
func (e *MenuError) WithRetryable(retryable bool) *MenuError {
	e.Retryable = retryable
	return e
}

// WithContext adds context information to the error
func (e *MenuError) WithContext(key string, value any) *MenuError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new MenuError
func New(category ErrorCategory, severity ErrorSeverity, message string) *MenuError {
	return &MenuError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new MenuError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *MenuError {
	return &MenuError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// RetrievalError creates a retrieval error. Transport-level failures are
// retryable; a definite HTTP status is not (the alternate strategy handles it).
func RetrievalError(message string) *MenuError {
	return &MenuError{
		Category:  CategoryRetrieval,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: true,
	}
}

// ParseError creates a parse error for text whose declaration/object-literal
// shape could not be recovered.
func ParseError(message string) *MenuError {
	return &MenuError{
		Category:  CategoryParse,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: false,
	}
}

// ValidationError creates a validation error for a parsed structure missing
// required fields.
func ValidationError(message string) *MenuError {
	return &MenuError{
		Category:  CategoryValidation,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: false,
	}
}

// CacheCorruptionError creates a cache error for an unreadable stored entry.
func CacheCorruptionError(message string) *MenuError {
	return &MenuError{
		Category:  CategoryCache,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: false,
	}
}

// ConfigError creates a configuration error.
func ConfigError(message string) *MenuError {
	return &MenuError{
		Category:  CategoryConfig,
		Severity:  SeverityError,
		Message:   message,
		Retryable: false,
	}
}

// IsRetrieval reports whether err is a retrieval-category error.
func IsRetrieval(err error) bool { return IsCategory(err, CategoryRetrieval) }

// IsParse reports whether err is a parse-category error.
func IsParse(err error) bool { return IsCategory(err, CategoryParse) }

// IsValidation reports whether err is a validation-category error.
func IsValidation(err error) bool { return IsCategory(err, CategoryValidation) }

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var me *MenuError
	if errors.As(err, &me) {
		return me.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var me *MenuError
	if errors.As(err, &me) {
		return me.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if the error is not a MenuError
func GetCategory(err error) ErrorCategory {
	var me *MenuError
	if errors.As(err, &me) {
		return me.Category
	}
	return CategoryInternal
}
