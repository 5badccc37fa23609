package errors

import (
	"fmt"
)

// DocError is the structured error type for docfind.
// It provides context for error handling, logging, and user presentation.
type DocError struct {
	// Code is the unique error code (e.g., "ERR_212_TIMEOUT").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Cache, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *DocError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DocError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with DocError.
func (e *DocError) Is(target error) bool {
	if t, ok := target.(*DocError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *DocError) WithDetail(key, value string) *DocError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a DocError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *DocError {
	return &DocError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a DocError with a formatted message and no cause.
func Newf(code string, format string, args ...any) *DocError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a DocError from an existing error.
// Returns nil if err is nil.
func Wrap(code string, err error) *DocError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// FileAccessError signals that file metadata could not be read.
func FileAccessError(path string, cause error) *DocError {
	return New(ErrCodeFileAccess, "cannot access file", cause).WithDetail("path", path)
}

// TimeoutError signals that a per-file deadline was exceeded.
func TimeoutError(path string, seconds float64) *DocError {
	return Newf(ErrCodeTimeout, "processing exceeded deadline (%.0fs)", seconds).WithDetail("path", path)
}

// MemoryLimitError signals that memory growth exceeded the per-file ceiling.
func MemoryLimitError(path string, growthMB float64) *DocError {
	return Newf(ErrCodeMemoryLimit, "memory growth %.1fMB exceeds ceiling", growthMB).WithDetail("path", path)
}

// ExtractionError signals that text extraction failed or produced nothing.
func ExtractionError(path string, cause error) *DocError {
	if cause == nil {
		return New(ErrCodeExtractionEmpty, "extraction produced no text", nil).WithDetail("path", path)
	}
	return New(ErrCodeExtraction, "extraction failed", cause).WithDetail("path", path)
}

// CacheError signals a cache serialization or store failure.
// Cache errors are warnings: callers treat them as a miss and continue.
func CacheError(message string, cause error) *DocError {
	return New(ErrCodeCache, message, cause)
}

// GetCode extracts the error code from a DocError.
// Returns empty string if err is not a DocError.
func GetCode(err error) string {
	if de, ok := err.(*DocError); ok {
		return de.Code
	}
	return ""
}

// IsFatal reports whether an error has fatal severity.
func IsFatal(err error) bool {
	if de, ok := err.(*DocError); ok {
		return de.Severity == SeverityFatal
	}
	return false
}
