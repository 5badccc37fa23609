// Package errors provides structured error handling for docfind.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO and ingestion errors
//   - 3XX: Cache errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and ingestion errors.
	CategoryIO Category = "IO"
	// CategoryCache indicates cache store errors.
	CategoryCache Category = "CACHE"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates an unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed but processing continues.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category. None of the 2XX/3XX codes are fatal to
// a scan: the affected file or batch is skipped and the scan completes.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"

	// IO and ingestion errors (200-299)
	ErrCodeFileAccess      = "ERR_201_FILE_ACCESS"
	ErrCodeExtractionEmpty = "ERR_210_EXTRACTION_EMPTY"
	ErrCodeExtraction      = "ERR_211_EXTRACTION_FAILED"
	ErrCodeTimeout         = "ERR_212_TIMEOUT"
	ErrCodeMemoryLimit     = "ERR_213_MEMORY_LIMIT"

	// Cache errors (300-399)
	ErrCodeCache = "ERR_301_CACHE"

	// Validation errors (400-499)
	ErrCodeInvalidPath  = "ERR_401_INVALID_PATH"
	ErrCodeInvalidQuery = "ERR_402_INVALID_QUERY"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
	ErrCodeWorker   = "ERR_510_WORKER"
)

// categoryFromCode extracts the category from an error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryCache
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from an error code.
// Everything in the ingestion path degrades rather than aborts.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig:
		return SeverityFatal
	case CategoryCache:
		return SeverityWarning
	default:
		return SeverityError
	}
}
