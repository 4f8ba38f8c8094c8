// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Record source errors
const (
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	ErrCodeSourceInvalid     ErrorCode = "SOURCE_INVALID"
)

// Seed errors
const (
	ErrCodeSeedStoreUnavailable ErrorCode = "SEED_STORE_UNAVAILABLE"
	ErrCodeSeedNotFound         ErrorCode = "SEED_NOT_FOUND"
	ErrCodeEmptySeedTags        ErrorCode = "EMPTY_SEED_TAGS"
	ErrCodeEmptySeedCode        ErrorCode = "EMPTY_SEED_CODE"
	ErrCodeSeedCodeExhausted    ErrorCode = "SEED_CODE_EXHAUSTED"
)

// Input and infrastructure errors
const (
	ErrCodeInvalidQueryInput ErrorCode = "INVALID_QUERY_INPUT"

	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying failure, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewSourceUnavailableError reports that the record snapshot could not be read.
func NewSourceUnavailableError(source string, err error) *StandardError {
	return newError(ErrCodeSourceUnavailable,
		fmt.Sprintf("Record source '%s' unavailable", source), err.Error(), true, err)
}

// NewSourceInvalidError reports a snapshot that was read but is not a record list.
func NewSourceInvalidError(source, details string) *StandardError {
	return newError(ErrCodeSourceInvalid,
		fmt.Sprintf("Record source '%s' returned an invalid dataset", source), details, false, nil)
}

// NewSeedStoreUnavailableError reports a failed seed read or write.
func NewSeedStoreUnavailableError(store string, err error) *StandardError {
	return newError(ErrCodeSeedStoreUnavailable,
		fmt.Sprintf("Seed store '%s' unavailable", store), err.Error(), true, err)
}

// NewSeedNotFoundError is returned when a code does not resolve to a stored seed.
func NewSeedNotFoundError(code string) *StandardError {
	return newError(ErrCodeSeedNotFound, "Seed not found",
		fmt.Sprintf("code: %s", code), false, nil).WithMetadata("code", code)
}

// NewEmptySeedTagsError rejects a seed without any usable tag.
func NewEmptySeedTagsError() *StandardError {
	return newError(ErrCodeEmptySeedTags, "At least one tag is required", "", false, nil)
}

// NewEmptySeedCodeError rejects a blank seed code.
func NewEmptySeedCodeError() *StandardError {
	return newError(ErrCodeEmptySeedCode, "Seed code is empty", "", false, nil)
}

// NewSeedCodeExhaustedError reports repeated code collisions.
func NewSeedCodeExhaustedError(attempts int) *StandardError {
	return newError(ErrCodeSeedCodeExhausted, "Could not generate an unused seed code",
		fmt.Sprintf("attempts: %d", attempts), true, nil)
}

// NewInvalidQueryInputError rejects malformed job variables.
func NewInvalidQueryInputError(details string) *StandardError {
	return newError(ErrCodeInvalidQueryInput, "Invalid query input", details, false, nil)
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Failed to connect to database", err.Error(), true, err)
}

// NewElasticsearchConnectionFailedError creates a retryable connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Failed to connect to Elasticsearch", err.Error(), true, err)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeSourceUnavailable:             "SOURCE_UNAVAILABLE",
	ErrCodeSourceInvalid:                 "SOURCE_INVALID",
	ErrCodeSeedStoreUnavailable:          "SEED_STORE_UNAVAILABLE",
	ErrCodeSeedNotFound:                  "SEED_NOT_FOUND",
	ErrCodeEmptySeedTags:                 "EMPTY_SEED_TAGS",
	ErrCodeEmptySeedCode:                 "EMPTY_SEED_CODE",
	ErrCodeSeedCodeExhausted:             "SEED_CODE_EXHAUSTED",
	ErrCodeInvalidQueryInput:             "INVALID_QUERY_INPUT",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeInternal:                      "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSourceUnavailable,
		ErrCodeSeedStoreUnavailable,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeElasticsearchConnectionFailed:
		return 3

	case ErrCodeSeedCodeExhausted:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "SOURCE"):
		return "SOURCE"
	case strings.HasPrefix(codeStr, "SEED_STORE"):
		return "STORAGE"
	case strings.Contains(codeStr, "SEED"):
		return "SEED"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "ELASTICSEARCH"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
