package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	// ErrorTypeAdapterUnimplemented marks a capability missing on an adapter
	// variant. Fatal for that adapter's contribution only.
	ErrorTypeAdapterUnimplemented ErrorType = "adapter_unimplemented"

	// ErrorTypeMissingCredential marks a token a targeted service requires
	// that the credential provider could not supply. The request is never
	// sent; the failure is reported per service.
	ErrorTypeMissingCredential ErrorType = "missing_credential"

	// ErrorTypeTransport covers network failures, timeouts, and non-success
	// status codes.
	ErrorTypeTransport ErrorType = "transport"

	// ErrorTypeMalformedResponse marks a transform that could not parse the
	// expected shape out of a successful response.
	ErrorTypeMalformedResponse ErrorType = "malformed_response"

	// ErrorTypeInvalidOwnership marks an album handed to an adapter that did
	// not produce it. Programmer error; fails loudly.
	ErrorTypeInvalidOwnership ErrorType = "invalid_ownership"

	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeInternal   ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	ErrAdapterUnimplemented = NewDomainError(ErrorTypeAdapterUnimplemented, "adapter does not implement this capability", nil)
	ErrMissingCredential    = NewDomainError(ErrorTypeMissingCredential, "required credential not available", nil)
	ErrTransport            = NewDomainError(ErrorTypeTransport, "request failed", nil)
	ErrRequestTimeout       = NewDomainError(ErrorTypeTransport, "request timed out", nil)
	ErrMalformedResponse    = NewDomainError(ErrorTypeMalformedResponse, "response did not match the expected shape", nil)
	ErrInvalidOwnership     = NewDomainError(ErrorTypeInvalidOwnership, "album was not produced by this adapter", nil)

	ErrServiceNotFound = NewDomainError(ErrorTypeNotFound, "service not registered", nil)
	ErrAlbumNotFound   = NewDomainError(ErrorTypeNotFound, "album not found", nil)
	ErrInvalidInput    = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInternal        = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// NewTransportError wraps a network or status failure for one service request.
func NewTransportError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeTransport, message, err)
}

// NewTimeoutError builds the timeout flavor of a transport error.
func NewTimeoutError(message string, err error) *DomainError {
	e := NewDomainError(ErrorTypeTransport, message, err)
	e.Details["timeout"] = true
	return e
}

// NewMalformedResponseError wraps a parse failure from a response transform.
func NewMalformedResponseError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeMalformedResponse, message, err)
}

// Error type checking helper functions

func isType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// IsAdapterUnimplementedError checks if an error is an adapter capability error
func IsAdapterUnimplementedError(err error) bool {
	return isType(err, ErrorTypeAdapterUnimplemented)
}

// IsMissingCredentialError checks if an error is a missing credential error
func IsMissingCredentialError(err error) bool {
	return isType(err, ErrorTypeMissingCredential)
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	return isType(err, ErrorTypeTransport)
}

// IsTimeoutError checks if an error is the timeout flavor of a transport error
func IsTimeoutError(err error) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	if domainErr.Type != ErrorTypeTransport {
		return false
	}
	timeout, ok := domainErr.Details["timeout"].(bool)
	return ok && timeout
}

// IsMalformedResponseError checks if an error is a malformed response error
func IsMalformedResponseError(err error) bool {
	return isType(err, ErrorTypeMalformedResponse)
}

// IsInvalidOwnershipError checks if an error is an invalid ownership error
func IsInvalidOwnershipError(err error) bool {
	return isType(err, ErrorTypeInvalidOwnership)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return isType(err, ErrorTypeInternal)
}

// GetErrorType extracts the type from a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails extracts details from a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}
