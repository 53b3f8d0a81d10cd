package domain

import "fmt"

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeUnsupportedFormat ErrorType = "unsupported_format"
	ErrorTypeConversion        ErrorType = "conversion"
	ErrorTypeCorruptDocument   ErrorType = "corrupt_document"
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeIO                ErrorType = "io"
	ErrorTypeDelivery          ErrorType = "delivery"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func UnsupportedFormatError(message string, err error) *DomainError {
	return NewError(ErrorTypeUnsupportedFormat, message, err)
}

func ConversionError(message string, err error) *DomainError {
	return NewError(ErrorTypeConversion, message, err)
}

func CorruptDocumentError(message string, err error) *DomainError {
	return NewError(ErrorTypeCorruptDocument, message, err)
}

func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

func DeliveryError(message string, err error) *DomainError {
	return NewError(ErrorTypeDelivery, message, err)
}

// ClientAttributable reports whether the error is caused by the submitted
// input rather than by a processing failure.
func (e *DomainError) ClientAttributable() bool {
	return e.Type == ErrorTypeUnsupportedFormat || e.Type == ErrorTypeValidation
}
