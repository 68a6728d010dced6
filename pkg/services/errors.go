// Package services implements the business operations behind the HTTP
// handlers: workflow CRUD with graph validation, schedule synchronization
// and execution management.
package services

import (
	"errors"
	"fmt"
)

// Validation errors map to 400 responses at the HTTP edge.
var (
	ErrWorkflowNil           = errors.New("workflow cannot be nil")
	ErrWorkflowNameRequired  = errors.New("workflow name is required")
	ErrInvalidCronExpression = errors.New("invalid cron expression")
	ErrUnknownNodeType       = errors.New("unknown node type")
	ErrDanglingEdge          = errors.New("edge references a node that does not exist")
	ErrInvalidNodeConfig     = errors.New("invalid node configuration")
	ErrInvalidRequest        = errors.New("invalid request")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether an error should produce HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrInvalidCronExpression) ||
		errors.Is(err, ErrUnknownNodeType) ||
		errors.Is(err, ErrDanglingEdge) ||
		errors.Is(err, ErrInvalidNodeConfig) ||
		errors.Is(err, ErrInvalidRequest)
}
