package services

import "errors"

// ErrAuthenticationFailed carries a constant message regardless of which
// credential check failed, so callers cannot enumerate accounts.
var ErrAuthenticationFailed = errors.New("invalid phone number or password")

type NotFoundError struct {
	Message string
}

func (err *NotFoundError) Error() string {
	return err.Message
}

func NewNotFound(message string) error {
	return &NotFoundError{Message: message}
}

type DuplicateError struct {
	Message string
}

func (err *DuplicateError) Error() string {
	return err.Message
}

func NewDuplicate(message string) error {
	return &DuplicateError{Message: message}
}

// ValidationError reports business-rule violations with a field→message map
// for the response payload.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (err *ValidationError) Error() string {
	return err.Message
}

func NewValidation(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}
