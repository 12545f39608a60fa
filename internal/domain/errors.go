package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrDuplicateImage     = errors.New("image already exists")
	ErrImageNotFound      = errors.New("image not found")
	ErrCategoryExists     = errors.New("category already exists")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidFormat      = errors.New("invalid or unsupported image format")
	ErrFileTooLarge       = errors.New("file size exceeds maximum allowed")
	ErrUpstream           = errors.New("upstream failure")
)

type FieldIssue struct {
	Field string `json:"field,omitempty"`
	Msg   string `json:"msg"`
}

// ValidationError carries every failed field check of a request.
type ValidationError struct {
	Issues []FieldIssue
}

func NewValidationError(issues ...FieldIssue) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UpstreamError wraps a failure of the blob host or the catalog store.
type UpstreamError struct {
	Op  string
	Err error
}

func Upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
