package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateUsername          = errors.New("username already exists")
	ErrInvalidCredentials         = errors.New("invalid username or password")
	ErrUserNotFound               = errors.New("user not found")
	ErrIdeaNotFound               = errors.New("idea not found")
	ErrCollaborationNotFound      = errors.New("collaboration not found")
	ErrForbidden                  = errors.New("you do not have permission to do that")
	ErrCannotCollaborateWithOwner = errors.New("the owner cannot be added as a collaborator")
	ErrFailedToHashPassword       = errors.New("failed to hash password")
	ErrAIServiceNotConfigured     = errors.New("AI service is not configured")
	ErrAINoValidIdeas             = errors.New("no usable ideas could be drafted from that brief")

	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage failure")
)

// ValidationError lists every problem found in a submitted form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(format string, args ...interface{}) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Messages) == 0 {
		return nil
	}
	return e
}

// StorageError wraps a failure of the relational store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
