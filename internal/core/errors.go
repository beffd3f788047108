package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrProfileNotFound    = errors.New("user profile not found")
	ErrLookupFailed       = errors.New("role lookup failed")
	ErrQuoteNotFound      = errors.New("quote request not found")
	ErrPersistence        = errors.New("persistence failure")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
)

// FieldError is one failed field check, with a message fit for the submitter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PersistenceError wraps a store failure. Its cause is for operator logs only.
type PersistenceError struct {
	Operation  string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s on %s failed: %v", e.Operation, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) hold for every PersistenceError.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
