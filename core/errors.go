package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrConflict is reported by stores enforcing a uniqueness constraint.
var ErrConflict = errors.New("record conflicts with an existing record")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports malformed input. It is never retried.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     int
}

func NewNotFoundError(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", err.Entity, err.ID)
}

// StoreError reports a failure of the record store. The store's message is kept as-is.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func (err StoreError) Error() string {
	if err.Op == "" {
		return err.Err.Error()
	}
	return err.Op + ": " + err.Err.Error()
}

func (err StoreError) Unwrap() error { return err.Err }

// PartialFailure reports a batch write in which some records failed.
// Message is the message of the first failing record.
type PartialFailure struct {
	Op        string
	Message   string
	Failed    int
	Total     int
	Succeeded []int // IDs of the records that were written
}

func (err PartialFailure) Error() string {
	return err.Message
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

func IsStore(err error) bool {
	var sErr *StoreError
	return errors.As(err, &sErr)
}

func IsPartialFailure(err error) bool {
	var pErr *PartialFailure
	return errors.As(err, &pErr)
}
