package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError is a caller mistake: a missing or malformed field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError names the entity and id that could not be found.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError means the request is well formed but clashes with current
// state, e.g. borrowing an asset that is already out.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// StorageError wraps a failure of the underlying store. It is not retried here.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// wrap passes domain errors through untouched and tags anything else as a
// storage failure of op.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		ne *NotFoundError
		ce *ConflictError
		se *StorageError
	)
	if errors.As(err, &ve) || errors.As(err, &ne) || errors.As(err, &ce) || errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// notFound maps gorm.ErrRecordNotFound onto a NotFoundError for entity/id.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
