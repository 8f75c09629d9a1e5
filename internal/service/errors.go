package service

import (
	"fmt"
	"strings"

	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/validator"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when an operation targets a missing product or transaction.
var ErrNotFound = repository.ErrNotFound

// ValidationError rejects bad input before anything is written.
type ValidationError struct {
	Field     string `json:"field,omitempty"`
	ProductID uint   `json:"productId,omitempty"`
	Message   string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError wraps an underlying read/write failure of the record store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr classifies err: validation and not-found errors pass through,
// anything else is a StoreError for op.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	var serr *StoreError
	if errors.As(err, &verr) || errors.As(err, &serr) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// validationError converts validator output into a ValidationError naming
// the first failing field.
func validationError(errs []*validator.ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	msg := fmt.Sprintf("failed on '%s'", first.Tag)
	switch first.Tag {
	case "required":
		msg = "is required"
	case "gte":
		msg = fmt.Sprintf("must be at least %s", first.Value)
	}
	return &ValidationError{Field: lowerFirst(first.Field), Message: msg}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
