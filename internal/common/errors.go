// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrCorpusNotFound indicates the training corpus file is absent.
	ErrCorpusNotFound = errors.New("training data not found, run export first")
	// ErrModelNotFound indicates no persisted model exists yet.
	ErrModelNotFound = errors.New("model not found, train first")
	// ErrCategoryMapNotFound indicates the category map artifact is absent.
	ErrCategoryMapNotFound = errors.New("category map not found, train first")
)

// InsufficientDataError indicates too few usable labeled examples to train.
type InsufficientDataError struct {
	Found    int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough training data: found %d categorized transactions, need at least %d", e.Found, e.Required)
}

// NewInsufficientDataError creates an InsufficientDataError.
func NewInsufficientDataError(found, required int) error {
	return &InsufficientDataError{Found: found, Required: required}
}

// MalformedDataError indicates an input failed schema expectations.
type MalformedDataError struct {
	Err    error
	Source string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Source, e.Err)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}

// NewMalformedDataError wraps a parse or schema failure for the named source.
func NewMalformedDataError(source string, err error) error {
	return &MalformedDataError{Source: source, Err: err}
}
