package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound indicates the configuration file was not found.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidYAML indicates YAML parsing failed.
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// ErrValidationFailed indicates configuration validation failed.
	ErrValidationFailed = errors.New("configuration validation failed")

	// ErrClassNotFound indicates a pipe names a class with no matching
	// entry in the class registry table.
	ErrClassNotFound = errors.New("class not found")

	// ErrUnknownRunnerKind indicates the runner.kind field named something
	// other than "single-threaded" or "multi-threaded".
	ErrUnknownRunnerKind = errors.New("unknown runner kind")

	// ErrMissingRequiredField indicates a required field is missing.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidValue indicates a field has an invalid value.
	ErrInvalidValue = errors.New("invalid field value")
)

// ValidationError wraps configuration validation errors with context
// about which component and field failed.
type ValidationError struct {
	Component string // "topology", "pipe", "runner", "log"
	ID        string // name of the component being validated
	Field     string // field name, if the error is field-specific
	Err       error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %q: field %q: %v", e.Component, e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Component, e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError.
func NewValidationError(component, id, field string, err error) *ValidationError {
	return &ValidationError{Component: component, ID: id, Field: field, Err: err}
}

// LoadError wraps configuration loading errors with file context.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError builds a LoadError.
func NewLoadError(file string, err error) *LoadError {
	return &LoadError{File: file, Err: err}
}
