// Package errors provides custom error types for the dirmerge system.
// These errors enable programmatic error checking and keep the engine's
// error taxonomy explicit: malformed input, invalid contact fields, blocked
// collaborators, and ambiguous merges are all distinct conditions.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the dirmerge system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord indicates a raw record missing a required field
	ErrMalformedRecord = errors.New("malformed record")

	// ErrAmbiguousMatch indicates a record strong-matched two different
	// canonical records and was held out of automatic merging
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// ErrSourceBlocked indicates a collaborator is suspended awaiting an
	// external signal (challenge gate, manual login) and has no batch yet
	ErrSourceBlocked = errors.New("source blocked awaiting external signal")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrReadOnly indicates an attempt to modify a read-only resource
	ErrReadOnly = errors.New("read only")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// MalformedRecordError represents a raw record that cannot enter the engine
// because a required field is missing. The record is rejected and counted,
// never inserted or merged.
type MalformedRecordError struct {
	Source  string
	Missing string
	Row     int
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed record from %s (row %d): missing %s", e.Source, e.Row, e.Missing)
	}
	return fmt.Sprintf("malformed record from %s: missing %s", e.Source, e.Missing)
}

// Is implements errors.Is support
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// NewMalformedRecordError creates a new MalformedRecordError
func NewMalformedRecordError(source, missing string, row int) *MalformedRecordError {
	return &MalformedRecordError{Source: source, Missing: missing, Row: row}
}

// AmbiguousMatchError represents a conflict where one incoming record
// strong-matches two different canonical records through different index
// planes. It requires operator review; the engine never guesses.
type AmbiguousMatchError struct {
	CompanyName string
	FirstMatch  string
	SecondMatch string
	FirstPlane  string
	SecondPlane string
}

// Error implements the error interface
func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match for %q: %s plane hit %q, %s plane hit %q",
		e.CompanyName, e.FirstPlane, e.FirstMatch, e.SecondPlane, e.SecondMatch)
}

// Is implements errors.Is support
func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch
}

// BlockedError represents a collaborator suspended at a human-in-the-loop
// gate. ResumeToken lets the operator resume the same fetch later.
type BlockedError struct {
	Source      string
	Reason      string
	ResumeToken string
}

// Error implements the error interface
func (e *BlockedError) Error() string {
	return fmt.Sprintf("source %s blocked: %s", e.Source, e.Reason)
}

// Is implements errors.Is support
func (e *BlockedError) Is(target error) bool {
	return target == ErrSourceBlocked
}

// ParseError represents an error parsing a raw batch file
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// IOError represents a file system operation error
type IOError struct {
	Operation string // "read", "write", "create", etc.
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// WrapIO wraps a file system error with context
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed checks if an error rejects a malformed record
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsAmbiguous checks if an error is an ambiguous-match conflict
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousMatch)
}

// IsBlocked checks if an error is a blocked-source suspension
func IsBlocked(err error) bool {
	return errors.Is(err, ErrSourceBlocked)
}

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As
