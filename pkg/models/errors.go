package models

import (
	"errors"
	"fmt"
)

var (
	// ErrFileAccess is matched by every error raised for a missing or unreadable input file
	ErrFileAccess = errors.New("file access error")
	// ErrFormat is matched by every error raised for a malformed input row
	ErrFormat = errors.New("format error")
	// ErrDegenerateInput marks a pair universe without positives or without negatives
	ErrDegenerateInput = errors.New("degenerate input")
)

// FileAccessError reports an input file that could not be opened or read
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

func (e *FileAccessError) Is(target error) bool { return target == ErrFileAccess }

// FormatError reports a malformed row of an edge file
type FormatError struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// DegenerateInputError reports a pair universe for which an area is undefined
type DegenerateInputError struct {
	Positives int
	Negatives int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate pair universe: %d positives, %d negatives", e.Positives, e.Negatives)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// ValidationError represents structured validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (ve ValidationError) Error() string {
	if ve.Value != "" {
		return fmt.Sprintf("validation error in field '%s': %s (value: %s)", ve.Field, ve.Message, ve.Value)
	}
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors: %s (and %d more)", len(ve), ve[0].Error(), len(ve)-1)
}
