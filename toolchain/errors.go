// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package toolchain

import "fmt"

// ErrorKind categorizes toolchain errors.
type ErrorKind uint8

const (
	// ErrToolNotFound indicates the tool executable could not be located.
	ErrToolNotFound ErrorKind = iota

	// ErrToolFailed indicates the tool could not be started or was killed.
	ErrToolFailed

	// ErrBadCommand indicates a tool command line that could not be parsed.
	ErrBadCommand
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrToolNotFound:
		return "ToolNotFound"
	case ErrToolFailed:
		return "ToolFailed"
	case ErrBadCommand:
		return "BadCommand"
	default:
		return "Unknown"
	}
}

// Error represents a failure to run an external tool.
type Error struct {
	Kind ErrorKind
	Tool string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("toolchain %s: %s: %v", e.Kind, e.Tool, e.Err)
	}
	return fmt.Sprintf("toolchain %s: %s", e.Kind, e.Tool)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a toolchain error.
func NewError(kind ErrorKind, tool string, err error) *Error {
	return &Error{Kind: kind, Tool: tool, Err: err}
}

// IsToolNotFound returns true if the error is ErrToolNotFound.
func (e *Error) IsToolNotFound() bool {
	return e.Kind == ErrToolNotFound
}
