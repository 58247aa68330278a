// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// ErrorKind categorizes native compilation errors.
type ErrorKind uint8

const (
	// ErrInvalidShaderModel indicates an invalid or unsupported shader model.
	ErrInvalidShaderModel ErrorKind = iota

	// ErrUnsupportedStage indicates a stage with no native profile.
	ErrUnsupportedStage

	// ErrNoOutput indicates the compiler succeeded without writing bytecode.
	ErrNoOutput
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidShaderModel:
		return "InvalidShaderModel"
	case ErrUnsupportedStage:
		return "UnsupportedStage"
	case ErrNoOutput:
		return "NoOutput"
	default:
		return "Unknown"
	}
}

// Error represents a native compilation error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("hlsl %s: %s", e.Kind, e.Message)
}

// NewError creates a new HLSL error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}
