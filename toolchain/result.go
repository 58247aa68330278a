// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package toolchain

// Result is the outcome of compiling one shader stage.
type Result int8

const (
	// Fail means the stage did not compile. Details are in the log.
	Fail Result = iota

	// Success means bytecode was produced.
	Success

	// Skip means the source has no entry point for the stage.
	Skip
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Skip:
		return "skip"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}
