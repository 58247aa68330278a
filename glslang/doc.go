// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glslang compiles annotated HLSL to SPIR-V by driving
// glslangValidator and spirv-opt.
//
// Includes are inlined before compilation, and the tool's log text is
// translated into structured diagnostics with source positions. A stage
// whose entry point does not exist in the source is skipped rather than
// failed, so one file may define any subset of the vertex, pixel and
// compute stages.
package glslang
