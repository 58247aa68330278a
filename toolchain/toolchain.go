// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package toolchain runs the external shader tools the pipeline drives:
// glslangValidator, spirv-opt, spirv-cross and the DirectX compilers.
//
// Tools are reached through the Runner interface so the compilers can be
// exercised in tests without the binaries installed. A tool command may
// carry its own arguments ("dxc -nologo"); it is split with shell quoting
// rules before the per-call arguments are appended.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mattn/go-shellwords"
)

// Default tool commands.
const (
	DefaultGLSLang    = "glslangValidator"
	DefaultSPIRVOpt   = "spirv-opt"
	DefaultSPIRVCross = "spirv-cross"
	DefaultDXC        = "dxc"
	DefaultFXC        = "fxc"
)

// Command is one tool invocation.
type Command struct {
	// Tool is the tool command line, possibly with leading arguments.
	Tool  string
	Args  []string
	Stdin []byte
	Dir   string
}

// Output is what a tool produced. A non-zero ExitCode is not an error
// at this level; compilers report diagnostics that way.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Combined returns stdout followed by stderr.
func (o Output) Combined() string {
	return string(o.Stdout) + string(o.Stderr)
}

// Runner runs tool commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// Argv splits a tool command line and appends args.
func Argv(tool string, args ...string) ([]string, error) {
	argv, err := shellwords.Parse(tool)
	if err != nil {
		return nil, NewError(ErrBadCommand, tool, err)
	}
	if len(argv) == 0 {
		return nil, NewError(ErrBadCommand, tool, errors.New("empty command"))
	}
	return append(argv, args...), nil
}

// ExecRunner runs tools as child processes.
type ExecRunner struct {
	// Env is appended to the current environment.
	Env []string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	argv, err := Argv(cmd.Tool, cmd.Args...)
	if err != nil {
		return Output{}, err
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return Output{}, NewError(ErrToolNotFound, argv[0], err)
	}

	c := exec.CommandContext(ctx, path, argv[1:]...)
	c.Dir = cmd.Dir
	if len(r.Env) > 0 {
		c.Env = append(os.Environ(), r.Env...)
	}
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err = c.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		out.ExitCode = exitErr.ExitCode()
	default:
		return out, NewError(ErrToolFailed, filepath.Base(argv[0]), err)
	}
	return out, nil
}

// WorkDir is a scratch directory for tools that only read and write files.
type WorkDir string

// NewWorkDir creates a fresh scratch directory.
func NewWorkDir(pattern string) (WorkDir, error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}
	return WorkDir(dir), nil
}

// Path joins elements onto the work directory.
func (w WorkDir) Path(elem ...string) string {
	return filepath.Join(append([]string{string(w)}, elem...)...)
}

// Remove deletes the work directory and its contents.
func (w WorkDir) Remove() error {
	if w == "" {
		return nil
	}
	return os.RemoveAll(string(w))
}

// RunnerFunc adapts an ordinary function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (Output, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Output, error) {
	return f(ctx, cmd)
}
