// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command skshaderc compiles annotated HLSL shaders into .sks files.
//
// Usage:
//
//	skshaderc [options] files...
//
// Examples:
//
//	skshaderc unlit.hlsl                     # Compile every target to unlit.hlsl.sks
//	skshaderc -t sg -o build 'shaders/*.hlsl' # SPIR-V and GLSL only, into build/
//	skshaderc -h -cs blur blur.hlsl          # Compute only, as a C header
//	skshaderc -w 'shaders/**.hlsl'           # Recompile on change
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/sksc"
	"github.com/gogpu/sksc/toolchain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, errUsage) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.verbose {
		sksc.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	files, patterns, err := expandInputs(opts.inputs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	c, err := sksc.New(toolchain.ExecRunner{}, opts.settings)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	b := &builder{compiler: c, opts: opts, exeTime: executableTime(), out: stdout}
	failed, err := b.buildAll(ctx, files)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.watch {
		if err := b.watch(ctx, files, patterns); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// executableTime returns the modification time of the running binary, or
// the zero time if it cannot be found.
func executableTime() time.Time {
	exe, err := os.Executable()
	if err != nil {
		return time.Time{}
	}
	info, err := os.Stat(exe)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
