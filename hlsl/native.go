// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/sksc/diag"
	"github.com/gogpu/sksc/internal/logging"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/toolchain"
)

// Options configures native bytecode compilation.
type Options struct {
	// ShaderModel selects the target profile. Models 6.0 and up are
	// compiled with DXC, earlier ones with FXC.
	ShaderModel ShaderModel

	// IncludeFolders are searched after the source file's folder.
	IncludeFolders []string

	// Defines are "NAME" or "NAME=VALUE" macros.
	Defines []string

	RowMajor bool
	Debug    bool

	// Optimize is the optimization level, 0 to 3.
	Optimize int

	// DXC and FXC are the compiler command lines.
	DXC string
	FXC string
}

// DefaultOptions returns options targeting Shader Model 5.0 at the
// highest optimization level.
func DefaultOptions() Options {
	return Options{
		ShaderModel: ShaderModel5_0,
		Optimize:    3,
		DXC:         toolchain.DefaultDXC,
		FXC:         toolchain.DefaultFXC,
	}
}

// Bytecode is a compiled native stage.
type Bytecode struct {
	Code []byte

	// Reflection carries the vertex inputs and instruction statistics
	// read from the assembly listing. It has no buffers or resources.
	Reflection *meta.Reflection
}

// Compiler compiles HLSL to DXBC or DXIL.
type Compiler struct {
	Runner toolchain.Runner
	Options
}

// New returns a Compiler. Empty tool names take their defaults.
func New(runner toolchain.Runner, opts Options) *Compiler {
	if opts.DXC == "" {
		opts.DXC = toolchain.DefaultDXC
	}
	if opts.FXC == "" {
		opts.FXC = toolchain.DefaultFXC
	}
	return &Compiler{Runner: runner, Options: opts}
}

// Tool returns the compiler command line for the configured model.
func (c *Compiler) Tool() string {
	if c.ShaderModel.SupportsDXIL() {
		return c.DXC
	}
	return c.FXC
}

// Compile compiles source for one stage. A missing entry point returns
// toolchain.Skip. Compiler output is logged verbatim as raw error text.
func (c *Compiler) Compile(ctx context.Context, file, source string, stage meta.Stage, entry string, log *diag.Log) (Bytecode, toolchain.Result, error) {
	profile, err := c.ShaderModel.Profile(stage)
	if err != nil {
		return Bytecode{}, toolchain.Fail, err
	}

	work, err := toolchain.NewWorkDir("sksc-hlsl-*")
	if err != nil {
		return Bytecode{}, toolchain.Fail, fmt.Errorf("hlsl: %w", err)
	}
	defer work.Remove()

	name := filepath.Base(file)
	if name == "." || name == string(filepath.Separator) {
		name = "shader.hlsl"
	}
	src := work.Path(name)
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		return Bytecode{}, toolchain.Fail, fmt.Errorf("hlsl: %w", err)
	}
	obj, listing := work.Path("stage.bin"), work.Path("stage.asm")

	args := c.args(profile, entry, filepath.Dir(file))
	args = append(args, "-Fo", obj, "-Fc", listing, src)

	logging.Logger().Debug("hlsl: compiling", "file", file, "profile", profile, "entry", entry)
	out, err := c.Runner.Run(ctx, toolchain.Command{Tool: c.Tool(), Args: args})
	if err != nil {
		return Bytecode{}, toolchain.Fail, err
	}

	text := strings.TrimSpace(out.Combined())
	if out.ExitCode != 0 && missingEntry(text) {
		return Bytecode{}, toolchain.Skip, nil
	}
	if text != "" {
		log.Raw(text + "\n")
	}
	if out.ExitCode != 0 {
		return Bytecode{}, toolchain.Fail, nil
	}

	code, err := os.ReadFile(obj)
	if err != nil {
		return Bytecode{}, toolchain.Fail, NewError(ErrNoOutput, err.Error())
	}
	bc := Bytecode{Code: code}
	if asm, err := os.ReadFile(listing); err == nil {
		bc.Reflection = ParseListing(string(asm), stage)
	}
	return bc, toolchain.Success, nil
}

func (c *Compiler) args(profile, entry, dir string) []string {
	args := []string{"-nologo", "-T", profile, "-E", entry}
	if c.RowMajor {
		args = append(args, "-Zpr")
	} else {
		args = append(args, "-Zpc")
	}
	if c.Debug {
		args = append(args, "-Zi", "-Od")
	} else {
		level := min(max(c.Optimize, 0), 3)
		args = append(args, "-O"+strconv.Itoa(level))
	}
	args = append(args, "-I", dir)
	for _, inc := range c.IncludeFolders {
		args = append(args, "-I", inc)
	}
	for _, d := range c.Defines {
		args = append(args, "-D", d)
	}
	return args
}

// missingEntry recognizes the fxc (X3501) and dxc missing entry errors.
func missingEntry(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "entrypoint not found") ||
		strings.Contains(lower, "missing entry point")
}
