// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslang

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/sksc/diag"
	"github.com/gogpu/sksc/internal/logging"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/spirv"
	"github.com/gogpu/sksc/toolchain"
)

// entryNotFound is the link message glslang emits when the requested
// entry point is absent from the source.
const entryNotFound = "Entry point not found"

// Options configures HLSL to SPIR-V compilation.
type Options struct {
	// IncludeFolders are searched after the source file's folder.
	IncludeFolders []string

	// Defines are "NAME" or "NAME=VALUE" macros added before the source.
	Defines []string

	// RowMajor packs matrices row-major.
	RowMajor bool

	// Debug emits debug information.
	Debug bool

	// Optimize is the optimization level, 0 to 3. The spirv-opt performance
	// passes run at every level.
	Optimize int
}

// Compiler compiles HLSL to SPIR-V with glslangValidator and spirv-opt.
type Compiler struct {
	Runner toolchain.Runner

	// GLSLang and SPIRVOpt are the tool command lines.
	GLSLang  string
	SPIRVOpt string

	Options
}

// New returns a Compiler using the default tool names.
func New(runner toolchain.Runner, opts Options) *Compiler {
	return &Compiler{
		Runner:   runner,
		GLSLang:  toolchain.DefaultGLSLang,
		SPIRVOpt: toolchain.DefaultSPIRVOpt,
		Options:  opts,
	}
}

// Compile compiles source for one stage. file names the source for include
// lookup. A missing entry point returns toolchain.Skip and logs nothing.
// Compile errors are logged and return toolchain.Fail; the error return is
// reserved for problems running the tools.
func (c *Compiler) Compile(ctx context.Context, file, source string, stage meta.Stage, entry string, log *diag.Log) ([]byte, toolchain.Result, error) {
	stageName, err := stageFlag(stage)
	if err != nil {
		return nil, toolchain.Fail, err
	}

	inc := Includes{Folders: c.IncludeFolders}
	text, ok := inc.Expand(source, file, log)
	if !ok {
		return nil, toolchain.Fail, nil
	}
	text = c.preamble() + text

	work, err := toolchain.NewWorkDir("sksc-glslang-*")
	if err != nil {
		return nil, toolchain.Fail, fmt.Errorf("glslang: %w", err)
	}
	defer work.Remove()

	spv := work.Path(stageName + ".spv")
	args := []string{
		"-D", "-V", "--stdin",
		"-S", stageName,
		"-e", entry,
		"--source-entrypoint", entry,
		"--target-env", "vulkan1.0",
		"-fhlsl_functionality1",
		"-o", spv,
	}
	if c.Debug {
		args = append(args, "-g")
	}

	logging.Logger().Debug("glslang: compiling", "file", file, "stage", stage, "entry", entry)
	out, err := c.Runner.Run(ctx, toolchain.Command{Tool: c.GLSLang, Args: args, Stdin: []byte(text)})
	if err != nil {
		return nil, toolchain.Fail, err
	}

	msgs := stripUnitNames(out.Combined())
	if strings.Contains(msgs, entryNotFound) {
		logging.Logger().Debug("glslang: entry point not found", "stage", stage, "entry", entry)
		return nil, toolchain.Skip, nil
	}
	before := log.Count(diag.LevelError)
	translateIncludes(msgs, &inc, log)

	if out.ExitCode != 0 {
		if log.Count(diag.LevelError) == before {
			log.Error("%s exited with code %d", c.GLSLang, out.ExitCode)
		}
		return nil, toolchain.Fail, nil
	}

	opt := work.Path(stageName + ".opt.spv")
	if res, err := c.optimize(ctx, spv, opt, log); res != toolchain.Success {
		return nil, res, err
	}
	spv = opt

	code, err := os.ReadFile(spv)
	if err != nil {
		log.Error("%s produced no output", c.GLSLang)
		return nil, toolchain.Fail, nil
	}
	if _, err := spirv.Parse(code); err != nil {
		log.Error("invalid SPIR-V output: %v", err)
		return nil, toolchain.Fail, nil
	}
	return code, toolchain.Success, nil
}

func (c *Compiler) optimize(ctx context.Context, in, out string, log *diag.Log) (toolchain.Result, error) {
	res, err := c.Runner.Run(ctx, toolchain.Command{Tool: c.SPIRVOpt, Args: []string{"-O", in, "-o", out}})
	if err != nil {
		return toolchain.Fail, err
	}
	if res.ExitCode == 0 {
		return toolchain.Success, nil
	}
	text := strings.TrimSpace(res.Combined())
	if text == "" {
		text = "exit code " + strconv.Itoa(res.ExitCode)
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			log.Error("SPIRV optimization error: %s", line)
		}
	}
	return toolchain.Fail, nil
}

func (c *Compiler) preamble() string {
	if len(c.Defines) == 0 && !c.RowMajor {
		return ""
	}
	var sb strings.Builder
	for _, d := range c.Defines {
		name, value, _ := strings.Cut(d, "=")
		sb.WriteString("#define " + strings.TrimSpace(name))
		if value != "" {
			sb.WriteString(" " + value)
		}
		sb.WriteByte('\n')
	}
	if c.RowMajor {
		sb.WriteString("#pragma pack_matrix(row_major)\n")
	}
	sb.WriteString("#line 1 0\n")
	return sb.String()
}

// translateIncludes logs glslang output, naming the include file for
// messages that originate in one. glslang reports the file index where a
// column would be.
func translateIncludes(text string, inc *Includes, log *diag.Log) {
	var local diag.Log
	Translate(text, &local)
	for _, it := range local.Items() {
		if f := inc.File(it.Column); f != "" {
			it.Text = f + ": " + it.Text
		}
		log.AddAt(it.Level, it.Line, it.Column, "%s", it.Text)
	}
}

// stripUnitNames drops the compilation unit names glslangValidator echoes
// before each unit's messages.
func stripUnitNames(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) == "stdin" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func stageFlag(stage meta.Stage) (string, error) {
	switch stage {
	case meta.StageVertex:
		return "vert", nil
	case meta.StagePixel:
		return "frag", nil
	case meta.StageCompute:
		return "comp", nil
	}
	return "", fmt.Errorf("glslang: unsupported stage %v", stage)
}
