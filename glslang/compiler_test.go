// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslang

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/sksc/diag"
	"github.com/gogpu/sksc/internal/spvtest"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/spirv"
	"github.com/gogpu/sksc/toolchain"
)

// fakeTools stands in for glslangValidator and spirv-opt.
type fakeTools struct {
	glslangOut  string
	glslangExit int
	optExit     int
	optOut      string
	code        []byte

	calls []toolchain.Command
}

func (f *fakeTools) Run(_ context.Context, cmd toolchain.Command) (toolchain.Output, error) {
	f.calls = append(f.calls, cmd)
	switch cmd.Tool {
	case toolchain.DefaultGLSLang:
		if f.glslangExit == 0 {
			if err := os.WriteFile(argAfter(cmd.Args, "-o"), f.code, 0o644); err != nil {
				return toolchain.Output{}, err
			}
		}
		return toolchain.Output{Stdout: []byte(f.glslangOut), ExitCode: f.glslangExit}, nil
	case toolchain.DefaultSPIRVOpt:
		if f.optExit == 0 {
			data, err := os.ReadFile(cmd.Args[1])
			if err != nil {
				return toolchain.Output{}, err
			}
			if err := os.WriteFile(argAfter(cmd.Args, "-o"), data, 0o644); err != nil {
				return toolchain.Output{}, err
			}
		}
		return toolchain.Output{Stderr: []byte(f.optOut), ExitCode: f.optExit}, nil
	}
	return toolchain.Output{}, toolchain.NewError(toolchain.ErrToolNotFound, cmd.Tool, errors.New("unknown tool"))
}

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func pixelModule() []byte {
	return spvtest.Build(spvtest.Shader{Model: spirv.ExecutionModelFragment, Entry: "ps"})
}

func TestCompileSuccess(t *testing.T) {
	tools := &fakeTools{glslangOut: "stdin\n", code: pixelModule()}
	c := New(tools, Options{Defines: []string{"FOO=1", "BAR"}, RowMajor: true, Optimize: 3})

	var log diag.Log
	code, res, err := c.Compile(context.Background(), "shader.hlsl", "float4 ps() : SV_Target { return 1; }", meta.StagePixel, "ps", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Success, res)
	assert.Equal(t, pixelModule(), code)
	assert.Zero(t, log.Len())

	require.Len(t, tools.calls, 2)
	args := tools.calls[0].Args
	assert.Equal(t, "frag", argAfter(args, "-S"))
	assert.Equal(t, "ps", argAfter(args, "-e"))
	assert.Equal(t, "vulkan1.0", argAfter(args, "--target-env"))
	assert.Contains(t, args, "-D")
	assert.NotContains(t, args, "-g")

	stdin := string(tools.calls[0].Stdin)
	assert.True(t, strings.HasPrefix(stdin, "#define FOO 1\n#define BAR\n#pragma pack_matrix(row_major)\n#line 1 0\n"), stdin)
	assert.Contains(t, stdin, "SV_Target")

	assert.Equal(t, "-O", tools.calls[1].Args[0])
}

func TestCompileOptimizesAtLevelZero(t *testing.T) {
	tools := &fakeTools{code: pixelModule()}
	c := New(tools, Options{Debug: true, Optimize: 0})

	var log diag.Log
	code, res, err := c.Compile(context.Background(), "shader.hlsl", "", meta.StageVertex, "vs", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Success, res)
	assert.Equal(t, pixelModule(), code)
	require.Len(t, tools.calls, 2)
	assert.Contains(t, tools.calls[0].Args, "-g")
	assert.Equal(t, "vert", argAfter(tools.calls[0].Args, "-S"))
	assert.Empty(t, tools.calls[0].Stdin)
	assert.Equal(t, toolchain.DefaultSPIRVOpt, tools.calls[1].Tool)
	assert.Equal(t, "-O", tools.calls[1].Args[0])
}

func TestCompileSkipsMissingEntry(t *testing.T) {
	tools := &fakeTools{
		glslangOut:  "stdin\nERROR: Linking vertex stage: Entry point not found\n",
		glslangExit: 1,
	}
	c := New(tools, Options{})

	var log diag.Log
	code, res, err := c.Compile(context.Background(), "pixel_only.hlsl", "", meta.StageVertex, "vs", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Skip, res)
	assert.Nil(t, code)
	assert.Zero(t, log.Count(diag.LevelError))
}

func TestCompileFailure(t *testing.T) {
	tools := &fakeTools{
		glslangOut:  "stdin\nERROR: 0:3: 'foo' : undeclared identifier\nERROR: 1 compilation errors.  No code generated.\n",
		glslangExit: 2,
	}
	c := New(tools, Options{Optimize: 3})

	var log diag.Log
	_, res, err := c.Compile(context.Background(), "shader.hlsl", "", meta.StagePixel, "ps", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Fail, res)

	items := log.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Line)
	assert.Equal(t, "'foo' : undeclared identifier", items[0].Text)
	assert.False(t, items[1].HasPosition())
	assert.Len(t, tools.calls, 1)
}

func TestCompileFailureWithoutMessages(t *testing.T) {
	tools := &fakeTools{glslangExit: 3}
	c := New(tools, Options{})

	var log diag.Log
	_, res, err := c.Compile(context.Background(), "shader.hlsl", "", meta.StagePixel, "ps", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Fail, res)
	require.Equal(t, 1, log.Count(diag.LevelError))
	assert.Contains(t, log.Items()[0].Text, "exited with code 3")
}

func TestCompileOptimizerFailure(t *testing.T) {
	tools := &fakeTools{code: pixelModule(), optExit: 1, optOut: "error: line 0: bad id\n"}
	c := New(tools, Options{Optimize: 1})

	var log diag.Log
	_, res, err := c.Compile(context.Background(), "shader.hlsl", "", meta.StagePixel, "ps", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Fail, res)
	require.Equal(t, 1, log.Len())
	assert.Equal(t, "SPIRV optimization error: error: line 0: bad id", log.Items()[0].Text)
}

func TestCompileInvalidOutput(t *testing.T) {
	tools := &fakeTools{code: []byte{1, 2, 3}}
	c := New(tools, Options{})

	var log diag.Log
	_, res, err := c.Compile(context.Background(), "shader.hlsl", "", meta.StagePixel, "ps", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Fail, res)
	assert.True(t, log.HasErrors())
}

func TestCompileToolMissing(t *testing.T) {
	c := New(toolchain.RunnerFunc(func(context.Context, toolchain.Command) (toolchain.Output, error) {
		return toolchain.Output{}, toolchain.NewError(toolchain.ErrToolNotFound, "glslangValidator", os.ErrNotExist)
	}), Options{})

	var log diag.Log
	_, res, err := c.Compile(context.Background(), "shader.hlsl", "", meta.StagePixel, "ps", &log)
	assert.Equal(t, toolchain.Fail, res)
	var terr *toolchain.Error
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.IsToolNotFound())
}

func TestCompileBadStage(t *testing.T) {
	c := New(&fakeTools{}, Options{})
	_, res, err := c.Compile(context.Background(), "shader.hlsl", "", meta.StageVertex|meta.StagePixel, "main", diag.New())
	assert.Error(t, err)
	assert.Equal(t, toolchain.Fail, res)
}

func TestCompileIncludeDiagnostics(t *testing.T) {
	dir := t.TempDir()
	inc := filepath.Join(dir, "common.hlsli")
	require.NoError(t, os.WriteFile(inc, []byte("float a;\nfloat b = c;\n"), 0o644))

	tools := &fakeTools{
		glslangOut:  "ERROR: 1:2: 'c' : undeclared identifier\n",
		glslangExit: 2,
	}
	c := New(tools, Options{})

	var log diag.Log
	src := "#include \"common.hlsli\"\nfloat4 ps() : SV_Target { return a; }\n"
	_, res, err := c.Compile(context.Background(), filepath.Join(dir, "shader.hlsl"), src, meta.StagePixel, "ps", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Fail, res)

	items := log.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Line)
	assert.Equal(t, inc+": 'c' : undeclared identifier", items[0].Text)
}

func TestCompileUnresolvedInclude(t *testing.T) {
	tools := &fakeTools{}
	c := New(tools, Options{})

	var log diag.Log
	src := "\n#include <missing.hlsli>\n"
	_, res, err := c.Compile(context.Background(), filepath.Join(t.TempDir(), "shader.hlsl"), src, meta.StagePixel, "ps", &log)
	require.NoError(t, err)
	assert.Equal(t, toolchain.Fail, res)
	assert.Empty(t, tools.calls)

	items := log.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Line)
	assert.Equal(t, "Can't find include file 'missing.hlsli'", items[0].Text)
}
