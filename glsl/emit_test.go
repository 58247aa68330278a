// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"bytes"
	"context"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/sksc/annotate"
	"github.com/gogpu/sksc/diag"
	"github.com/gogpu/sksc/internal/spvtest"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/spirv"
	"github.com/gogpu/sksc/toolchain"
)

const pixelGLSL = `#version 320 es
precision mediump float;
precision highp int;

layout(binding = 1) uniform highp sampler2D SPIRV_Cross_CombineddiffuseSPIRV_Cross_DummySampler;
layout(binding = 2) uniform highp sampler2D SPIRV_Cross_Combinedmaskmask_s;

layout(location = 0) in highp vec2 fs_uv;
layout(location = 0) out highp vec4 _entryPointOutput;

void main()
{
    _entryPointOutput = texture(SPIRV_Cross_CombineddiffuseSPIRV_Cross_DummySampler, fs_uv) * texture(SPIRV_Cross_Combinedmaskmask_s, fs_uv);
}
`

const vertexGLSL = `#version 430

layout(binding = 0, std140) uniform _Global
{
    vec4 tint;
} _24;

layout(location = 0) out vec2 fs_uv;

void main()
{
    fs_uv = _24.tint.xy;
}
`

// fakeCross stands in for spirv-cross. It records the module it was given
// and writes a canned result.
type fakeCross struct {
	glsl   string
	stderr string
	exit   int

	args   []string
	module *spirv.Module
}

func (f *fakeCross) Run(_ context.Context, cmd toolchain.Command) (toolchain.Output, error) {
	f.args = cmd.Args
	data, err := os.ReadFile(cmd.Args[0])
	if err != nil {
		return toolchain.Output{}, err
	}
	if f.module, err = spirv.Parse(data); err != nil {
		return toolchain.Output{}, err
	}
	if f.exit == 0 {
		i := slices.Index(cmd.Args, "--output")
		if err := os.WriteFile(cmd.Args[i+1], []byte(f.glsl), 0o644); err != nil {
			return toolchain.Output{}, err
		}
	}
	return toolchain.Output{Stderr: []byte(f.stderr), ExitCode: f.exit}, nil
}

func pixelStage() meta.StageBlob {
	code := spvtest.Build(spvtest.Shader{
		Model: spirv.ExecutionModelFragment,
		Images: []spvtest.Image{
			{Name: "diffuse", Binding: 1},
			{Name: "mask", Binding: 2},
		},
		Samplers: []spvtest.Sampler{{Name: "mask_s", Binding: 2}},
		Inputs:   []spvtest.IO{{Name: "input.uv", Location: 0, Components: 2}},
		Outputs:  []spvtest.IO{{Name: "@entryPointOutput", Location: 0}},
	})
	return meta.StageBlob{Language: meta.LangSPIRV, Stage: meta.StagePixel, Code: code}
}

func vertexStage() meta.StageBlob {
	code := spvtest.Build(spvtest.Shader{
		Model: spirv.ExecutionModelVertex,
		Buffers: []spvtest.Buffer{{
			TypeName: "_Global",
			Binding:  0,
			Members:  []spvtest.Member{{Name: "tint", Type: spvtest.Float4}},
		}},
		Inputs: []spvtest.IO{{Name: "input.pos", Location: 0, Semantic: "POSITION0", Components: 3}},
		Outputs: []spvtest.IO{
			{Name: "@entryPointOutput.uv", Location: 0, Components: 2},
			{Name: "@entryPointOutput.pos", BuiltIn: true},
		},
	})
	return meta.StageBlob{Language: meta.LangSPIRV, Stage: meta.StageVertex, Code: code}
}

func emitPixel(t *testing.T, lang meta.Language, tags string) (string, *fakeCross) {
	t.Helper()
	cross := &fakeCross{glsl: pixelGLSL}
	e := New(cross, Options{})
	items := []annotate.Item{{Name: "diffuse", Tag: tags}}

	var log diag.Log
	blob, ok, err := e.Emit(context.Background(), pixelStage(), lang, meta.New(), items, &log)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, log.Len())
	assert.Equal(t, lang, blob.Language)
	assert.Equal(t, meta.StagePixel, blob.Stage)
	require.Equal(t, byte(0), blob.Code[len(blob.Code)-1])
	return string(bytes.TrimSuffix(blob.Code, []byte{0})), cross
}

func TestEmitExternalTextureES(t *testing.T) {
	src, cross := emitPixel(t, meta.LangGLSLES, "2D, external")

	lines := strings.Split(src, "\n")
	assert.Equal(t, "#version 320 es", lines[0])
	assert.Equal(t, extGPUShader5, lines[1])
	assert.Equal(t, extExternalESSL3, lines[2])
	assert.NotContains(t, src, layerDefine)

	assert.Contains(t, src, "layout(binding = 1) uniform highp samplerExternalOES diffuse;")
	assert.Contains(t, src, "layout(binding = 2) uniform highp sampler2D mask;")
	assert.Contains(t, src, "texture(diffuse, fs_uv) * texture(mask, fs_uv)")
	assert.NotContains(t, src, combinedPrefix)

	assert.Equal(t, "320", cross.args[slices.Index(cross.args, "--version")+1])
	assert.Contains(t, cross.args, "--es")
	assert.Contains(t, cross.args, "--no-support-nonzero-baseinstance")
	assert.Contains(t, cross.args, "--combined-samplers-inherit-bindings")
	assert.Contains(t, cross.args, "--build-dummy-sampler")
}

func TestEmitNoExternalTag(t *testing.T) {
	src, _ := emitPixel(t, meta.LangGLSLES, "2D")
	assert.NotContains(t, src, externalSampler)
	assert.NotContains(t, src, extExternalESSL3)
	assert.Contains(t, src, "uniform highp sampler2D diffuse;")
}

func TestEmitExternalTagTokenMatch(t *testing.T) {
	src, _ := emitPixel(t, meta.LangGLSLES, "externals")
	assert.NotContains(t, src, externalSampler)
}

func TestEmitExternalWeb(t *testing.T) {
	src, cross := emitPixel(t, meta.LangGLSLWeb, "external")
	assert.Contains(t, src, "samplerExternalOES diffuse;")
	assert.NotContains(t, src, extExternalESSL3)
	assert.Equal(t, "300", cross.args[slices.Index(cross.args, "--version")+1])
	assert.Contains(t, cross.args, "--build-dummy-sampler")
}

func TestEmitPixelInputsRenamed(t *testing.T) {
	_, cross := emitPixel(t, meta.LangGLSL, "")
	res := cross.module.Resources()
	require.Len(t, res.StageInputs, 1)
	assert.Equal(t, "fs_uv", res.StageInputs[0].Name)
	require.Len(t, res.StageOutputs, 1)
	assert.Equal(t, "@entryPointOutput", res.StageOutputs[0].Name)
}

func TestEmitVertex(t *testing.T) {
	cross := &fakeCross{glsl: vertexGLSL}
	e := New(cross, Options{Version: Version450})

	m := meta.New()
	m.Buffers = append(m.Buffers, meta.Buffer{Name: "$Global", Bind: meta.Bind{Slot: 5}})

	var log diag.Log
	blob, ok, err := e.Emit(context.Background(), vertexStage(), meta.LangGLSL, m, nil, &log)
	require.NoError(t, err)
	require.True(t, ok)
	src := string(blob.Code[:len(blob.Code)-1])

	lines := strings.Split(src, "\n")
	assert.Equal(t, []string{"#version 430", extGPUShader5, layerDefine}, lines[:3])

	assert.Equal(t, "450", cross.args[slices.Index(cross.args, "--version")+1])
	assert.Contains(t, cross.args, "--no-es")
	assert.NotContains(t, cross.args, "--no-support-nonzero-baseinstance")
	assert.Contains(t, cross.args, "--build-dummy-sampler")

	res := cross.module.Resources()
	require.Len(t, res.UniformBuffers, 1)
	assert.Equal(t, uint32(5), res.UniformBuffers[0].Binding)
	require.Len(t, res.StageOutputs, 1)
	assert.Equal(t, "fs_uv", res.StageOutputs[0].Name)
	require.Len(t, res.StageInputs, 1)
	assert.Equal(t, "input.pos", res.StageInputs[0].Name)
}

func TestEmitCrossError(t *testing.T) {
	cross := &fakeCross{exit: 1, stderr: "SPIRV-Cross threw an exception: Unsupported feature\n"}
	e := New(cross, Options{})

	var log diag.Log
	blob, ok, err := e.Emit(context.Background(), pixelStage(), meta.LangGLSLES, meta.New(), nil, &log)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, blob.Code)

	items := log.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.LevelError, items[0].Level)
	assert.Equal(t, "[SPIRV-Cross] Unsupported feature", items[0].Text)
}

func TestEmitInvalidSPIRV(t *testing.T) {
	cross := &fakeCross{}
	e := New(cross, Options{})

	var log diag.Log
	stage := meta.StageBlob{Language: meta.LangSPIRV, Stage: meta.StagePixel, Code: []byte{0, 1}}
	_, ok, err := e.Emit(context.Background(), stage, meta.LangGLSL, meta.New(), nil, &log)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, log.Count(diag.LevelError))
	assert.Nil(t, cross.args)
}

func TestEmitNotGLSL(t *testing.T) {
	e := New(&fakeCross{}, Options{})
	_, ok, err := e.Emit(context.Background(), pixelStage(), meta.LangHLSL, meta.New(), nil, diag.New())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestInsertHeader(t *testing.T) {
	src := "#version 310 es\n#extension GL_EXT_a : require\nvoid main() {}"
	got := insertHeader(src, []string{"#define X"})
	assert.Equal(t, "#version 310 es\n#extension GL_EXT_a : require\n#define X\nvoid main() {}", got)

	assert.Equal(t, "#define X\nvoid main() {}", insertHeader("void main() {}", []string{"#define X"}))
}

func TestResourceNameFallback(t *testing.T) {
	assert.Equal(t, "tex", resourceName(spirv.Resource{ID: 7, Name: "tex"}))
	assert.Equal(t, "_7", resourceName(spirv.Resource{ID: 7}))
}

func TestCrossArgs(t *testing.T) {
	tests := []struct {
		name string
		ver  Version
		want []string
	}{
		{"desktop", Version430, []string{"--version", "430", "--no-es"}},
		{"es", VersionES320, []string{"--version", "320", "--es", "--no-support-nonzero-baseinstance"}},
		{"web", VersionES300, []string{"--version", "300", "--es", "--no-support-nonzero-baseinstance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := crossArgs("in.spv", "out.glsl", tt.ver)
			assert.Equal(t, []string{"in.spv", "--output", "out.glsl"}, args[:3])
			assert.Equal(t, tt.want, args[3:3+len(tt.want)])
			assert.Contains(t, args, "--build-dummy-sampler")
			assert.Contains(t, args, "--combined-samplers-inherit-bindings")
		})
	}
}
