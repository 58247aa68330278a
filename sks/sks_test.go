// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sks

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/sksc/meta"
)

func sampleFile() *File {
	m := meta.New()
	m.Name = "stereokit/unlit"
	m.Buffers = []meta.Buffer{
		{
			Name:     "$Global",
			Bind:     meta.Bind{Slot: 2, StageBits: meta.StageVertex | meta.StagePixel, Register: meta.RegisterConstant},
			Size:     16,
			Defaults: []byte{0, 0, 128, 63, 0, 0, 0, 64, 0, 0, 64, 64, 0, 0, 128, 64},
			Vars: []meta.Var{
				{Name: "color", Extra: "color", Offset: 0, Size: 16, Type: meta.VarFloat, TypeCount: 4},
			},
		},
		{
			Name: "Transforms",
			Bind: meta.Bind{Slot: 1, StageBits: meta.StageVertex, Register: meta.RegisterConstant},
			Size: 64,
			Vars: []meta.Var{{Name: "world", Size: 64, Type: meta.VarFloat, TypeCount: 16}},
		},
	}
	m.Resources = []meta.Resource{
		{Name: "diffuse", Value: "white", Tags: "external", Bind: meta.Bind{Slot: 0, StageBits: meta.StagePixel, Register: meta.RegisterResource}},
	}
	m.VertexInputs = []meta.VertexComponent{
		{Format: meta.FormatF32, Semantic: meta.SemanticPosition},
		{Format: meta.FormatF32, Semantic: meta.SemanticTexcoord, SemanticSlot: 1},
	}
	m.OpsVertex = meta.Ops{Total: 12, TexRead: 0, DynamicFlow: 1}
	m.OpsPixel = meta.Ops{Total: 7, TexRead: 2, DynamicFlow: 0}
	m.Rehash()

	return &File{
		Meta: m,
		Stages: []meta.StageBlob{
			{Language: meta.LangSPIRV, Stage: meta.StageVertex, Code: []byte{3, 2, 35, 7}},
			{Language: meta.LangGLSL, Stage: meta.StagePixel, Code: []byte("#version 430\n\x00")},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	f := sampleFile()
	data := Marshal(f)

	got, err := Read(data)
	require.NoError(t, err)

	assert.Equal(t, f.Meta.Name, got.Meta.Name)
	assert.Equal(t, 0, got.Meta.GlobalBuffer)
	assert.Equal(t, f.Meta.Buffers, got.Meta.Buffers)
	assert.Equal(t, f.Meta.Resources, got.Meta.Resources)
	assert.Equal(t, f.Meta.VertexInputs, got.Meta.VertexInputs)
	assert.Equal(t, f.Meta.OpsVertex, got.Meta.OpsVertex)
	assert.Equal(t, f.Meta.OpsPixel, got.Meta.OpsPixel)
	assert.Equal(t, f.Stages, got.Stages)

	assert.Equal(t, 0, got.Meta.BufferIndex("$Global"))
	assert.Equal(t, 0, got.Meta.ResourceIndex("diffuse"))

	s, ok := got.Stage(meta.LangGLSL, meta.StagePixel)
	require.True(t, ok)
	assert.Equal(t, "#version 430\n\x00", string(s.Code))
	_, ok = got.Stage(meta.LangGLSLES, meta.StagePixel)
	assert.False(t, ok)
}

func TestLayout(t *testing.T) {
	data := Marshal(sampleFile())

	assert.Equal(t, Magic, string(data[:8]))
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(data[8:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[10:]))
	assert.Equal(t, "stereokit/unlit", string(bytes.TrimRight(data[14:14+256], "\x00")))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[270:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[274:]))
	assert.Equal(t, int32(2), int32(binary.LittleEndian.Uint32(data[278:])))
	assert.Equal(t, int32(12), int32(binary.LittleEndian.Uint32(data[282:])))

	// First buffer: name, bind, size.
	at := 282 + 6*4
	assert.Equal(t, "$Global", string(bytes.TrimRight(data[at:at+32], "\x00")))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[at+32:]))
	assert.Equal(t, byte(meta.StageVertex|meta.StagePixel), data[at+34])
	assert.Equal(t, byte(meta.RegisterConstant), data[at+35])
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[at+36:]))
}

func TestVerify(t *testing.T) {
	version, name, ok := Verify(Marshal(sampleFile()))
	require.True(t, ok)
	assert.Equal(t, Version, version)
	assert.Equal(t, "stereokit/unlit", name)

	_, _, ok = Verify([]byte("SKSHADE"))
	assert.False(t, ok)
}

func TestReadErrors(t *testing.T) {
	_, err := Read([]byte("NOTASHADERFILE"))
	assert.ErrorIs(t, err, ErrNotShaderFile)

	data := Marshal(sampleFile())
	old := bytes.Clone(data)
	binary.LittleEndian.PutUint16(old[8:], 2)
	_, err = Read(old)
	assert.ErrorIs(t, err, ErrVersion)

	for _, n := range []int{12, 300, len(data) - 1} {
		_, err = Read(data[:n])
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "truncated to %d", n)
	}
}

func TestDefaultsGrowToBufferSize(t *testing.T) {
	f := sampleFile()
	f.Meta.Buffers[1].Defaults = []byte{1, 2, 3, 4}

	got, err := Read(Marshal(f))
	require.NoError(t, err)
	require.Len(t, got.Meta.Buffers[1].Defaults, 64)
	assert.Equal(t, []byte{1, 2, 3, 4}, got.Meta.Buffers[1].Defaults[:4])
}

func TestLongNamesClipped(t *testing.T) {
	f := sampleFile()
	f.Meta.Resources[0].Name = strings.Repeat("n", 40)

	got, err := Read(Marshal(f))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("n", 31), got.Meta.Resources[0].Name)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteError(t *testing.T) {
	assert.EqualError(t, Write(failWriter{}, sampleFile()), "disk full")
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, "unlit_hlsl", []byte{0, 7, 255}))
	assert.Equal(t, "#pragma once\n\nconst unsigned char sks_unlit_hlsl[3] = {\n0,\n7,\n255,\n};\n", buf.String())
}

func TestHeaderName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"out/unlit.hlsl.h", "unlit_hlsl"},
		{"unlit.h", "unlit"},
		{"a/b/pbr.v2.hlsl.sks.h", "pbr_v2_hlsl_sks"},
	}
	for _, tt := range tests {
		if got := HeaderName(tt.path); got != tt.want {
			t.Errorf("HeaderName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
