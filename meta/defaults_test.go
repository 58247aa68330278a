// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package meta

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/sksc/annotate"
	"github.com/gogpu/sksc/diag"
)

func binderFixture() *Meta {
	m := New()
	m.Buffers = []Buffer{{
		Name: GlobalBufferName,
		Size: 48,
		Vars: []Var{
			{Name: "color", Offset: 0, Size: 16, Type: VarFloat, TypeCount: 4},
			{Name: "scale", Offset: 16, Size: 4, Type: VarFloat, TypeCount: 1},
			{Name: "count", Offset: 20, Size: 4, Type: VarInt, TypeCount: 1},
			{Name: "mask", Offset: 24, Size: 4, Type: VarUInt, TypeCount: 1},
			{Name: "weight", Offset: 32, Size: 8, Type: VarDouble, TypeCount: 1},
			{Name: "mode", Offset: 40, Size: 4, Type: VarNone, TypeCount: 1},
		},
	}}
	m.Resources = []Resource{{Name: "diffuse"}}
	m.Rehash()
	return m
}

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestApplyAnnotationsDefaults(t *testing.T) {
	m := binderFixture()
	log := diag.New()
	ApplyAnnotations(m, []annotate.Item{
		{Name: "color", Tag: "color", Value: "1, 0.5, 0, 1"},
		{Name: "scale", Value: "2.5f"},
		{Name: "count", Value: "-3.7"},
		{Name: "mask", Value: "255"},
		{Name: "weight", Value: "0.125"},
		{Name: "diffuse", Tag: "2D, external", Value: "white"},
		{Name: "name", Value: "Unlit Shader"},
	}, log)

	assert.Equal(t, 0, log.Len(), "%v", log.Items())
	assert.Equal(t, "Unlit Shader", m.Name)

	g := m.Global()
	require.Len(t, g.Defaults, 48)
	assert.Equal(t, float32(1), f32At(g.Defaults, 0))
	assert.Equal(t, float32(0.5), f32At(g.Defaults, 4))
	assert.Equal(t, float32(0), f32At(g.Defaults, 8))
	assert.Equal(t, float32(1), f32At(g.Defaults, 12))
	assert.Equal(t, float32(2.5), f32At(g.Defaults, 16))
	assert.Equal(t, int32(-3), int32(binary.LittleEndian.Uint32(g.Defaults[20:])))
	assert.Equal(t, uint32(255), binary.LittleEndian.Uint32(g.Defaults[24:]))
	assert.Equal(t, 0.125, math.Float64frombits(binary.LittleEndian.Uint64(g.Defaults[32:])))
	assert.Equal(t, "color", g.Vars[0].Extra)

	assert.Equal(t, "2D, external", m.Resources[0].Tags)
	assert.Equal(t, "white", m.Resources[0].Value)
}

func TestApplyAnnotationsArityMismatch(t *testing.T) {
	m := binderFixture()
	log := diag.New()
	ApplyAnnotations(m, []annotate.Item{{Name: "color", Value: "1,2", Row: 4, Col: 3}}, log)

	assert.Nil(t, m.Global().Defaults)
	items := log.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.LevelWarning, items[0].Level)
	assert.Equal(t, 4, items[0].Line)
	assert.Equal(t, 3, items[0].Column)
	assert.Equal(t, "Default value for --color has an incorrect number of arguments", items[0].Text)
}

func TestApplyAnnotationsArityKeepsExistingDefaults(t *testing.T) {
	m := binderFixture()
	log := diag.New()
	ApplyAnnotations(m, []annotate.Item{
		{Name: "scale", Value: "3"},
		{Name: "color", Value: "1,2,3"},
	}, log)

	g := m.Global()
	require.NotNil(t, g.Defaults)
	assert.Equal(t, make([]byte, 16), g.Defaults[:16])
	assert.Equal(t, 1, log.Count(diag.LevelWarning))
}

func TestApplyAnnotationsUnimplementedType(t *testing.T) {
	m := binderFixture()
	log := diag.New()
	ApplyAnnotations(m, []annotate.Item{{Name: "mode", Tag: "enum", Value: "1"}}, log)

	assert.Nil(t, m.Global().Defaults)
	assert.Equal(t, "enum", m.Global().Vars[5].Extra)
	items := log.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Can't set default for --mode, unimplemented type", items[0].Text)
}

func TestApplyAnnotationsTagOnly(t *testing.T) {
	m := binderFixture()
	log := diag.New()
	ApplyAnnotations(m, []annotate.Item{{Name: "scale", Tag: "range(0,2)"}}, log)

	assert.Equal(t, 0, log.Len())
	assert.Nil(t, m.Global().Defaults)
	assert.Equal(t, "range(0,2)", m.Global().Vars[1].Extra)
}

func TestApplyAnnotationsUnknownName(t *testing.T) {
	m := binderFixture()
	log := diag.New()
	ApplyAnnotations(m, []annotate.Item{
		{Name: "colr", Value: "1"},
		{Name: "zzz"},
	}, log)

	items := log.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Can't find shader var named 'colr', did you mean 'color'?", items[0].Text)
	assert.Equal(t, "Can't find shader var named 'zzz'", items[1].Text)
}

func TestApplyAnnotationsDualMatch(t *testing.T) {
	m := binderFixture()
	m.Resources = append(m.Resources, Resource{Name: "scale"})
	m.Rehash()
	log := diag.New()
	ApplyAnnotations(m, []annotate.Item{{Name: "scale", Tag: "t", Value: "1"}}, log)

	// Both matches are applied and the ambiguity is reported.
	assert.Equal(t, float32(1), f32At(m.Global().Defaults, 16))
	assert.Equal(t, "t", m.Resources[1].Tags)
	items := log.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Can't find shader var named 'scale'", items[0].Text)
}

func TestApplyAnnotationsWithoutGlobal(t *testing.T) {
	m := New()
	log := diag.New()
	ApplyAnnotations(m, []annotate.Item{{Name: "name", Value: "x"}, {Name: "tint", Value: "1"}}, log)
	assert.Equal(t, "x", m.Name)
	assert.Equal(t, 1, log.Count(diag.LevelWarning))
}

func TestParseLeadingFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{" 2.5 ", 2.5},
		{"1.5f", 1.5},
		{".5", 0.5},
		{"-3e2", -300},
		{"1e", 1},
		{"abc", 0},
		{"+", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLeadingFloat(tt.in))
		})
	}
}
