// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sksc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/sksc/internal/spvtest"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/spirv"
)

func globalMembers() []spvtest.Member {
	return []spvtest.Member{
		{Name: "tint", Type: spvtest.Float4, Offset: 0},
		{Name: "time", Type: spvtest.Float, Offset: 16},
	}
}

func vertexShader() spvtest.Shader {
	return spvtest.Shader{
		Model: spirv.ExecutionModelVertex,
		Buffers: []spvtest.Buffer{
			{TypeName: "_Global", Binding: 0, Members: globalMembers()},
			{
				Name:     "Transforms",
				TypeName: "type.Transforms",
				Binding:  1,
				Members:  []spvtest.Member{{Name: "world", Type: spvtest.Float4x4}},
			},
		},
		Inputs: []spvtest.IO{
			{Name: "in.uv", Location: 1, Semantic: "TEXCOORD0", Components: 2},
			{Name: "in.pos", Location: 0, Semantic: "POSITION", Components: 3},
			{Name: "in.id", Location: 2, Semantic: "BLENDINDICES1", Components: 4, Kind: spvtest.KindUInt},
			{Name: "gl_VertexIndex", BuiltIn: true},
		},
		Outputs:  []spvtest.IO{{Name: "@entryPointOutput.uv", Location: 0}},
		Branches: 2,
	}
}

func pixelShader() spvtest.Shader {
	return spvtest.Shader{
		Model: spirv.ExecutionModelFragment,
		Buffers: []spvtest.Buffer{
			{TypeName: "_Global", Binding: 0, Members: globalMembers()},
			{Name: "particles", Binding: 3, Storage: true, ReadOnly: true},
			{Name: "counters", Binding: 4, Storage: true},
		},
		Images: []spvtest.Image{
			{Name: "diffuse", Binding: 0},
			{Name: "output", Binding: 2, Storage: true},
		},
		Samplers: []spvtest.Sampler{{Name: "diffuse_s", Binding: 0}},
		Inputs:   []spvtest.IO{{Name: "input.uv", Location: 0, Semantic: "TEXCOORD0", Components: 2}},
		Outputs:  []spvtest.IO{{Name: "@entryPointOutput", Location: 0}},
		TexReads: 2,
		Branches: 1,
	}
}

func TestReflectPixel(t *testing.T) {
	r, err := SPIRVReflector{}.Reflect(spvtest.Build(pixelShader()), meta.StagePixel)
	require.NoError(t, err)

	assert.Equal(t, meta.StagePixel, r.Stage)
	require.Len(t, r.Buffers, 1)
	global := r.Buffers[0]
	assert.Equal(t, "_Global", global.Name)
	assert.Equal(t, uint32(0), global.Slot)
	assert.Equal(t, uint32(20), global.Size)
	require.Len(t, global.Members, 2)
	assert.Equal(t, meta.ReflectedMember{Name: "tint", Size: 16, BaseType: meta.BaseFloat, ArrayDims: nil, VecSize: 4, Columns: 1}, global.Members[0])
	assert.Equal(t, uint16(1), global.Members[1].TypeCount())

	assert.Equal(t, []meta.ReflectedResource{
		{Name: "diffuse", Slot: 0, Kind: meta.KindSeparateImage},
		{Name: "output", Slot: 2, Kind: meta.KindStorageImage},
		{Name: "particles", Slot: 3, Kind: meta.KindStorageBuffer, ReadOnly: true},
		{Name: "counters", Slot: 4, Kind: meta.KindStorageBuffer},
	}, r.Resources)

	assert.Nil(t, r.VertexInputs)
	require.NotNil(t, r.Ops)
	assert.Equal(t, int32(2), r.Ops.TexRead)
	assert.Equal(t, int32(1), r.Ops.DynamicFlow)
}

func TestReflectVertexInputs(t *testing.T) {
	r, err := SPIRVReflector{}.Reflect(spvtest.Build(vertexShader()), meta.StageVertex)
	require.NoError(t, err)

	assert.Equal(t, []meta.VertexComponent{
		{Format: meta.FormatF32, Count: 3, Semantic: meta.SemanticPosition},
		{Format: meta.FormatF32, Count: 2, Semantic: meta.SemanticTexcoord},
		{Format: meta.FormatUI32, Count: 4, Semantic: meta.SemanticBlendIndices, SemanticSlot: 1},
	}, r.VertexInputs)

	require.Len(t, r.Buffers, 2)
	world := r.Buffers[1].Members[0]
	assert.Equal(t, uint16(16), world.TypeCount())
	assert.Equal(t, meta.VarFloat, world.BaseType.VarType())
	require.NotNil(t, r.Ops)
	assert.Equal(t, int32(2), r.Ops.DynamicFlow)
}

func TestReflectComputeHasNoOps(t *testing.T) {
	r, err := SPIRVReflector{}.Reflect(spvtest.Build(spvtest.Shader{Model: spirv.ExecutionModelGLCompute}), meta.StageCompute)
	require.NoError(t, err)
	assert.Nil(t, r.Ops)
	assert.Nil(t, r.VertexInputs)
}

func TestReflectInvalid(t *testing.T) {
	_, err := SPIRVReflector{}.Reflect([]byte{1, 2, 3, 4}, meta.StageVertex)
	assert.Error(t, err)
}

func TestBaseType(t *testing.T) {
	tests := []struct {
		typ  *spirv.Type
		want meta.BaseType
	}{
		{nil, meta.BaseUnknown},
		{&spirv.Type{Kind: spirv.TypeFloat, Width: 16}, meta.BaseHalf},
		{&spirv.Type{Kind: spirv.TypeFloat, Width: 32}, meta.BaseFloat},
		{&spirv.Type{Kind: spirv.TypeFloat, Width: 64}, meta.BaseDouble},
		{&spirv.Type{Kind: spirv.TypeInt, Width: 8}, meta.BaseUByte},
		{&spirv.Type{Kind: spirv.TypeInt, Width: 8, Signed: true}, meta.BaseSByte},
		{&spirv.Type{Kind: spirv.TypeInt, Width: 32, Signed: true}, meta.BaseInt},
		{&spirv.Type{Kind: spirv.TypeInt, Width: 64}, meta.BaseUInt64},
		{&spirv.Type{Kind: spirv.TypeBool}, meta.BaseBool},
		{&spirv.Type{Kind: spirv.TypeStruct}, meta.BaseStruct},
	}
	for _, tt := range tests {
		if got := baseType(tt.typ); got != tt.want {
			t.Errorf("baseType(%+v) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
