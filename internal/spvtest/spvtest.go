// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spvtest builds small SPIR-V modules for tests. The modules have
// the shape glslang produces for HLSL input: named block structs with
// explicit offsets, separate images and samplers, and stage IO carrying
// UserSemantic decorations.
package spvtest

import (
	"github.com/gogpu/sksc/spirv"
)

// MemberType is the type of a block member.
type MemberType uint8

// Block member types.
const (
	Float MemberType = iota
	Float2
	Float3
	Float4
	Float4x4
	Int
	UInt
	Double
	FloatArray3 // float[3] with a 16 byte stride
)

// Member is one block member.
type Member struct {
	Name   string
	Type   MemberType
	Offset uint32
}

// Buffer is a uniform or storage buffer.
type Buffer struct {
	Name     string // variable name, may be empty
	TypeName string
	Binding  uint32
	Members  []Member

	// Storage buffers hold a runtime array of float4.
	Storage  bool
	ReadOnly bool
}

// Image is a texture or storage image.
type Image struct {
	Name    string
	Binding uint32
	Storage bool
}

// Sampler is a separate sampler.
type Sampler struct {
	Name    string
	Binding uint32
}

// ScalarKind is the component type of a stage IO variable.
type ScalarKind uint8

// Stage IO component kinds.
const (
	KindFloat ScalarKind = iota
	KindInt
	KindUInt
)

// IO is a stage input or output.
type IO struct {
	Name       string
	Location   uint32
	Semantic   string
	Components uint32
	Kind       ScalarKind
	BuiltIn    bool
}

// Shader describes the module to build.
type Shader struct {
	Model    spirv.ExecutionModel
	Entry    string
	Buffers  []Buffer
	Images   []Image
	Samplers []Sampler
	Inputs   []IO
	Outputs  []IO

	// TexReads and Branches add that many sample and conditional branch
	// instructions to the entry point body.
	TexReads int
	Branches int
}

// Build encodes s as a SPIR-V 1.0 binary.
func Build(s Shader) []byte {
	if s.Entry == "" {
		s.Entry = "main"
	}
	b := spirv.NewModuleBuilder(spirv.Version1_0)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	void := b.AddTypeVoid()
	f32 := b.AddTypeFloat(32)
	i32 := b.AddTypeInt(32, true)
	u32 := b.AddTypeInt(32, false)
	f64 := b.AddTypeFloat(64)
	vec := func(elem, n uint32) uint32 {
		if n == 1 {
			return elem
		}
		return b.AddTypeVector(elem, n)
	}
	fvec := map[uint32]uint32{1: f32, 2: vec(f32, 2), 3: vec(f32, 3), 4: vec(f32, 4)}
	ivec := map[uint32]uint32{1: i32, 2: vec(i32, 2), 3: vec(i32, 3), 4: vec(i32, 4)}
	uvec := map[uint32]uint32{1: u32, 2: vec(u32, 2), 3: vec(u32, 3), 4: vec(u32, 4)}
	mat4 := b.AddTypeMatrix(fvec[4], 4)
	three := b.AddConstant(u32, 3)
	zero := b.AddConstantFloat32(f32, 0)

	memberType := func(t MemberType) uint32 {
		switch t {
		case Float2:
			return fvec[2]
		case Float3:
			return fvec[3]
		case Float4:
			return fvec[4]
		case Float4x4:
			return mat4
		case Int:
			return i32
		case UInt:
			return u32
		case Double:
			return f64
		case FloatArray3:
			arr := b.AddTypeArray(f32, three)
			b.AddDecorate(arr, spirv.DecorationArrayStride, 16)
			return arr
		default:
			return f32
		}
	}

	var iface []uint32

	for _, buf := range s.Buffers {
		var st uint32
		if buf.Storage {
			rt := b.AddTypeRuntimeArray(fvec[4])
			b.AddDecorate(rt, spirv.DecorationArrayStride, 16)
			st = b.AddTypeStruct(rt)
			b.AddMemberName(st, 0, "data")
			b.AddMemberDecorate(st, 0, spirv.DecorationOffset, 0)
			if buf.ReadOnly {
				b.AddMemberDecorate(st, 0, spirv.DecorationNonWritable)
			}
			b.AddDecorate(st, spirv.DecorationBufferBlock)
		} else {
			types := make([]uint32, len(buf.Members))
			for i, mem := range buf.Members {
				types[i] = memberType(mem.Type)
			}
			st = b.AddTypeStruct(types...)
			for i, mem := range buf.Members {
				idx := uint32(i)
				b.AddMemberName(st, idx, mem.Name)
				b.AddMemberDecorate(st, idx, spirv.DecorationOffset, mem.Offset)
				if mem.Type == Float4x4 {
					b.AddMemberDecorate(st, idx, spirv.DecorationColMajor)
					b.AddMemberDecorate(st, idx, spirv.DecorationMatrixStride, 16)
				}
			}
			b.AddDecorate(st, spirv.DecorationBlock)
		}
		if buf.TypeName != "" {
			b.AddName(st, buf.TypeName)
		}
		ptr := b.AddTypePointer(spirv.StorageClassUniform, st)
		v := b.AddVariable(ptr, spirv.StorageClassUniform)
		if buf.Name != "" {
			b.AddName(v, buf.Name)
		}
		b.AddDecorate(v, spirv.DecorationDescriptorSet, 0)
		b.AddDecorate(v, spirv.DecorationBinding, buf.Binding)
	}

	var sampleImage, sampleSampler, imageType uint32
	for _, img := range s.Images {
		sampled := uint32(spirv.ImageSampledYes)
		if img.Storage {
			sampled = spirv.ImageStorage
		}
		it := b.AddTypeImage(f32, spirv.Dim2D, false, sampled)
		ptr := b.AddTypePointer(spirv.StorageClassUniformConstant, it)
		v := b.AddVariable(ptr, spirv.StorageClassUniformConstant)
		b.AddName(v, img.Name)
		b.AddDecorate(v, spirv.DecorationDescriptorSet, 0)
		b.AddDecorate(v, spirv.DecorationBinding, img.Binding)
		if !img.Storage && sampleImage == 0 {
			sampleImage, imageType = v, it
		}
	}
	for _, smp := range s.Samplers {
		st := b.AddTypeSampler()
		ptr := b.AddTypePointer(spirv.StorageClassUniformConstant, st)
		v := b.AddVariable(ptr, spirv.StorageClassUniformConstant)
		b.AddName(v, smp.Name)
		b.AddDecorate(v, spirv.DecorationDescriptorSet, 0)
		b.AddDecorate(v, spirv.DecorationBinding, smp.Binding)
		if sampleSampler == 0 {
			sampleSampler = v
		}
	}

	io := func(list []IO, sc spirv.StorageClass) {
		for _, x := range list {
			n := x.Components
			if n == 0 {
				n = 4
			}
			var t uint32
			switch x.Kind {
			case KindInt:
				t = ivec[n]
			case KindUInt:
				t = uvec[n]
			default:
				t = fvec[n]
			}
			ptr := b.AddTypePointer(sc, t)
			v := b.AddVariable(ptr, sc)
			b.AddName(v, x.Name)
			if x.BuiltIn {
				b.AddDecorate(v, spirv.DecorationBuiltIn, uint32(spirv.BuiltInPosition))
			} else {
				b.AddDecorate(v, spirv.DecorationLocation, x.Location)
			}
			if x.Semantic != "" {
				b.AddDecorateString(v, spirv.DecorationUserSemantic, x.Semantic)
			}
			iface = append(iface, v)
		}
	}
	io(s.Inputs, spirv.StorageClassInput)
	io(s.Outputs, spirv.StorageClassOutput)

	fnType := b.AddTypeFunction(void)
	fn := b.AddFunction(fnType, void, spirv.FunctionControlNone)
	b.AddLabel()
	if s.TexReads > 0 && sampleImage != 0 && sampleSampler != 0 {
		sampledType := b.AddTypeSampledImage(imageType)
		samplerType := b.AddTypeSampler()
		coord := b.AddConstant(f32, 0)
		for i := 0; i < s.TexReads; i++ {
			img := b.AddOp(spirv.OpLoad, imageType, sampleImage)
			smp := b.AddOp(spirv.OpLoad, samplerType, sampleSampler)
			si := b.AddOp(spirv.OpSampledImage, sampledType, img, smp)
			b.AddOp(spirv.OpImageSampleImplicitLod, fvec[4], si, coord)
		}
	}
	for i := 0; i < s.Branches; i++ {
		cond := b.AddOp(spirv.OpFAdd, f32, zero, zero)
		next := b.AllocID()
		merge := b.AllocID()
		b.AddStatement(spirv.OpSelectionMerge, merge, uint32(spirv.SelectionControlNone))
		b.AddStatement(spirv.OpBranchConditional, cond, next, merge)
		b.AddStatement(spirv.OpLabel, next)
		b.AddStatement(spirv.OpBranch, merge)
		b.AddStatement(spirv.OpLabel, merge)
	}
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(s.Model, fn, s.Entry, iface)
	if s.Model == spirv.ExecutionModelFragment {
		b.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	}
	return b.Build()
}
