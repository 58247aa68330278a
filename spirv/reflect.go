// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

// Resource is a module-scope variable classified by how a shader uses it.
type Resource struct {
	ID         uint32 // variable ID
	TypeID     uint32 // pointee type
	Name       string
	Set        uint32
	Binding    uint32
	HasBinding bool
}

// Resources groups a module's variables by resource class.
type Resources struct {
	UniformBuffers   []Resource
	StorageBuffers   []Resource
	PushConstants    []Resource
	SeparateImages   []Resource
	StorageImages    []Resource
	SeparateSamplers []Resource
	SampledImages    []Resource
	StageInputs      []Resource
	StageOutputs     []Resource
}

// Resources classifies every module-scope variable. Built-in stage inputs
// and outputs are left out. A buffer without a variable name takes the
// name of its block type.
func (m *Module) Resources() Resources {
	var out Resources
	for _, v := range m.variables {
		ptr := m.types[v.TypeID]
		if ptr == nil || ptr.Kind != TypePointer {
			continue
		}
		r := Resource{ID: v.ID, TypeID: ptr.Elem, Name: m.names[v.ID]}
		r.Set, _ = m.Decoration(v.ID, DecorationDescriptorSet)
		r.Binding, r.HasBinding = m.Decoration(v.ID, DecorationBinding)

		base := m.baseOfArrays(ptr.Elem)
		bt := m.types[base]
		if bt == nil {
			continue
		}

		switch v.StorageClass {
		case StorageClassUniform:
			if bt.Kind != TypeStruct {
				continue
			}
			if r.Name == "" {
				r.Name = m.names[base]
			}
			switch {
			case m.HasDecoration(base, DecorationBufferBlock):
				out.StorageBuffers = append(out.StorageBuffers, r)
			case m.HasDecoration(base, DecorationBlock):
				out.UniformBuffers = append(out.UniformBuffers, r)
			}
		case StorageClassStorageBuffer:
			if r.Name == "" {
				r.Name = m.names[base]
			}
			out.StorageBuffers = append(out.StorageBuffers, r)
		case StorageClassPushConstant:
			if r.Name == "" {
				r.Name = m.names[base]
			}
			out.PushConstants = append(out.PushConstants, r)
		case StorageClassUniformConstant:
			switch bt.Kind {
			case TypeImage:
				if bt.Sampled == ImageStorage {
					out.StorageImages = append(out.StorageImages, r)
				} else {
					out.SeparateImages = append(out.SeparateImages, r)
				}
			case TypeSampler:
				out.SeparateSamplers = append(out.SeparateSamplers, r)
			case TypeSampledImage:
				out.SampledImages = append(out.SampledImages, r)
			}
		case StorageClassInput:
			if !m.isBuiltIn(v.ID, base) {
				out.StageInputs = append(out.StageInputs, r)
			}
		case StorageClassOutput:
			if !m.isBuiltIn(v.ID, base) {
				out.StageOutputs = append(out.StageOutputs, r)
			}
		}
	}
	return out
}

func (m *Module) baseOfArrays(id uint32) uint32 {
	for {
		t := m.types[id]
		if t == nil || (t.Kind != TypeArray && t.Kind != TypeRuntimeArray) {
			return id
		}
		id = t.Elem
	}
}

func (m *Module) isBuiltIn(varID, typeID uint32) bool {
	if m.HasDecoration(varID, DecorationBuiltIn) {
		return true
	}
	t := m.types[typeID]
	if t == nil || t.Kind != TypeStruct {
		return false
	}
	for i := range t.Members {
		if _, ok := m.MemberDecoration(typeID, uint32(i), DecorationBuiltIn); ok {
			return true
		}
	}
	return false
}

// Member describes one member of a block struct as laid out in memory.
type Member struct {
	Name   string
	Offset uint32
	Size   uint32

	// Scalar is the innermost scalar or struct type.
	Scalar *Type

	VecSize   uint32
	Columns   uint32
	ArrayDims []uint32 // innermost first
}

// StructMembers returns the members of the struct typeID with their
// declared offsets and sizes.
func (m *Module) StructMembers(typeID uint32) []Member {
	t := m.types[typeID]
	if t == nil || t.Kind != TypeStruct {
		return nil
	}
	out := make([]Member, 0, len(t.Members))
	for i, mt := range t.Members {
		idx := uint32(i)
		mem := Member{Name: m.MemberName(typeID, idx), VecSize: 1, Columns: 1}
		mem.Offset, _ = m.MemberDecoration(typeID, idx, DecorationOffset)
		mem.Size = m.DeclaredMemberSize(typeID, idx)

		var dims []uint32
		id := mt
		for {
			at := m.types[id]
			if at == nil || (at.Kind != TypeArray && at.Kind != TypeRuntimeArray) {
				break
			}
			dims = append(dims, at.Count)
			id = at.Elem
		}
		// Reverse so the innermost dimension comes first.
		for l, r := 0, len(dims)-1; l < r; l, r = l+1, r-1 {
			dims[l], dims[r] = dims[r], dims[l]
		}
		mem.ArrayDims = dims

		elem := m.types[id]
		switch {
		case elem == nil:
		case elem.Kind == TypeMatrix:
			mem.Columns = elem.Count
			if col := m.types[elem.Elem]; col != nil {
				mem.VecSize = col.Count
				mem.Scalar = m.types[col.Elem]
			}
		case elem.Kind == TypeVector:
			mem.VecSize = elem.Count
			mem.Scalar = m.types[elem.Elem]
		default:
			mem.Scalar = elem
		}
		out = append(out, mem)
	}
	return out
}

// DeclaredStructSize returns the offset of the last member plus its
// declared size.
func (m *Module) DeclaredStructSize(typeID uint32) uint32 {
	t := m.types[typeID]
	if t == nil || t.Kind != TypeStruct || len(t.Members) == 0 {
		return 0
	}
	last := uint32(len(t.Members) - 1)
	offset, _ := m.MemberDecoration(typeID, last, DecorationOffset)
	return offset + m.DeclaredMemberSize(typeID, last)
}

// DeclaredMemberSize returns the size in bytes a struct member occupies.
// Runtime-sized arrays report 0.
func (m *Module) DeclaredMemberSize(structID, member uint32) uint32 {
	st := m.types[structID]
	if st == nil || int(member) >= len(st.Members) {
		return 0
	}
	t := m.types[st.Members[member]]
	if t == nil {
		return 0
	}

	switch t.Kind {
	case TypeRuntimeArray:
		return 0
	case TypeArray:
		stride, _ := m.Decoration(t.ID, DecorationArrayStride)
		return stride * t.Count
	case TypeStruct:
		return m.DeclaredStructSize(t.ID)
	case TypeMatrix:
		stride, _ := m.MemberDecoration(structID, member, DecorationMatrixStride)
		if _, rowMajor := m.MemberDecoration(structID, member, DecorationRowMajor); rowMajor {
			if col := m.types[t.Elem]; col != nil {
				return stride * col.Count
			}
			return 0
		}
		return stride * t.Count
	case TypeVector:
		if s := m.types[t.Elem]; s != nil {
			return s.Width / 8 * t.Count
		}
		return 0
	default:
		return t.Width / 8
	}
}

// InputComponents returns the scalar type and component count of a stage
// input or output type.
func (m *Module) InputComponents(typeID uint32) (*Type, uint32) {
	t := m.types[typeID]
	if t == nil {
		return nil, 0
	}
	if t.Kind == TypeVector {
		return m.types[t.Elem], t.Count
	}
	return t, 1
}
