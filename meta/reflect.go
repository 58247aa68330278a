// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package meta

// BaseType is the scalar type at the bottom of a reflected member type.
type BaseType uint8

// Reflected scalar types.
const (
	BaseUnknown BaseType = iota
	BaseBool
	BaseSByte
	BaseUByte
	BaseShort
	BaseUShort
	BaseInt
	BaseUInt
	BaseInt64
	BaseUInt64
	BaseHalf
	BaseFloat
	BaseDouble
	BaseStruct
)

// VarType maps a reflected base type to a constant buffer member type.
func (b BaseType) VarType() VarType {
	switch b {
	case BaseSByte, BaseShort, BaseInt, BaseInt64:
		return VarInt
	case BaseUByte:
		return VarUInt8
	case BaseUShort, BaseUInt, BaseUInt64:
		return VarUInt
	case BaseHalf, BaseFloat:
		return VarFloat
	case BaseDouble:
		return VarDouble
	default:
		return VarNone
	}
}

// ResourceKind classifies a reflected non-buffer resource.
type ResourceKind uint8

// Reflected resource kinds.
const (
	KindSeparateImage ResourceKind = iota
	KindStorageImage
	KindStorageBuffer
)

// ReflectedMember is one member of a reflected uniform buffer.
type ReflectedMember struct {
	Name      string
	Offset    uint32
	Size      uint32
	BaseType  BaseType
	ArrayDims []uint32
	VecSize   uint32
	Columns   uint32
}

// TypeCount returns the element count across array dimensions, vector
// width and matrix columns. It is never zero.
func (r ReflectedMember) TypeCount() uint16 {
	count := uint32(1)
	for _, d := range r.ArrayDims {
		count *= d
	}
	count *= r.VecSize * r.Columns
	if count == 0 {
		return 1
	}
	return uint16(count)
}

// ReflectedBuffer is a uniform buffer found in one stage.
type ReflectedBuffer struct {
	Name    string
	Slot    uint32
	Size    uint32 // declared size, before padding
	Members []ReflectedMember
}

// ReflectedResource is a texture, storage image or storage buffer found in
// one stage.
type ReflectedResource struct {
	Name     string
	Slot     uint32
	Kind     ResourceKind
	ReadOnly bool // storage buffers whose first member is non-writable
}

// Reflection is everything one compiled stage contributes to a Meta.
type Reflection struct {
	Stage     Stage
	Buffers   []ReflectedBuffer
	Resources []ReflectedResource

	// VertexInputs is applied only for vertex stages, and only when non-nil.
	VertexInputs []VertexComponent

	// Ops is applied to the matching vertex or pixel statistics when non-nil.
	Ops *Ops
}

// PadSize rounds size up to the next multiple of 16.
func PadSize(size uint32) uint32 {
	if size%16 == 0 {
		return size
	}
	return (size/16 + 1) * 16
}

// Merge folds one stage's reflection into m. A buffer is laid out by the
// first stage that declares it; later stages only add their stage bit.
// Resources are keyed by name and accumulate stage bits the same way.
func Merge(m *Meta, r *Reflection) {
	for _, rb := range r.Buffers {
		name := clipName(CanonicalBufferName(rb.Name))
		if i := m.BufferIndex(name); i >= 0 {
			m.Buffers[i].Bind.StageBits |= r.Stage
			continue
		}

		b := Buffer{
			Name:     name,
			NameHash: Hash(name),
			Size:     PadSize(rb.Size),
			Bind: Bind{
				Slot:      uint16(rb.Slot),
				StageBits: r.Stage,
				Register:  RegisterConstant,
			},
			Vars: make([]Var, 0, len(rb.Members)),
		}
		for _, rm := range rb.Members {
			vname := clipName(rm.Name)
			b.Vars = append(b.Vars, Var{
				Name:      vname,
				NameHash:  Hash(vname),
				Offset:    rm.Offset,
				Size:      rm.Size,
				Type:      rm.BaseType.VarType(),
				TypeCount: rm.TypeCount(),
			})
		}
		m.Buffers = append(m.Buffers, b)
		if name == GlobalBufferName {
			m.GlobalBuffer = len(m.Buffers) - 1
		}
	}

	for _, rr := range r.Resources {
		name := clipName(rr.Name)
		i := m.ResourceIndex(name)
		if i < 0 {
			m.Resources = append(m.Resources, Resource{Name: name, NameHash: Hash(name)})
			i = len(m.Resources) - 1
		}
		res := &m.Resources[i]
		res.Bind.Slot = uint16(rr.Slot)
		res.Bind.StageBits |= r.Stage
		res.Bind.Register = RegisterResource
		if rr.Kind == KindStorageImage || (rr.Kind == KindStorageBuffer && !rr.ReadOnly) {
			res.Bind.Register = RegisterReadWrite
		}
	}

	if r.Stage == StageVertex && r.VertexInputs != nil {
		m.VertexInputs = append([]VertexComponent(nil), r.VertexInputs...)
	}
	if r.Ops != nil {
		switch r.Stage {
		case StageVertex:
			m.OpsVertex = *r.Ops
		case StagePixel:
			m.OpsPixel = *r.Ops
		}
	}
}
