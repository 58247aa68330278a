// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package meta is the canonical shader metadata model.
//
// A Meta describes every constant buffer, resource binding, vertex input and
// default value one shader needs, independent of the graphics backend that
// eventually runs it. It is built incrementally: each compiled stage's
// reflection is merged in with Merge, annotations are applied with
// ApplyAnnotations, and ValidateBindings checks the result.
package meta

import (
	"hash/fnv"

	"github.com/jinzhu/copier"

	"github.com/gogpu/sksc/annotate"
)

// Field size limits in bytes, matching the fixed-size fields of the
// shader file container.
const (
	MaxShaderNameLen = 255
	MaxNameLen       = 31
	MaxExtraLen      = 63
	MaxValueLen      = 63
	MaxTagsLen       = 63
)

// GlobalBufferName is the name of the implicit default constant buffer.
const GlobalBufferName = "$Global"

// globalAlias is the sanitized spelling some toolchains give GlobalBufferName.
const globalAlias = "_Global"

// Stage is a bit set of shader stages.
type Stage uint8

// Shader stages.
const (
	StageVertex  Stage = 1 << 0
	StagePixel   Stage = 1 << 1
	StageCompute Stage = 1 << 2
)

// Stages lists every stage in compile order.
var Stages = []Stage{StageVertex, StagePixel, StageCompute}

// String returns the stage name, or a '|' joined list for multiple bits.
func (s Stage) String() string {
	switch s {
	case 0:
		return "none"
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	case StageCompute:
		return "compute"
	}
	out := ""
	for _, st := range Stages {
		if s&st != 0 {
			if out != "" {
				out += "|"
			}
			out += st.String()
		}
	}
	return out
}

// Register is the kind of bind point a binding occupies.
type Register uint8

// Register kinds.
const (
	RegisterDefault Register = iota
	RegisterVertex
	RegisterIndex
	RegisterConstant
	RegisterResource
	RegisterReadWrite
)

// String returns the register kind name.
func (r Register) String() string {
	switch r {
	case RegisterDefault:
		return "default"
	case RegisterVertex:
		return "vertex"
	case RegisterIndex:
		return "index"
	case RegisterConstant:
		return "constant"
	case RegisterResource:
		return "resource"
	case RegisterReadWrite:
		return "readwrite"
	default:
		return "unknown"
	}
}

// VarType is the numeric type of a constant buffer member.
type VarType uint16

// Constant buffer member types.
const (
	VarNone VarType = iota
	VarInt
	VarUInt
	VarUInt8
	VarFloat
	VarDouble
)

// String returns a short type name.
func (t VarType) String() string {
	switch t {
	case VarInt:
		return "int"
	case VarUInt:
		return "uint"
	case VarUInt8:
		return "uint8"
	case VarFloat:
		return "float"
	case VarDouble:
		return "double"
	default:
		return "none"
	}
}

// Size returns the byte width of one component, 0 for VarNone.
func (t VarType) Size() int {
	switch t {
	case VarInt, VarUInt, VarFloat:
		return 4
	case VarUInt8:
		return 1
	case VarDouble:
		return 8
	default:
		return 0
	}
}

// Bind is a binding slot and the stages that use it.
type Bind struct {
	Slot      uint16   `json:"slot" yaml:"slot"`
	StageBits Stage    `json:"stage_bits" yaml:"stage_bits"`
	Register  Register `json:"register" yaml:"register"`
}

// Var is one constant buffer member.
type Var struct {
	Name      string  `json:"name" yaml:"name"`
	NameHash  uint64  `json:"-" yaml:"-"`
	Extra     string  `json:"extra,omitempty" yaml:"extra,omitempty"`
	Offset    uint32  `json:"offset" yaml:"offset"`
	Size      uint32  `json:"size" yaml:"size"`
	Type      VarType `json:"type" yaml:"type"`
	TypeCount uint16  `json:"type_count" yaml:"type_count"`
}

// Buffer is a constant buffer.
type Buffer struct {
	Name     string `json:"name" yaml:"name"`
	NameHash uint64 `json:"-" yaml:"-"`
	Bind     Bind   `json:"bind" yaml:"bind"`
	Size     uint32 `json:"size" yaml:"size"` // multiple of 16
	Defaults []byte `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Vars     []Var  `json:"vars" yaml:"vars"`
}

// VarIndex returns the index of the member named name, or -1.
func (b *Buffer) VarIndex(name string) int {
	return b.VarIndexHash(Hash(name))
}

// VarIndexHash returns the index of the member with the given name hash, or -1.
func (b *Buffer) VarIndexHash(hash uint64) int {
	for i := range b.Vars {
		if b.Vars[i].NameHash == hash {
			return i
		}
	}
	return -1
}

// Resource is a texture, storage image or structured buffer binding.
type Resource struct {
	Name     string `json:"name" yaml:"name"`
	NameHash uint64 `json:"-" yaml:"-"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Tags     string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Bind     Bind   `json:"bind" yaml:"bind"`
}

// Format is a vertex component format.
type Format int32

// Vertex component formats.
const (
	FormatNone Format = iota
	FormatF64
	FormatF32
	FormatF16
	FormatI32
	FormatI16
	FormatI8
	FormatI32Normalized
	FormatI16Normalized
	FormatI8Normalized
	FormatUI32
	FormatUI16
	FormatUI8
	FormatUI32Normalized
	FormatUI16Normalized
	FormatUI8Normalized
)

// Semantic is a vertex input semantic.
type Semantic int32

// Vertex input semantics.
const (
	SemanticNone Semantic = iota
	SemanticPosition
	SemanticTexcoord
	SemanticNormal
	SemanticBinormal
	SemanticTangent
	SemanticColor
	SemanticPSize
	SemanticBlendWeight
	SemanticBlendIndices
)

var semanticNames = map[string]Semantic{
	"POSITION":     SemanticPosition,
	"TEXCOORD":     SemanticTexcoord,
	"NORMAL":       SemanticNormal,
	"BINORMAL":     SemanticBinormal,
	"TANGENT":      SemanticTangent,
	"COLOR":        SemanticColor,
	"PSIZE":        SemanticPSize,
	"BLENDWEIGHT":  SemanticBlendWeight,
	"BLENDINDICES": SemanticBlendIndices,
}

// ParseSemantic splits an HLSL semantic such as "TEXCOORD1" into its kind
// and slot. Matching is case-insensitive; unknown names map to SemanticNone.
func ParseSemantic(s string) (Semantic, uint8) {
	end := len(s)
	for end > 0 && s[end-1] >= '0' && s[end-1] <= '9' {
		end--
	}
	slot := 0
	for _, c := range s[end:] {
		slot = slot*10 + int(c-'0')
		if slot > 255 {
			slot = 255
			break
		}
	}
	name := make([]byte, end)
	for i := 0; i < end; i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		name[i] = c
	}
	return semanticNames[string(name)], uint8(slot)
}

// VertexComponent is one vertex shader input.
type VertexComponent struct {
	Format       Format   `json:"format" yaml:"format"`
	Count        uint8    `json:"count" yaml:"count"`
	Semantic     Semantic `json:"semantic" yaml:"semantic"`
	SemanticSlot uint8    `json:"semantic_slot" yaml:"semantic_slot"`
}

// Ops holds instruction count statistics for one stage.
type Ops struct {
	Total       int32 `json:"total" yaml:"total"`
	TexRead     int32 `json:"tex_read" yaml:"tex_read"`
	DynamicFlow int32 `json:"dynamic_flow" yaml:"dynamic_flow"`
}

// Meta is the metadata for one shader.
type Meta struct {
	Name         string            `json:"name" yaml:"name"`
	Buffers      []Buffer          `json:"buffers" yaml:"buffers"`
	Resources    []Resource        `json:"resources" yaml:"resources"`
	GlobalBuffer int               `json:"global_buffer" yaml:"global_buffer"` // index into Buffers, -1 if none
	VertexInputs []VertexComponent `json:"vertex_inputs,omitempty" yaml:"vertex_inputs,omitempty"`
	OpsVertex    Ops               `json:"ops_vertex" yaml:"ops_vertex"`
	OpsPixel     Ops               `json:"ops_pixel" yaml:"ops_pixel"`
}

// New returns an empty Meta.
func New() *Meta {
	return &Meta{GlobalBuffer: -1}
}

// Hash returns the 64-bit FNV-1a hash used for name lookups.
func Hash(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

// CanonicalBufferName maps the sanitized "_Global" spelling back to
// GlobalBufferName and returns other names unchanged.
func CanonicalBufferName(name string) string {
	if name == globalAlias {
		return GlobalBufferName
	}
	return name
}

// BufferNamesEqual reports whether two buffer names denote the same buffer.
func BufferNamesEqual(a, b string) bool {
	return CanonicalBufferName(a) == CanonicalBufferName(b)
}

// BufferIndex returns the index of the buffer named name, or -1.
func (m *Meta) BufferIndex(name string) int {
	for i := range m.Buffers {
		if BufferNamesEqual(m.Buffers[i].Name, name) {
			return i
		}
	}
	return -1
}

// ResourceIndex returns the index of the resource named name, or -1.
func (m *Meta) ResourceIndex(name string) int {
	for i := range m.Resources {
		if m.Resources[i].Name == name {
			return i
		}
	}
	return -1
}

// Global returns the global constant buffer, or nil.
func (m *Meta) Global() *Buffer {
	if m.GlobalBuffer < 0 || m.GlobalBuffer >= len(m.Buffers) {
		return nil
	}
	return &m.Buffers[m.GlobalBuffer]
}

// Bind returns the binding of the buffer or resource named name.
func (m *Meta) Bind(name string) (Bind, bool) {
	hash := Hash(name)
	for i := range m.Buffers {
		if m.Buffers[i].NameHash == hash {
			return m.Buffers[i].Bind, true
		}
	}
	for i := range m.Resources {
		if m.Resources[i].NameHash == hash {
			return m.Resources[i].Bind, true
		}
	}
	return Bind{}, false
}

// VarCount returns the number of members in the global buffer.
func (m *Meta) VarCount() int {
	if g := m.Global(); g != nil {
		return len(g.Vars)
	}
	return 0
}

// VarIndex returns the index of a global buffer member, or -1.
func (m *Meta) VarIndex(name string) int {
	if g := m.Global(); g != nil {
		return g.VarIndex(name)
	}
	return -1
}

// VarInfo returns the global buffer member at index, or nil.
func (m *Meta) VarInfo(index int) *Var {
	g := m.Global()
	if g == nil || index < 0 || index >= len(g.Vars) {
		return nil
	}
	return &g.Vars[index]
}

// Rehash recomputes every name hash and the global buffer index.
func (m *Meta) Rehash() {
	m.GlobalBuffer = -1
	for i := range m.Buffers {
		b := &m.Buffers[i]
		b.NameHash = Hash(b.Name)
		for v := range b.Vars {
			b.Vars[v].NameHash = Hash(b.Vars[v].Name)
		}
		if b.Name == GlobalBufferName {
			m.GlobalBuffer = i
		}
	}
	for i := range m.Resources {
		m.Resources[i].NameHash = Hash(m.Resources[i].Name)
	}
}

// Clone returns a deep copy of m.
func (m *Meta) Clone() (*Meta, error) {
	out := New()
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return out, nil
}

func clipName(s string) string {
	return annotate.Clip(s, MaxNameLen)
}
