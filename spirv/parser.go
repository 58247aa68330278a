// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidModule is returned for binaries that are not SPIR-V.
var ErrInvalidModule = errors.New("spirv: invalid module")

// TypeKind classifies a type declaration.
type TypeKind uint8

// Type kinds
const (
	TypeVoid TypeKind = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeVector
	TypeMatrix
	TypeImage
	TypeSampler
	TypeSampledImage
	TypeArray
	TypeRuntimeArray
	TypeStruct
	TypePointer
	TypeFunction
)

// Type is a decoded OpType* instruction.
type Type struct {
	ID   uint32
	Kind TypeKind

	// Width and Signed describe TypeInt and TypeFloat.
	Width  uint32
	Signed bool

	// Elem is the vector component, matrix column, array element, pointee,
	// or the image type of a sampled image.
	Elem uint32

	// Count is the vector size, matrix column count or array length.
	Count uint32

	Members      []uint32 // struct member types
	StorageClass StorageClass

	// Image operands.
	Dim     Dim
	Arrayed bool
	Sampled uint32
}

// Variable is a global OpVariable.
type Variable struct {
	ID           uint32
	TypeID       uint32 // pointer type
	StorageClass StorageClass
}

// EntryPoint is a decoded OpEntryPoint.
type EntryPoint struct {
	Model     ExecutionModel
	Function  uint32
	Name      string
	Interface []uint32
}

type memberKey struct {
	id     uint32
	member uint32
}

// Module is a parsed SPIR-V binary. Instructions are kept in order so the
// module can be patched and re-encoded.
type Module struct {
	Version      Version
	Generator    uint32
	Bound        uint32
	Schema       uint32
	Instructions []Instruction

	names             map[uint32]string
	memberNames       map[memberKey]string
	decorations       map[uint32]map[Decoration][]uint32
	memberDecorations map[memberKey]map[Decoration][]uint32
	decorationStrings map[uint32]map[Decoration]string
	types             map[uint32]*Type
	constants         map[uint32][]uint32
	variables         []Variable
	entryPoints       []EntryPoint
}

// Parse decodes a SPIR-V binary in either byte order.
func Parse(data []byte) (*Module, error) {
	if len(data) < headerWords*4 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidModule, len(data))
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch {
	case binary.LittleEndian.Uint32(data) == MagicNumber:
	case binary.BigEndian.Uint32(data) == MagicNumber:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidModule, binary.LittleEndian.Uint32(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = order.Uint32(data[i*4:])
	}
	return ParseWords(words)
}

// ParseWords decodes a SPIR-V module from host-order words.
func ParseWords(words []uint32) (*Module, error) {
	if len(words) < headerWords || words[0] != MagicNumber {
		return nil, ErrInvalidModule
	}
	m := &Module{
		Version:   Version{Major: uint8(words[1] >> 16), Minor: uint8(words[1] >> 8)},
		Generator: words[2],
		Bound:     words[3],
		Schema:    words[4],
	}
	for offset := headerWords; offset < len(words); {
		count := int(words[offset] >> 16)
		if count == 0 || offset+count > len(words) {
			return nil, fmt.Errorf("%w: bad word count %d at word %d", ErrInvalidModule, count, offset)
		}
		operands := make([]uint32, count-1)
		copy(operands, words[offset+1:offset+count])
		m.Instructions = append(m.Instructions, Instruction{Opcode: OpCode(words[offset] & 0xFFFF), Words: operands})
		offset += count
	}
	if err := m.index(); err != nil {
		return nil, err
	}
	return m, nil
}

// index rebuilds the lookup tables from Instructions.
func (m *Module) index() error {
	m.names = map[uint32]string{}
	m.memberNames = map[memberKey]string{}
	m.decorations = map[uint32]map[Decoration][]uint32{}
	m.memberDecorations = map[memberKey]map[Decoration][]uint32{}
	m.decorationStrings = map[uint32]map[Decoration]string{}
	m.types = map[uint32]*Type{}
	m.constants = map[uint32][]uint32{}
	m.variables = nil
	m.entryPoints = nil

	for n, in := range m.Instructions {
		if err := m.indexInstruction(in); err != nil {
			return fmt.Errorf("%w: instruction %d (op %d): %v", ErrInvalidModule, n, in.Opcode, err)
		}
	}
	return nil
}

var errTruncated = errors.New("truncated operands")

//nolint:gocyclo,cyclop,funlen // one case per indexed opcode
func (m *Module) indexInstruction(in Instruction) error {
	w := in.Words
	need := func(n int) error {
		if len(w) < n {
			return errTruncated
		}
		return nil
	}

	switch in.Opcode {
	case OpName:
		if err := need(2); err != nil {
			return err
		}
		m.names[w[0]], _ = DecodeString(w[1:])
	case OpMemberName:
		if err := need(3); err != nil {
			return err
		}
		m.memberNames[memberKey{w[0], w[1]}], _ = DecodeString(w[2:])
	case OpEntryPoint:
		if err := need(3); err != nil {
			return err
		}
		name, n := DecodeString(w[2:])
		ep := EntryPoint{Model: ExecutionModel(w[0]), Function: w[1], Name: name}
		ep.Interface = append(ep.Interface, w[2+n:]...)
		m.entryPoints = append(m.entryPoints, ep)
	case OpDecorate:
		if err := need(2); err != nil {
			return err
		}
		set := m.decorations[w[0]]
		if set == nil {
			set = map[Decoration][]uint32{}
			m.decorations[w[0]] = set
		}
		set[Decoration(w[1])] = w[2:]
	case OpMemberDecorate:
		if err := need(3); err != nil {
			return err
		}
		key := memberKey{w[0], w[1]}
		set := m.memberDecorations[key]
		if set == nil {
			set = map[Decoration][]uint32{}
			m.memberDecorations[key] = set
		}
		set[Decoration(w[2])] = w[3:]
	case OpDecorateString:
		if err := need(3); err != nil {
			return err
		}
		set := m.decorationStrings[w[0]]
		if set == nil {
			set = map[Decoration]string{}
			m.decorationStrings[w[0]] = set
		}
		set[Decoration(w[1])], _ = DecodeString(w[2:])
	case OpTypeVoid, OpTypeBool, OpTypeSampler:
		if err := need(1); err != nil {
			return err
		}
		kind := map[OpCode]TypeKind{OpTypeVoid: TypeVoid, OpTypeBool: TypeBool, OpTypeSampler: TypeSampler}[in.Opcode]
		m.types[w[0]] = &Type{ID: w[0], Kind: kind}
	case OpTypeInt:
		if err := need(3); err != nil {
			return err
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypeInt, Width: w[1], Signed: w[2] != 0}
	case OpTypeFloat:
		if err := need(2); err != nil {
			return err
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypeFloat, Width: w[1], Signed: true}
	case OpTypeVector, OpTypeMatrix:
		if err := need(3); err != nil {
			return err
		}
		kind := TypeVector
		if in.Opcode == OpTypeMatrix {
			kind = TypeMatrix
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: kind, Elem: w[1], Count: w[2]}
	case OpTypeImage:
		if err := need(8); err != nil {
			return err
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypeImage, Elem: w[1], Dim: Dim(w[2]), Arrayed: w[4] != 0, Sampled: w[6]}
	case OpTypeSampledImage:
		if err := need(2); err != nil {
			return err
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypeSampledImage, Elem: w[1]}
	case OpTypeArray:
		if err := need(3); err != nil {
			return err
		}
		length := uint32(0)
		if c, ok := m.constants[w[2]]; ok && len(c) > 0 {
			length = c[0]
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypeArray, Elem: w[1], Count: length}
	case OpTypeRuntimeArray:
		if err := need(2); err != nil {
			return err
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypeRuntimeArray, Elem: w[1]}
	case OpTypeStruct:
		if err := need(1); err != nil {
			return err
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypeStruct, Members: append([]uint32(nil), w[1:]...)}
	case OpTypePointer:
		if err := need(3); err != nil {
			return err
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypePointer, StorageClass: StorageClass(w[1]), Elem: w[2]}
	case OpTypeFunction:
		if err := need(2); err != nil {
			return err
		}
		m.types[w[0]] = &Type{ID: w[0], Kind: TypeFunction, Elem: w[1], Members: append([]uint32(nil), w[2:]...)}
	case OpConstant:
		if err := need(3); err != nil {
			return err
		}
		m.constants[w[1]] = w[2:]
	case OpVariable:
		if err := need(3); err != nil {
			return err
		}
		sc := StorageClass(w[2])
		if sc != StorageClassFunction {
			m.variables = append(m.variables, Variable{ID: w[1], TypeID: w[0], StorageClass: sc})
		}
	}
	return nil
}

// Name returns the debug name of id, or "".
func (m *Module) Name(id uint32) string { return m.names[id] }

// MemberName returns the debug name of a struct member, or "".
func (m *Module) MemberName(structID, member uint32) string {
	return m.memberNames[memberKey{structID, member}]
}

// Decoration returns the first literal operand of a decoration on id.
// Decorations without operands report 0 and true.
func (m *Module) Decoration(id uint32, dec Decoration) (uint32, bool) {
	ops, ok := m.decorations[id][dec]
	if !ok {
		return 0, false
	}
	if len(ops) == 0 {
		return 0, true
	}
	return ops[0], true
}

// HasDecoration reports whether id carries dec.
func (m *Module) HasDecoration(id uint32, dec Decoration) bool {
	_, ok := m.decorations[id][dec]
	return ok
}

// MemberDecoration returns the first literal operand of a member decoration.
func (m *Module) MemberDecoration(structID, member uint32, dec Decoration) (uint32, bool) {
	ops, ok := m.memberDecorations[memberKey{structID, member}][dec]
	if !ok {
		return 0, false
	}
	if len(ops) == 0 {
		return 0, true
	}
	return ops[0], true
}

// DecorationString returns a string decoration such as UserSemantic.
func (m *Module) DecorationString(id uint32, dec Decoration) string {
	return m.decorationStrings[id][dec]
}

// Type returns the type declared with id, or nil.
func (m *Module) Type(id uint32) *Type { return m.types[id] }

// Variables returns the module-scope variables in declaration order.
func (m *Module) Variables() []Variable { return m.variables }

// EntryPoints returns the entry points in declaration order.
func (m *Module) EntryPoints() []EntryPoint { return m.entryPoints }

// Words re-encodes the module, including any patches, as host-order words.
func (m *Module) Words() []uint32 {
	words := []uint32{MagicNumber, versionToWord(m.Version), m.Generator, m.Bound, m.Schema}
	for _, in := range m.Instructions {
		words = append(words, in.Encode()...)
	}
	return words
}

// Bytes re-encodes the module as little-endian bytes.
func (m *Module) Bytes() []byte { return wordsToBytes(m.Words()) }
