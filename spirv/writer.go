// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"encoding/binary"
	"math"
)

// Instruction represents a SPIR-V instruction.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // operands, without the leading opcode word
}

// Encode encodes the instruction to binary words.
func (i Instruction) Encode() []uint32 {
	wordCount := uint32(len(i.Words) + 1)
	result := make([]uint32, 0, wordCount)
	result = append(result, (wordCount<<16)|uint32(i.Opcode))
	return append(result, i.Words...)
}

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{words: make([]uint32, 0, 8)}
}

// AddWord adds a word to the instruction.
func (b *InstructionBuilder) AddWord(word uint32) {
	b.words = append(b.words, word)
}

// AddString adds a null-terminated, word-padded UTF-8 string.
func (b *InstructionBuilder) AddString(s string) {
	b.words = append(b.words, EncodeString(s)...)
}

// Build builds the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode OpCode) Instruction {
	return Instruction{Opcode: opcode, Words: b.words}
}

// EncodeString packs s into literal-string words.
func EncodeString(s string) []uint32 {
	n := len(s)/4 + 1
	words := make([]uint32, n)
	for i := 0; i < len(s); i++ {
		words[i/4] |= uint32(s[i]) << (8 * (i % 4))
	}
	return words
}

// DecodeString reads a literal string from words and returns it together
// with the number of words it occupied.
func DecodeString(words []uint32) (string, int) {
	buf := make([]byte, 0, len(words)*4)
	for i, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return string(buf), i + 1
			}
			buf = append(buf, c)
		}
	}
	return string(buf), len(words)
}

// ModuleBuilder assembles SPIR-V modules section by section. It is used to
// build fixtures and small patch modules; the section order is the one
// the SPIR-V logical layout requires.
type ModuleBuilder struct {
	version   Version
	generator uint32

	capabilities   []Instruction
	extensions     []Instruction
	extInstImports []Instruction
	memoryModel    *Instruction
	entryPoints    []Instruction
	executionModes []Instruction
	debugStrings   []Instruction // OpString
	debugNames     []Instruction // OpName, OpMemberName
	annotations    []Instruction // OpDecorate, OpMemberDecorate
	types          []Instruction // OpType*, OpConstant*
	globalVars     []Instruction // OpVariable (global)
	functions      []Instruction // OpFunction...OpFunctionEnd

	nextID uint32
}

// NewModuleBuilder creates a new SPIR-V module builder.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:   version,
		generator: GeneratorID,
		nextID:    1,
	}
}

// AllocID allocates a new SPIR-V ID.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

func inst(op OpCode, words ...uint32) Instruction {
	return Instruction{Opcode: op, Words: words}
}

func withString(s string, before []uint32, after ...uint32) []uint32 {
	words := append(before, EncodeString(s)...)
	return append(words, after...)
}

// AddCapability adds a capability.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	b.capabilities = append(b.capabilities, inst(OpCapability, uint32(capability)))
}

// AddExtension adds an extension.
func (b *ModuleBuilder) AddExtension(name string) {
	b.extensions = append(b.extensions, inst(OpExtension, EncodeString(name)...))
}

// AddExtInstImport imports an extended instruction set.
func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	b.extInstImports = append(b.extInstImports, inst(OpExtInstImport, withString(name, []uint32{id})...))
	return id
}

// SetMemoryModel sets the memory model.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	i := inst(OpMemoryModel, uint32(addressing), uint32(memory))
	b.memoryModel = &i
}

// AddEntryPoint adds an entry point.
func (b *ModuleBuilder) AddEntryPoint(execModel ExecutionModel, funcID uint32, name string, interfaces []uint32) {
	words := withString(name, []uint32{uint32(execModel), funcID}, interfaces...)
	b.entryPoints = append(b.entryPoints, inst(OpEntryPoint, words...))
}

// AddExecutionMode adds an execution mode.
func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	words := append([]uint32{entryPoint, uint32(mode)}, params...)
	b.executionModes = append(b.executionModes, inst(OpExecutionMode, words...))
}

// AddString adds a debug string.
func (b *ModuleBuilder) AddString(text string) uint32 {
	id := b.AllocID()
	b.debugStrings = append(b.debugStrings, inst(OpString, withString(text, []uint32{id})...))
	return id
}

// AddName adds a debug name.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	b.debugNames = append(b.debugNames, inst(OpName, withString(name, []uint32{id})...))
}

// AddMemberName adds a debug member name.
func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	b.debugNames = append(b.debugNames, inst(OpMemberName, withString(name, []uint32{structID, member})...))
}

// AddDecorate adds a decoration.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	words := append([]uint32{id, uint32(decoration)}, params...)
	b.annotations = append(b.annotations, inst(OpDecorate, words...))
}

// AddDecorateString adds a string decoration such as UserSemantic.
func (b *ModuleBuilder) AddDecorateString(id uint32, decoration Decoration, value string) {
	words := withString(value, []uint32{id, uint32(decoration)})
	b.annotations = append(b.annotations, inst(OpDecorateString, words...))
}

// AddMemberDecorate adds a member decoration.
func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	words := append([]uint32{structID, member, uint32(decoration)}, params...)
	b.annotations = append(b.annotations, inst(OpMemberDecorate, words...))
}

func (b *ModuleBuilder) addType(op OpCode, operands ...uint32) uint32 {
	id := b.AllocID()
	b.types = append(b.types, inst(op, append([]uint32{id}, operands...)...))
	return id
}

// AddTypeVoid adds OpTypeVoid.
func (b *ModuleBuilder) AddTypeVoid() uint32 { return b.addType(OpTypeVoid) }

// AddTypeBool adds OpTypeBool.
func (b *ModuleBuilder) AddTypeBool() uint32 { return b.addType(OpTypeBool) }

// AddTypeFloat adds OpTypeFloat.
func (b *ModuleBuilder) AddTypeFloat(width uint32) uint32 { return b.addType(OpTypeFloat, width) }

// AddTypeInt adds OpTypeInt.
func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) uint32 {
	var s uint32
	if signed {
		s = 1
	}
	return b.addType(OpTypeInt, width, s)
}

// AddTypeVector adds OpTypeVector.
func (b *ModuleBuilder) AddTypeVector(componentType, count uint32) uint32 {
	return b.addType(OpTypeVector, componentType, count)
}

// AddTypeMatrix adds OpTypeMatrix.
func (b *ModuleBuilder) AddTypeMatrix(columnType, columnCount uint32) uint32 {
	return b.addType(OpTypeMatrix, columnType, columnCount)
}

// AddTypeImage adds OpTypeImage with an unknown format. sampled is 1 for
// textures and 2 for storage images.
func (b *ModuleBuilder) AddTypeImage(sampledType uint32, dim Dim, arrayed bool, sampled uint32) uint32 {
	var a uint32
	if arrayed {
		a = 1
	}
	return b.addType(OpTypeImage, sampledType, uint32(dim), 0, a, 0, sampled, 0)
}

// AddTypeSampler adds OpTypeSampler.
func (b *ModuleBuilder) AddTypeSampler() uint32 { return b.addType(OpTypeSampler) }

// AddTypeSampledImage adds OpTypeSampledImage.
func (b *ModuleBuilder) AddTypeSampledImage(imageType uint32) uint32 {
	return b.addType(OpTypeSampledImage, imageType)
}

// AddTypeArray adds OpTypeArray. length is the ID of a constant.
func (b *ModuleBuilder) AddTypeArray(elementType, length uint32) uint32 {
	return b.addType(OpTypeArray, elementType, length)
}

// AddTypeRuntimeArray adds OpTypeRuntimeArray.
func (b *ModuleBuilder) AddTypeRuntimeArray(elementType uint32) uint32 {
	return b.addType(OpTypeRuntimeArray, elementType)
}

// AddTypePointer adds OpTypePointer.
func (b *ModuleBuilder) AddTypePointer(storageClass StorageClass, baseType uint32) uint32 {
	return b.addType(OpTypePointer, uint32(storageClass), baseType)
}

// AddTypeFunction adds OpTypeFunction.
func (b *ModuleBuilder) AddTypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	return b.addType(OpTypeFunction, append([]uint32{returnType}, paramTypes...)...)
}

// AddTypeStruct adds OpTypeStruct.
func (b *ModuleBuilder) AddTypeStruct(memberTypes ...uint32) uint32 {
	return b.addType(OpTypeStruct, memberTypes...)
}

// AddConstant adds OpConstant.
func (b *ModuleBuilder) AddConstant(typeID uint32, values ...uint32) uint32 {
	id := b.AllocID()
	b.types = append(b.types, inst(OpConstant, append([]uint32{typeID, id}, values...)...))
	return id
}

// AddConstantFloat32 adds a 32-bit float constant.
func (b *ModuleBuilder) AddConstantFloat32(typeID uint32, value float32) uint32 {
	return b.AddConstant(typeID, math.Float32bits(value))
}

// AddVariable adds a global OpVariable.
func (b *ModuleBuilder) AddVariable(pointerType uint32, storageClass StorageClass) uint32 {
	id := b.AllocID()
	b.globalVars = append(b.globalVars, inst(OpVariable, pointerType, id, uint32(storageClass)))
	return id
}

// AddFunction adds a function definition.
func (b *ModuleBuilder) AddFunction(funcType, returnType uint32, control FunctionControl) uint32 {
	id := b.AllocID()
	b.functions = append(b.functions, inst(OpFunction, returnType, id, uint32(control), funcType))
	return id
}

// AddLabel adds a label.
func (b *ModuleBuilder) AddLabel() uint32 {
	id := b.AllocID()
	b.functions = append(b.functions, inst(OpLabel, id))
	return id
}

// AddOp appends a function body instruction with a result type and a
// fresh result ID, and returns that ID.
func (b *ModuleBuilder) AddOp(opcode OpCode, resultType uint32, operands ...uint32) uint32 {
	id := b.AllocID()
	b.functions = append(b.functions, inst(opcode, append([]uint32{resultType, id}, operands...)...))
	return id
}

// AddStatement appends a function body instruction without a result.
func (b *ModuleBuilder) AddStatement(opcode OpCode, operands ...uint32) {
	b.functions = append(b.functions, inst(opcode, operands...))
}

// AddReturn adds OpReturn.
func (b *ModuleBuilder) AddReturn() { b.AddStatement(OpReturn) }

// AddFunctionEnd adds OpFunctionEnd.
func (b *ModuleBuilder) AddFunctionEnd() { b.AddStatement(OpFunctionEnd) }

// Build generates the final SPIR-V binary.
func (b *ModuleBuilder) Build() []byte {
	sections := [][]Instruction{
		b.capabilities,
		b.extensions,
		b.extInstImports,
		nil,
		b.entryPoints,
		b.executionModes,
		b.debugStrings,
		b.debugNames,
		b.annotations,
		b.types,
		b.globalVars,
		b.functions,
	}
	if b.memoryModel != nil {
		sections[3] = []Instruction{*b.memoryModel}
	}

	words := []uint32{MagicNumber, versionToWord(b.version), b.generator, b.nextID, 0}
	for _, section := range sections {
		for _, i := range section {
			words = append(words, i.Encode()...)
		}
	}
	return wordsToBytes(words)
}

func wordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// versionToWord converts Version to SPIR-V word format.
func versionToWord(v Version) uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}
