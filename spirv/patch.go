// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

// SetDecoration sets a single-operand decoration on id, replacing an
// existing one or adding a new OpDecorate to the annotation section.
func (m *Module) SetDecoration(id uint32, dec Decoration, value uint32) {
	for i := range m.Instructions {
		in := &m.Instructions[i]
		if in.Opcode == OpDecorate && len(in.Words) >= 2 && in.Words[0] == id && Decoration(in.Words[1]) == dec {
			in.Words = []uint32{id, uint32(dec), value}
			m.decorations[id][dec] = in.Words[2:]
			return
		}
	}

	words := []uint32{id, uint32(dec), value}
	m.insert(m.sectionEnd(isAnnotation, isDebugName), Instruction{Opcode: OpDecorate, Words: words})
	if m.decorations[id] == nil {
		m.decorations[id] = map[Decoration][]uint32{}
	}
	m.decorations[id][dec] = words[2:]
}

// SetName sets the debug name of id, replacing an existing OpName.
func (m *Module) SetName(id uint32, name string) {
	words := append([]uint32{id}, EncodeString(name)...)
	m.names[id] = name
	for i := range m.Instructions {
		in := &m.Instructions[i]
		if in.Opcode == OpName && len(in.Words) > 0 && in.Words[0] == id {
			in.Words = words
			return
		}
	}
	m.insert(m.sectionEnd(isDebugName, isPreamble), Instruction{Opcode: OpName, Words: words})
}

func isAnnotation(op OpCode) bool {
	return op == OpDecorate || op == OpMemberDecorate || op == OpDecorateString || op == OpMemberDecorateString
}

func isDebugName(op OpCode) bool {
	return op == OpName || op == OpMemberName || op == OpString || op == OpSource ||
		op == OpSourceExtension || op == OpModuleProcessed
}

func isPreamble(op OpCode) bool {
	return op == OpCapability || op == OpExtension || op == OpExtInstImport ||
		op == OpMemoryModel || op == OpEntryPoint || op == OpExecutionMode
}

// sectionEnd returns the index just past the last instruction of the
// section matched by primary, falling back to the end of the sections
// matched by before.
func (m *Module) sectionEnd(primary, before func(OpCode) bool) int {
	end := -1
	for i, in := range m.Instructions {
		if primary(in.Opcode) {
			end = i + 1
		}
	}
	if end >= 0 {
		return end
	}
	end = 0
	for i, in := range m.Instructions {
		if before(in.Opcode) || isPreamble(in.Opcode) {
			end = i + 1
		}
	}
	return end
}

func (m *Module) insert(at int, in Instruction) {
	m.Instructions = append(m.Instructions, Instruction{})
	copy(m.Instructions[at+1:], m.Instructions[at:])
	m.Instructions[at] = in
}
