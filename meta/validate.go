// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package meta

// ValidateBindings reports whether every constant buffer occupies a distinct
// slot. It does not modify m or log anything.
func ValidateBindings(m *Meta) bool {
	for i := range m.Buffers {
		for j := range m.Buffers {
			if i != j && m.Buffers[i].Bind.Slot == m.Buffers[j].Bind.Slot {
				return false
			}
		}
	}
	return true
}
