// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

// OpStats counts the executable instructions in a module's function bodies.
type OpStats struct {
	Total       int
	TexRead     int
	DynamicFlow int
}

// CountOps walks every function body. Structural instructions such as
// labels, parameters, merges and local variables do not count toward
// Total; texture reads and conditional branches are counted separately.
func (m *Module) CountOps() OpStats {
	var s OpStats
	inFunction := false
	for _, in := range m.Instructions {
		switch in.Opcode {
		case OpFunction:
			inFunction = true
			continue
		case OpFunctionEnd:
			inFunction = false
			continue
		}
		if !inFunction {
			continue
		}

		switch in.Opcode {
		case OpFunctionParameter, OpLabel, OpVariable, OpLine, OpNoLine,
			OpSelectionMerge, OpLoopMerge, OpNop:
			continue
		case OpImageSampleImplicitLod, OpImageSampleExplicitLod,
			OpImageSampleDrefImplicit, OpImageSampleDrefExplicit,
			OpImageSampleProjImplicit, OpImageSampleProjExplicit,
			OpImageSampleProjDrefImpl, OpImageSampleProjDrefExpl,
			OpImageFetch, OpImageGather, OpImageDrefGather, OpImageRead:
			s.TexRead++
		case OpBranchConditional, OpSwitch:
			s.DynamicFlow++
		}
		s.Total++
	}
	return s
}
