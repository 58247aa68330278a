// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator

	headerWords = 5
)

// Capability represents a SPIR-V capability.
type Capability uint32

// Common capabilities
const (
	CapabilityMatrix  Capability = 0
	CapabilityShader  Capability = 1
	CapabilityFloat64 Capability = 10
	CapabilityInt64   Capability = 11
	CapabilityInt16   Capability = 22
	CapabilityInt8    Capability = 39
)

// AddressingModel represents a SPIR-V addressing model.
type AddressingModel uint32

// Addressing models
const (
	AddressingModelLogical AddressingModel = 0
)

// MemoryModel represents a SPIR-V memory model.
type MemoryModel uint32

// Memory models
const (
	MemoryModelGLSL450 MemoryModel = 1
)

// ExecutionModel represents a shader stage.
type ExecutionModel uint32

// Execution models
const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// ExecutionMode represents a SPIR-V execution mode.
type ExecutionMode uint32

// Execution modes
const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeLocalSize       ExecutionMode = 17
)

// FunctionControl is the function control mask of OpFunction.
type FunctionControl uint32

// Function controls
const (
	FunctionControlNone FunctionControl = 0
)

// SelectionControl is the control mask of OpSelectionMerge.
type SelectionControl uint32

// Selection controls
const (
	SelectionControlNone SelectionControl = 0
)

// LoopControl is the control mask of OpLoopMerge.
type LoopControl uint32

// Loop controls
const (
	LoopControlNone LoopControl = 0
)

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

// Storage classes
const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassPushConstant    StorageClass = 9
	StorageClassStorageBuffer   StorageClass = 12
)

// Dim is the dimensionality of an image type.
type Dim uint32

// Image dimensions
const (
	Dim1D     Dim = 0
	Dim2D     Dim = 1
	Dim3D     Dim = 2
	DimCube   Dim = 3
	DimBuffer Dim = 5
)

// ImageSampled values of OpTypeImage.
const (
	ImageSampledUnknown = 0
	ImageSampledYes     = 1
	ImageStorage        = 2
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes
const (
	OpNop                     OpCode = 0
	OpSource                  OpCode = 3
	OpSourceExtension         OpCode = 4
	OpName                    OpCode = 5
	OpMemberName              OpCode = 6
	OpString                  OpCode = 7
	OpLine                    OpCode = 8
	OpExtension               OpCode = 10
	OpExtInstImport           OpCode = 11
	OpExtInst                 OpCode = 12
	OpMemoryModel             OpCode = 14
	OpEntryPoint              OpCode = 15
	OpExecutionMode           OpCode = 16
	OpCapability              OpCode = 17
	OpTypeVoid                OpCode = 19
	OpTypeBool                OpCode = 20
	OpTypeInt                 OpCode = 21
	OpTypeFloat               OpCode = 22
	OpTypeVector              OpCode = 23
	OpTypeMatrix              OpCode = 24
	OpTypeImage               OpCode = 25
	OpTypeSampler             OpCode = 26
	OpTypeSampledImage        OpCode = 27
	OpTypeArray               OpCode = 28
	OpTypeRuntimeArray        OpCode = 29
	OpTypeStruct              OpCode = 30
	OpTypePointer             OpCode = 32
	OpTypeFunction            OpCode = 33
	OpConstantTrue            OpCode = 41
	OpConstantFalse           OpCode = 42
	OpConstant                OpCode = 43
	OpConstantComposite       OpCode = 44
	OpFunction                OpCode = 54
	OpFunctionParameter       OpCode = 55
	OpFunctionEnd             OpCode = 56
	OpFunctionCall            OpCode = 57
	OpVariable                OpCode = 59
	OpLoad                    OpCode = 61
	OpStore                   OpCode = 62
	OpAccessChain             OpCode = 65
	OpDecorate                OpCode = 71
	OpMemberDecorate          OpCode = 72
	OpVectorShuffle           OpCode = 79
	OpCompositeConstruct      OpCode = 80
	OpCompositeExtract        OpCode = 81
	OpSampledImage            OpCode = 86
	OpImageSampleImplicitLod  OpCode = 87
	OpImageSampleExplicitLod  OpCode = 88
	OpImageSampleDrefImplicit OpCode = 89
	OpImageSampleDrefExplicit OpCode = 90
	OpImageSampleProjImplicit OpCode = 91
	OpImageSampleProjExplicit OpCode = 92
	OpImageSampleProjDrefImpl OpCode = 93
	OpImageSampleProjDrefExpl OpCode = 94
	OpImageFetch              OpCode = 95
	OpImageGather             OpCode = 96
	OpImageDrefGather         OpCode = 97
	OpImageRead               OpCode = 98
	OpImageWrite              OpCode = 99
	OpFAdd                    OpCode = 129
	OpFMul                    OpCode = 133
	OpSelect                  OpCode = 169
	OpPhi                     OpCode = 245
	OpLoopMerge               OpCode = 246
	OpSelectionMerge          OpCode = 247
	OpLabel                   OpCode = 248
	OpBranch                  OpCode = 249
	OpBranchConditional       OpCode = 250
	OpSwitch                  OpCode = 251
	OpKill                    OpCode = 252
	OpReturn                  OpCode = 253
	OpReturnValue             OpCode = 254
	OpNoLine                  OpCode = 317
	OpModuleProcessed         OpCode = 330
	OpDecorateString          OpCode = 5632
	OpMemberDecorateString    OpCode = 5633
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Decorations
const (
	DecorationBlock         Decoration = 2
	DecorationBufferBlock   Decoration = 3
	DecorationRowMajor      Decoration = 4
	DecorationColMajor      Decoration = 5
	DecorationArrayStride   Decoration = 6
	DecorationMatrixStride  Decoration = 7
	DecorationBuiltIn       Decoration = 11
	DecorationNonWritable   Decoration = 24
	DecorationNonReadable   Decoration = 25
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
	DecorationUserSemantic  Decoration = 5635
)

// BuiltIn identifies a built-in variable.
type BuiltIn uint32

// Built-ins
const (
	BuiltInPosition    BuiltIn = 0
	BuiltInPointSize   BuiltIn = 1
	BuiltInLayer       BuiltIn = 9
	BuiltInFragCoord   BuiltIn = 15
	BuiltInFragDepth   BuiltIn = 22
	BuiltInVertexIndex BuiltIn = 42
)
