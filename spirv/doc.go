// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spirv reads, reflects and patches SPIR-V binaries.
//
// SPIR-V is the pivot format of the shader pipeline: HLSL is compiled to
// SPIR-V one stage at a time, the SPIR-V is reflected into shader metadata,
// and the same words are patched and handed to the GLSL cross-compiler.
//
// # Parsing and Reflection
//
// Parse decodes a binary into a Module that keeps every instruction in
// order and indexes names, decorations, types and global variables:
//
//	module, err := spirv.Parse(code)
//	if err != nil {
//		return err
//	}
//	for _, ub := range module.Resources().UniformBuffers {
//		size := module.DeclaredStructSize(ub.TypeID)
//		...
//	}
//
// Resources classifies variables the way graphics APIs bind them: uniform
// buffers, storage buffers, separate images and samplers, storage images,
// and the non built-in stage inputs and outputs. StructMembers and
// DeclaredStructSize report block layouts from Offset, ArrayStride and
// MatrixStride decorations.
//
// # Patching
//
// SetDecoration and SetName rewrite a parsed module in place; Bytes
// re-encodes it. They are used to force binding slots and rename stage
// IO before cross-compilation.
//
// # Binary Writer
//
// ModuleBuilder constructs modules programmatically, section by section:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_0)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//	floatType := builder.AddTypeFloat(32)
//	vec4Type := builder.AddTypeVector(floatType, 4)
//	binary := builder.Build()
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
