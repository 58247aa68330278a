// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl cross-compiles SPIR-V stages to GLSL with spirv-cross.
//
// Three dialects are produced, selected by meta.Language:
//
//   - glsl: desktop GLSL at a configurable version (4.30 by default)
//   - glsl_es: GLSL ES 3.20
//   - glsl_web: GLSL ES 3.00 for WebGL 2.0
//
// # Basic Usage
//
//	e := glsl.New(toolchain.ExecRunner{}, glsl.DefaultOptions())
//	blob, ok, err := e.Emit(ctx, spirvStage, meta.LangGLSLES, shaderMeta, annotations, log)
//
// # Naming Conventions
//
// The output follows the names device layers bind by:
//
//   - Uniform buffers take the slot recorded in the shader metadata, so
//     every stage agrees on one binding per buffer.
//   - Combined image samplers keep the name and binding of their texture.
//     Textures without a sampler are paired with a dummy sampler at set 0,
//     binding 0.
//   - Vertex outputs and pixel inputs are renamed to fs_<name>, dropping
//     the "@entryPointOutput." and "input." prefixes glslang generates.
//   - Textures annotated with the "external" tag use samplerExternalOES.
//
// Every shader enables GL_EXT_gpu_shader5, and vertex shaders define
// gl_Layer away since it is only valid in later stages.
package glsl
