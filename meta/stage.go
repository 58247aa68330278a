// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package meta

// Language identifies the code format of a compiled stage.
type Language int32

// Stage code languages.
const (
	LangHLSL Language = iota
	LangSPIRV
	LangGLSL
	LangGLSLES
	LangGLSLWeb
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case LangHLSL:
		return "hlsl"
	case LangSPIRV:
		return "spirv"
	case LangGLSL:
		return "glsl"
	case LangGLSLES:
		return "glsl_es"
	case LangGLSLWeb:
		return "glsl_web"
	default:
		return "unknown"
	}
}

// StageBlob is one compiled stage in one language. Code holds SPIR-V words
// in little-endian byte order, GLSL text with a trailing NUL, or native
// bytecode.
type StageBlob struct {
	Language Language
	Stage    Stage
	Code     []byte
}

// String returns "language/stage".
func (b StageBlob) String() string {
	return b.Language.String() + "/" + b.Stage.String()
}
