// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sksc

import (
	"fmt"
	"strings"

	"github.com/gogpu/sksc/glsl"
	"github.com/gogpu/sksc/glslang"
	"github.com/gogpu/sksc/hlsl"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/toolchain"
)

// Target is a set of output languages.
type Target uint8

// Output languages.
const (
	TargetHLSL Target = 1 << iota
	TargetSPIRV
	TargetGLSL
	TargetGLSLES
	TargetGLSLWeb

	TargetAll = TargetHLSL | TargetSPIRV | TargetGLSL | TargetGLSLES | TargetGLSLWeb
)

var targetChars = []struct {
	c      byte
	target Target
	lang   meta.Language
}{
	{'x', TargetHLSL, meta.LangHLSL},
	{'s', TargetSPIRV, meta.LangSPIRV},
	{'g', TargetGLSL, meta.LangGLSL},
	{'e', TargetGLSLES, meta.LangGLSLES},
	{'w', TargetGLSLWeb, meta.LangGLSLWeb},
}

// ParseTargets parses a target string such as "xsgew": x for native HLSL
// bytecode, s for SPIR-V, g for desktop GLSL, e for GLSL ES and w for
// WebGL.
func ParseTargets(s string) (Target, error) {
	var t Target
outer:
	for i := 0; i < len(s); i++ {
		for _, tc := range targetChars {
			if tc.c == s[i] {
				t |= tc.target
				continue outer
			}
		}
		return 0, fmt.Errorf("sksc: unknown target %q", s[i])
	}
	return t, nil
}

// Has reports whether t includes every target in x.
func (t Target) Has(x Target) bool { return t&x == x }

// String returns t in ParseTargets form.
func (t Target) String() string {
	var sb strings.Builder
	for _, tc := range targetChars {
		if t.Has(tc.target) {
			sb.WriteByte(tc.c)
		}
	}
	return sb.String()
}

// glslLanguages returns the GLSL dialects in t.
func (t Target) glslLanguages() []meta.Language {
	var out []meta.Language
	for _, tc := range targetChars[2:] {
		if t.Has(tc.target) {
			out = append(out, tc.lang)
		}
	}
	return out
}

// Tools holds the external tool command lines.
type Tools struct {
	GLSLang    string
	SPIRVOpt   string
	SPIRVCross string
	DXC        string
	FXC        string
}

// DefaultTools returns the tool names looked up on PATH.
func DefaultTools() Tools {
	return Tools{
		GLSLang:    toolchain.DefaultGLSLang,
		SPIRVOpt:   toolchain.DefaultSPIRVOpt,
		SPIRVCross: toolchain.DefaultSPIRVCross,
		DXC:        toolchain.DefaultDXC,
		FXC:        toolchain.DefaultFXC,
	}
}

// Settings configures a shader compile.
type Settings struct {
	// Entry point names per stage. An empty name skips the stage.
	VertexEntry  string
	PixelEntry   string
	ComputeEntry string

	// Required marks stages whose entry point must exist in the source.
	Required meta.Stage

	RowMajor bool
	Debug    bool

	// Optimize is the optimization level, 0 to 3.
	Optimize int

	// ShaderModel is the native bytecode model, as "5_0" or "6.0".
	ShaderModel string

	// GLSLVersion is the desktop GLSL version number.
	GLSLVersion int

	Targets Target

	IncludeFolders []string
	Defines        []string

	Tools Tools
}

// DefaultSettings returns settings that build every target from the
// "vs", "ps" and "cs" entry points.
func DefaultSettings() Settings {
	return Settings{
		VertexEntry:  "vs",
		PixelEntry:   "ps",
		ComputeEntry: "cs",
		Optimize:     3,
		ShaderModel:  "5_0",
		GLSLVersion:  430,
		Targets:      TargetAll,
		Tools:        DefaultTools(),
	}
}

// Entry returns the entry point name for stage.
func (s *Settings) Entry(stage meta.Stage) string {
	switch stage {
	case meta.StageVertex:
		return s.VertexEntry
	case meta.StagePixel:
		return s.PixelEntry
	case meta.StageCompute:
		return s.ComputeEntry
	}
	return ""
}

// Validate checks the fields that select tool behavior.
func (s *Settings) Validate() error {
	if s.Optimize < 0 || s.Optimize > 3 {
		return fmt.Errorf("sksc: optimization level %d out of range 0..3", s.Optimize)
	}
	if _, err := glsl.ParseVersion(s.GLSLVersion); err != nil {
		return err
	}
	if s.Targets.Has(TargetHLSL) {
		if _, err := hlsl.ParseShaderModel(s.ShaderModel); err != nil {
			return err
		}
	}
	return nil
}

func (s *Settings) glslangOptions() glslang.Options {
	return glslang.Options{
		IncludeFolders: s.IncludeFolders,
		Defines:        s.Defines,
		RowMajor:       s.RowMajor,
		Debug:          s.Debug,
		Optimize:       s.Optimize,
	}
}

func (s *Settings) nativeOptions() hlsl.Options {
	sm, _ := hlsl.ParseShaderModel(s.ShaderModel)
	return hlsl.Options{
		ShaderModel:    sm,
		IncludeFolders: s.IncludeFolders,
		Defines:        s.Defines,
		RowMajor:       s.RowMajor,
		Debug:          s.Debug,
		Optimize:       s.Optimize,
		DXC:            s.Tools.DXC,
		FXC:            s.Tools.FXC,
	}
}
