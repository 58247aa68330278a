// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package sksc compiles annotated HLSL shaders for every graphics backend.
//
// A compile runs each stage through glslangValidator to SPIR-V, reflects
// the SPIR-V into one shared metadata model, applies the "--name: tag =
// value" comment annotations to it, and finally emits the requested
// targets:
//   - SPIR-V words for Vulkan
//   - GLSL, GLSL ES and WebGL source via spirv-cross
//   - DXBC or DXIL bytecode via fxc or dxc
//
// Example usage:
//
//	c, err := sksc.New(toolchain.ExecRunner{}, sksc.DefaultSettings())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := c.Compile(ctx, "unlit.hlsl", source)
//	res.Log.Print(os.Stderr, "unlit.hlsl", diag.PrintOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := sks.Marshal(res.File())
//
// Each Compile call owns its own diag.Log and meta.Meta, so separate
// shaders may be compiled concurrently with one Compiler.
package sksc

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/sksc/annotate"
	"github.com/gogpu/sksc/diag"
	"github.com/gogpu/sksc/glsl"
	"github.com/gogpu/sksc/glslang"
	"github.com/gogpu/sksc/hlsl"
	"github.com/gogpu/sksc/internal/logging"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/sks"
	"github.com/gogpu/sksc/toolchain"
)

// ErrFailed is returned when a shader stage failed to compile. The
// reasons are in the Result's log.
var ErrFailed = errors.New("sksc: shader failed to compile")

// StageCompiler compiles HLSL to SPIR-V for one stage.
type StageCompiler interface {
	Compile(ctx context.Context, file, source string, stage meta.Stage, entry string, log *diag.Log) ([]byte, toolchain.Result, error)
}

// Reflector extracts the resources a compiled SPIR-V stage uses.
type Reflector interface {
	Reflect(code []byte, stage meta.Stage) (*meta.Reflection, error)
}

// DialectEmitter converts a SPIR-V stage to a GLSL dialect.
type DialectEmitter interface {
	Emit(ctx context.Context, stage meta.StageBlob, lang meta.Language, m *meta.Meta, items []annotate.Item, log *diag.Log) (meta.StageBlob, bool, error)
}

// NativeCompiler compiles HLSL to native bytecode for one stage.
type NativeCompiler interface {
	Compile(ctx context.Context, file, source string, stage meta.Stage, entry string, log *diag.Log) (hlsl.Bytecode, toolchain.Result, error)
}

// Compiler runs the whole pipeline for one shader at a time.
type Compiler struct {
	Settings Settings

	Stage     StageCompiler
	Reflector Reflector
	Emitter   DialectEmitter

	// Native may be nil, which drops the HLSL target.
	Native NativeCompiler
}

// New returns a Compiler wired to the external tools through runner.
func New(runner toolchain.Runner, s Settings) (*Compiler, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	ver, _ := glsl.ParseVersion(s.GLSLVersion)
	tools := s.Tools
	def := DefaultTools()

	stage := glslang.New(runner, s.glslangOptions())
	stage.GLSLang = pick(tools.GLSLang, def.GLSLang)
	stage.SPIRVOpt = pick(tools.SPIRVOpt, def.SPIRVOpt)

	c := &Compiler{
		Settings:  s,
		Stage:     stage,
		Reflector: SPIRVReflector{},
		Emitter:   glsl.New(runner, glsl.Options{Version: ver, Tool: tools.SPIRVCross}),
	}
	if s.Targets.Has(TargetHLSL) {
		c.Native = hlsl.New(runner, s.nativeOptions())
	}
	return c, nil
}

func pick(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Result is the output of one shader compile.
type Result struct {
	Meta   *meta.Meta
	Stages []meta.StageBlob
	Log    *diag.Log
}

// File returns the result as an .sks file.
func (r *Result) File() *sks.File {
	return &sks.File{Meta: r.Meta, Stages: r.Stages}
}

type compiledStage struct {
	stage  meta.Stage
	spirv  []byte
	native []byte
}

// Compile compiles one shader source. file names the source for include
// lookup and diagnostics.
//
// The pipeline is:
//  1. Scan the comment annotations
//  2. Compile each stage with an entry point to SPIR-V and reflect it
//  3. Compile each stage to native bytecode if the HLSL target is set
//  4. Apply annotations and check buffer slots
//  5. Emit the requested GLSL dialects
//
// A stage whose entry point is missing is skipped unless it is required.
// When any stage fails Compile returns ErrFailed and no stage blobs;
// other errors come from running the tools. The Result and its Log are
// returned in every case.
func (c *Compiler) Compile(ctx context.Context, file, source string) (*Result, error) {
	log := diag.New()
	res := &Result{Meta: meta.New(), Log: log}
	s := &c.Settings

	logging.Logger().Debug("sksc: compiling", "file", file, "targets", s.Targets.String())

	items := annotate.Scan(source, log)

	var compiled []compiledStage
	failed := false
	for _, stage := range meta.Stages {
		entry := s.Entry(stage)
		if entry == "" {
			continue
		}

		code, result, err := c.Stage.Compile(ctx, file, source, stage, entry, log)
		if err != nil {
			return res, fmt.Errorf("sksc: %v stage: %w", stage, err)
		}
		switch result {
		case toolchain.Skip:
			if s.Required&stage != 0 {
				log.Error("Couldn't find required %s entry point '%s'", stage, entry)
				failed = true
			}
			logging.Logger().Debug("sksc: stage skipped", "file", file, "stage", stage.String())
			continue
		case toolchain.Fail:
			failed = true
			continue
		}

		refl, err := c.Reflector.Reflect(code, stage)
		if err != nil {
			log.Error("%v", err)
			failed = true
			continue
		}
		meta.Merge(res.Meta, refl)

		cs := compiledStage{stage: stage, spirv: code}
		if s.Targets.Has(TargetHLSL) && c.Native != nil {
			native, ok, err := c.compileNative(ctx, file, source, stage, entry, res)
			if err != nil {
				return res, err
			}
			failed = failed || !ok
			cs.native = native
		}
		compiled = append(compiled, cs)
	}

	if failed {
		return res, ErrFailed
	}
	if len(compiled) == 0 {
		log.Error("No shader entry points found, looked for '%s', '%s' and '%s'", s.VertexEntry, s.PixelEntry, s.ComputeEntry)
		return res, ErrFailed
	}

	meta.ApplyAnnotations(res.Meta, items, log)
	if !meta.ValidateBindings(res.Meta) {
		log.Warn("Found constant buffers re-using slot ids")
	}

	for _, cs := range compiled {
		if cs.native != nil {
			res.Stages = append(res.Stages, meta.StageBlob{Language: meta.LangHLSL, Stage: cs.stage, Code: cs.native})
		}
		spv := meta.StageBlob{Language: meta.LangSPIRV, Stage: cs.stage, Code: cs.spirv}
		if s.Targets.Has(TargetSPIRV) {
			res.Stages = append(res.Stages, spv)
		}
		for _, lang := range s.Targets.glslLanguages() {
			if !c.dialectSupports(lang, cs.stage) {
				continue
			}
			out, ok, err := c.Emitter.Emit(ctx, spv, lang, res.Meta, items, log)
			if err != nil {
				return res, fmt.Errorf("sksc: %v %v: %w", lang, cs.stage, err)
			}
			if ok {
				res.Stages = append(res.Stages, out)
			}
		}
	}

	logging.Logger().Debug("sksc: compiled", "file", file, "stages", len(res.Stages),
		"buffers", len(res.Meta.Buffers), "resources", len(res.Meta.Resources))
	return res, nil
}

// compileNative builds the bytecode for one stage and merges the listing
// reflection. A missing native compiler only drops the HLSL output.
func (c *Compiler) compileNative(ctx context.Context, file, source string, stage meta.Stage, entry string, res *Result) ([]byte, bool, error) {
	bc, result, err := c.Native.Compile(ctx, file, source, stage, entry, res.Log)
	var terr *toolchain.Error
	if errors.As(err, &terr) && terr.IsToolNotFound() {
		logging.Logger().Warn("sksc: native compiler not found, skipping bytecode", "tool", terr.Tool)
		res.Log.Warn("Native compiler '%s' not found, skipping %s bytecode", terr.Tool, stage)
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sksc: %v bytecode: %w", stage, err)
	}
	switch result {
	case toolchain.Fail:
		return nil, false, nil
	case toolchain.Skip:
		return nil, true, nil
	}
	if bc.Reflection != nil {
		meta.Merge(res.Meta, bc.Reflection)
	}
	return bc.Code, true, nil
}

func (c *Compiler) dialectSupports(lang meta.Language, stage meta.Stage) bool {
	if stage != meta.StageCompute {
		return true
	}
	ver, _ := glsl.ParseVersion(c.Settings.GLSLVersion)
	if v, err := glsl.Dialect(lang, ver); err == nil {
		return v.SupportsCompute()
	}
	return false
}
