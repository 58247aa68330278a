// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/sksc/annotate"
	"github.com/gogpu/sksc/diag"
	"github.com/gogpu/sksc/internal/logging"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/spirv"
	"github.com/gogpu/sksc/toolchain"
)

// Names and header lines device layers depend on.
const (
	externalTag     = "external"
	externalSampler = "samplerExternalOES"

	extGPUShader5    = "#extension GL_EXT_gpu_shader5 : enable"
	extExternalESSL3 = "#extension GL_OES_EGL_image_external_essl3 : enable"
	layerDefine      = "#define gl_Layer int _dummy_gl_layer_var"

	combinedPrefix = "SPIRV_Cross_Combined"
	dummySampler   = "SPIRV_Cross_DummySampler"

	vertexOutputPrefix = "@entryPointOutput."
	pixelInputPrefix   = "input."
	linkPrefix         = "fs_"
	maxLinkName        = 63

	exceptionPrefix = "SPIRV-Cross threw an exception:"
)

var combinedName = regexp.MustCompile(`\b` + combinedPrefix + `\w+`)

// Emitter cross-compiles SPIR-V stages to GLSL dialects with spirv-cross.
type Emitter struct {
	Runner toolchain.Runner
	Options
}

// New returns an Emitter. Zero option fields take their defaults.
func New(runner toolchain.Runner, opts Options) *Emitter {
	def := DefaultOptions()
	if opts.Version.Major == 0 {
		opts.Version = def.Version
	}
	if opts.Tool == "" {
		opts.Tool = def.Tool
	}
	return &Emitter{Runner: runner, Options: opts}
}

// Emit converts one SPIR-V stage to GLSL source for lang. m supplies the
// canonical buffer slots and items the per-variable annotation tags.
//
// Cross-compile failures are logged as a single error and reported with
// ok == false; the error return is reserved for problems running the tool.
// The returned code is NUL terminated.
func (e *Emitter) Emit(ctx context.Context, stage meta.StageBlob, lang meta.Language, m *meta.Meta, items []annotate.Item, log *diag.Log) (meta.StageBlob, bool, error) {
	ver, err := Dialect(lang, e.Version)
	if err != nil {
		return meta.StageBlob{}, false, err
	}
	mod, err := spirv.Parse(stage.Code)
	if err != nil {
		log.Error("[SPIRV-Cross] %v", err)
		return meta.StageBlob{}, false, nil
	}

	res := mod.Resources()
	bindBuffers(mod, res, m)
	renameStageIO(mod, res, stage.Stage)

	p := postProcess{
		vertex:   stage.Stage == meta.StageVertex,
		combined: combinedNames(mod, res),
	}
	for _, img := range res.SeparateImages {
		name := resourceName(img)
		if it, ok := annotate.Find(items, name); ok && annotate.HasTag(it.Tag, externalTag) {
			p.external = append(p.external, name)
		}
	}
	p.externalExt = len(p.external) > 0 && lang == meta.LangGLSLES

	work, err := toolchain.NewWorkDir("sksc-glsl-*")
	if err != nil {
		return meta.StageBlob{}, false, fmt.Errorf("glsl: %w", err)
	}
	defer work.Remove()

	in, out := work.Path("stage.spv"), work.Path("stage.glsl")
	if err := os.WriteFile(in, mod.Bytes(), 0o644); err != nil {
		return meta.StageBlob{}, false, fmt.Errorf("glsl: %w", err)
	}

	logging.Logger().Debug("glsl: cross-compiling", "stage", stage.Stage, "dialect", lang, "version", ver)
	run, err := e.Runner.Run(ctx, toolchain.Command{Tool: e.Tool, Args: crossArgs(in, out, ver)})
	if err != nil {
		return meta.StageBlob{}, false, err
	}
	if run.ExitCode != 0 {
		log.Error("[SPIRV-Cross] %s", crossError(run))
		return meta.StageBlob{}, false, nil
	}
	src, err := os.ReadFile(out)
	if err != nil {
		log.Error("[SPIRV-Cross] no output produced")
		return meta.StageBlob{}, false, nil
	}

	text := p.apply(string(src))
	return meta.StageBlob{
		Language: lang,
		Stage:    stage.Stage,
		Code:     append([]byte(text), 0),
	}, true, nil
}

func crossArgs(in, out string, ver Version) []string {
	args := []string{in, "--output", out, "--version", strconv.Itoa(ver.Number())}
	if ver.ES {
		args = append(args, "--es", "--no-support-nonzero-baseinstance")
	} else {
		args = append(args, "--no-es")
	}
	return append(args, "--build-dummy-sampler", "--combined-samplers-inherit-bindings")
}

func crossError(out toolchain.Output) string {
	msg := strings.TrimSpace(out.Combined())
	msg = strings.TrimSpace(strings.TrimPrefix(msg, exceptionPrefix))
	if msg == "" {
		msg = "exit code " + strconv.Itoa(out.ExitCode)
	}
	return msg
}

// bindBuffers forces every uniform buffer to the slot the merged metadata
// assigned it, so independently compiled stages agree.
func bindBuffers(mod *spirv.Module, res spirv.Resources, m *meta.Meta) {
	for _, ub := range res.UniformBuffers {
		for _, b := range m.Buffers {
			if meta.BufferNamesEqual(ub.Name, b.Name) {
				mod.SetDecoration(ub.ID, spirv.DecorationBinding, uint32(b.Bind.Slot))
				break
			}
		}
	}
}

// renameStageIO gives vertex outputs and pixel inputs matching fs_ names.
func renameStageIO(mod *spirv.Module, res spirv.Resources, stage meta.Stage) {
	var vars []spirv.Resource
	var prefix string
	switch stage {
	case meta.StageVertex:
		vars, prefix = res.StageOutputs, vertexOutputPrefix
	case meta.StagePixel:
		vars, prefix = res.StageInputs, pixelInputPrefix
	default:
		return
	}
	for _, v := range vars {
		name := linkPrefix + strings.TrimPrefix(v.Name, prefix)
		mod.SetName(v.ID, annotate.Clip(name, maxLinkName))
	}
}

// combinedNames maps the names spirv-cross gives combined image samplers
// back to the image name.
func combinedNames(mod *spirv.Module, res spirv.Resources) map[string]string {
	samplers := []string{dummySampler}
	for _, s := range res.SeparateSamplers {
		samplers = append(samplers, resourceName(s))
	}
	names := map[string]string{}
	for _, img := range res.SeparateImages {
		name := resourceName(img)
		for _, s := range samplers {
			names[combinedPrefix+name+s] = name
		}
	}
	return names
}

// resourceName is the name spirv-cross uses for a variable.
func resourceName(r spirv.Resource) string {
	if r.Name != "" {
		return r.Name
	}
	return "_" + strconv.FormatUint(uint64(r.ID), 10)
}

// postProcess holds the rewrites applied to spirv-cross output.
type postProcess struct {
	vertex      bool
	externalExt bool
	external    []string
	combined    map[string]string
}

func (p postProcess) apply(src string) string {
	src = combinedName.ReplaceAllStringFunc(src, func(s string) string {
		if name, ok := p.combined[s]; ok {
			return name
		}
		return s
	})
	for _, name := range p.external {
		re := regexp.MustCompile(`\bsampler2D(\s+` + regexp.QuoteMeta(name) + `\s*;)`)
		src = re.ReplaceAllString(src, externalSampler+"$1")
	}
	return insertHeader(src, p.headerLines())
}

func (p postProcess) headerLines() []string {
	lines := []string{extGPUShader5}
	if p.externalExt {
		lines = append(lines, extExternalESSL3)
	}
	if p.vertex {
		lines = append(lines, layerDefine)
	}
	return lines
}

// insertHeader places header lines after the #version directive and any
// #extension lines that follow it.
func insertHeader(src string, header []string) string {
	lines := strings.Split(src, "\n")
	at := 0
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "#version") {
			at = i + 1
			break
		}
	}
	for at < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[at]), "#extension") {
		at++
	}
	out := make([]string, 0, len(lines)+len(header))
	out = append(out, lines[:at]...)
	out = append(out, header...)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n")
}
