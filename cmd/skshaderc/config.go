// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/sksc"
	"github.com/gogpu/sksc/diag"
)

// config is the skshaderc.toml file. Every field is optional; command
// line flags override it.
//
//	include_folders = ["~/src/engine/shaders"]
//	defines         = ["SK_MULTIVIEW=1"]
//	output_folder   = "build/shaders"
//	targets         = "sgew"
//	shader_model    = "6_0"
//	glsl_version    = 450
//	optimize        = 2
//
//	[tools]
//	glslang     = "~/VulkanSDK/bin/glslangValidator"
//	spirv_cross = "spirv-cross"
type config struct {
	IncludeFolders   []string `toml:"include_folders"`
	Defines          []string `toml:"defines"`
	OutputFolder     string   `toml:"output_folder"`
	Targets          string   `toml:"targets"`
	ShaderModel      string   `toml:"shader_model"`
	GLSLVersion      int      `toml:"glsl_version"`
	Optimize         *int     `toml:"optimize"`
	RowMajor         bool     `toml:"row_major"`
	Debug            bool     `toml:"debug"`
	Header           bool     `toml:"header"`
	ReplaceExtension bool     `toml:"replace_extension"`
	Silence          string   `toml:"silence"`
	Jobs             int      `toml:"jobs"`

	Tools struct {
		GLSLang    string `toml:"glslang"`
		SPIRVOpt   string `toml:"spirv_opt"`
		SPIRVCross string `toml:"spirv_cross"`
		DXC        string `toml:"dxc"`
		FXC        string `toml:"fxc"`
	} `toml:"tools"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// apply copies the set fields of c onto opts.
func (c *config) apply(opts *options) error {
	s := &opts.settings
	s.IncludeFolders = append(s.IncludeFolders, expandPaths(c.IncludeFolders)...)
	s.Defines = append(s.Defines, c.Defines...)
	if c.Targets != "" {
		t, err := sksc.ParseTargets(c.Targets)
		if err != nil {
			return err
		}
		s.Targets = t
	}
	if c.ShaderModel != "" {
		s.ShaderModel = c.ShaderModel
	}
	if c.GLSLVersion != 0 {
		s.GLSLVersion = c.GLSLVersion
	}
	if c.Optimize != nil {
		s.Optimize = *c.Optimize
	}
	s.RowMajor = s.RowMajor || c.RowMajor
	s.Debug = s.Debug || c.Debug

	tools := []struct {
		dst *string
		src string
	}{
		{&s.Tools.GLSLang, c.Tools.GLSLang},
		{&s.Tools.SPIRVOpt, c.Tools.SPIRVOpt},
		{&s.Tools.SPIRVCross, c.Tools.SPIRVCross},
		{&s.Tools.DXC, c.Tools.DXC},
		{&s.Tools.FXC, c.Tools.FXC},
	}
	for _, t := range tools {
		if t.src != "" {
			*t.dst = expandPath(t.src)
		}
	}

	if c.OutputFolder != "" {
		opts.outFolder = expandPath(c.OutputFolder)
	}
	opts.header = opts.header || c.Header
	opts.replaceExt = c.ReplaceExtension
	if c.Jobs > 0 {
		opts.jobs = c.Jobs
	}

	switch c.Silence {
	case "":
	case "none":
		opts.silence = diag.SilenceNone
	case "info":
		opts.silence = diag.SilenceInfo
	case "warnings":
		opts.silence = diag.SilenceWarnings
	case "all":
		opts.silence = diag.SilenceAll
	default:
		return fmt.Errorf("unknown silence level %q, want none, info, warnings or all", c.Silence)
	}
	return nil
}

// expandPath resolves a leading "~" to the user's home directory. Paths
// that cannot be expanded are returned unchanged.
func expandPath(p string) string {
	if out, err := homedir.Expand(p); err == nil {
		return out
	}
	return p
}

func expandPaths(ps []string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, expandPath(p))
	}
	return out
}
