// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command spvreflect prints the shader metadata of a SPIR-V module or a
// compiled .sks file.
//
// Usage:
//
//	spvreflect [-json] [-list] <file.spv|file.sks>
//
// SPIR-V input is reflected for each entry point and merged the same way
// skshaderc does it. For .sks input the stored metadata is printed, and
// -list adds one line per compiled stage.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/sksc"
	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/sks"
	"github.com/gogpu/sksc/spirv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("spvreflect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print JSON instead of YAML")
	list := fs.Bool("list", false, "list the compiled stages")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: spvreflect [-json] [-list] <file.spv|file.sks>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error reading file: %v\n", err)
		return 1
	}

	var (
		m      *meta.Meta
		stages []meta.StageBlob
	)
	if bytes.HasPrefix(data, []byte(sks.Magic)) {
		f, err := sks.Read(data)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		m, stages = f.Meta, f.Stages
	} else {
		mod, err := spirv.Parse(data)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		m, err = reflectSPIRV(mod)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "# SPIR-V %d.%d, generator 0x%08X, bound %d\n",
			mod.Version.Major, mod.Version.Minor, mod.Generator, mod.Bound)
	}

	if *list {
		for _, s := range stages {
			fmt.Fprintf(stdout, "# %-16s %d bytes\n", s.String(), len(s.Code))
		}
	}
	if *asJSON {
		err = m.WriteJSON(stdout)
	} else {
		err = m.WriteYAML(stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var errNoEntryPoints = errors.New("module has no vertex, fragment or compute entry points")

// reflectSPIRV merges the reflection of every supported entry point.
func reflectSPIRV(mod *spirv.Module) (*meta.Meta, error) {
	m := meta.New()
	found := false
	for _, ep := range mod.EntryPoints() {
		stage, ok := stageOf(ep.Model)
		if !ok {
			continue
		}
		if m.Name == "" {
			m.Name = ep.Name
		}
		meta.Merge(m, sksc.ReflectModule(mod, stage))
		found = true
	}
	if !found {
		return nil, errNoEntryPoints
	}
	m.Rehash()
	return m, nil
}

func stageOf(model spirv.ExecutionModel) (meta.Stage, bool) {
	switch model {
	case spirv.ExecutionModelVertex:
		return meta.StageVertex, true
	case spirv.ExecutionModelFragment:
		return meta.StagePixel, true
	case spirv.ExecutionModelGLCompute:
		return meta.StageCompute, true
	}
	return 0, false
}
