// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/gogpu/sksc"
	"github.com/gogpu/sksc/diag"
	"github.com/gogpu/sksc/meta"
)

// defaultConfigName is loaded from the working directory when -config is
// not given.
const defaultConfigName = "skshaderc.toml"

// errUsage reports that usage was printed and nothing should be compiled.
var errUsage = errors.New("usage")

// options is everything a run needs after flags and config are merged.
type options struct {
	settings sksc.Settings

	header     bool
	replaceExt bool
	force      bool
	watch      bool
	verbose    bool
	silence    diag.Silence
	outFolder  string
	jobs       int
	inputs     []string
}

type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error { *l = append(*l, v); return nil }

// parseArgs merges the defaults, the config file and the command line, in
// that order of increasing priority.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("skshaderc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	var (
		header     = fs.Bool("h", false, "write a C header instead of a binary .sks file")
		appendExt  = fs.Bool("e", false, "append .sks to the source name instead of replacing its extension")
		rowMajor   = fs.Bool("r", false, "row-major matrices")
		debug      = fs.Bool("d", false, "embed debug info and disable optimization")
		force      = fs.Bool("f", false, "recompile even if the output is up to date")
		silentInfo = fs.Bool("si", false, "don't print info")
		silentWarn = fs.Bool("sw", false, "don't print info or warnings")
		silent     = fs.Bool("s", false, "don't print anything")
		vsEntry    = fs.String("vs", "", "vertex shader entry point")
		psEntry    = fs.String("ps", "", "pixel shader entry point")
		csEntry    = fs.String("cs", "", "compute shader entry point")
		model      = fs.String("m", "", "shader model for native bytecode (default 5_0)")
		glVersion  = fs.Int("gl", 0, "desktop GLSL version (default 430)")
		outFolder  = fs.String("o", "", "output folder (default: next to the source)")
		targets    = fs.String("t", "", "targets: x hlsl, s spir-v, g glsl, e gles, w webgl (default xsgew)")
		watch      = fs.Bool("w", false, "watch the inputs and recompile on change")
		configPath = fs.String("config", "", "config file (default ./"+defaultConfigName+" if present)")
		verbose    = fs.Bool("v", false, "log tool invocations to stderr")
		jobs       = fs.Int("j", runtime.NumCPU(), "files compiled in parallel")
		includes   stringList
		defines    stringList
		optimize   = -1
	)
	fs.Var(&includes, "i", "add an include folder (repeatable)")
	fs.Var(&defines, "D", "define a macro NAME or NAME=VALUE (repeatable)")
	for level := 0; level <= 3; level++ {
		level := level
		set := func(string) error { optimize = level; return nil }
		fs.BoolFunc(fmt.Sprintf("o%d", level), fmt.Sprintf("optimization level %d (default 3)", level), set)
		fs.BoolFunc(fmt.Sprintf("O%d", level), fmt.Sprintf("same as -o%d", level), set)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errUsage
		}
		return nil, err
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return nil, errUsage
	}

	opts := &options{settings: sksc.DefaultSettings(), jobs: *jobs, inputs: fs.Args()}

	cfgFile := *configPath
	if cfgFile == "" {
		if _, err := os.Stat(defaultConfigName); err == nil {
			cfgFile = defaultConfigName
		}
	}
	if cfgFile != "" {
		cfg, err := loadConfig(cfgFile)
		if err != nil {
			return nil, err
		}
		if err := cfg.apply(opts); err != nil {
			return nil, fmt.Errorf("%s: %w", cfgFile, err)
		}
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["j"] {
		opts.jobs = *jobs
	}

	s := &opts.settings
	if *vsEntry != "" || *psEntry != "" || *csEntry != "" {
		s.VertexEntry, s.PixelEntry, s.ComputeEntry = *vsEntry, *psEntry, *csEntry
		s.Required = 0
		for stage, name := range map[meta.Stage]string{meta.StageVertex: *vsEntry, meta.StagePixel: *psEntry, meta.StageCompute: *csEntry} {
			if name != "" {
				s.Required |= stage
			}
		}
	}
	if *rowMajor {
		s.RowMajor = true
	}
	if *debug {
		s.Debug = true
	}
	if optimize >= 0 {
		s.Optimize = optimize
	}
	if *model != "" {
		s.ShaderModel = *model
	}
	if *glVersion != 0 {
		s.GLSLVersion = *glVersion
	}
	if *targets != "" {
		t, err := sksc.ParseTargets(*targets)
		if err != nil {
			return nil, err
		}
		s.Targets = t
	}
	s.IncludeFolders = append(s.IncludeFolders, expandPaths(includes)...)
	s.Defines = append(s.Defines, defines...)

	if *header {
		opts.header = true
	}
	if *appendExt {
		opts.replaceExt = false
	}
	if *outFolder != "" {
		opts.outFolder = expandPath(*outFolder)
	}
	opts.force = *force
	opts.watch = *watch
	opts.verbose = *verbose

	switch {
	case *silent:
		opts.silence = diag.SilenceAll
	case *silentWarn:
		opts.silence = diag.SilenceWarnings
	case *silentInfo:
		opts.silence = diag.SilenceInfo
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: skshaderc [options] files...

Compiles annotated HLSL shaders into .sks files holding SPIR-V, GLSL,
GLSL ES, WebGL and native HLSL bytecode along with their metadata.

Options:
  -r            Row-major matrices, column-major is default.
  -h            Write a C header with a byte array instead of a binary file.
  -e            Append .sks to the source file name. This is the default
                unless replace_extension is set in the config file.
  -s            Silent, no errors, warnings or info are printed.
  -sw           No info or warnings are printed.
  -si           No info is printed.
  -f            Recompile even if the output is newer than the source.
  -d            Embed debug info. This disables optimization.
  -o0 .. -o3    Optimization level. Default is 3.

  -vs name      Vertex entry point. Naming any entry point removes the
  -ps name      defaults for the others and makes the named ones
  -cs name      required. Defaults are 'vs', 'ps' and 'cs'.
  -m model      Shader model for native bytecode, default 5_0.

  -i folder     Add a folder to the #include search path.
  -D name=value Define a macro.
  -o folder     Output folder. Default is next to each source file.
  -gl version   Desktop GLSL version, default 430.
  -t targets    Languages to generate: 'x' native HLSL, 's' SPIR-V,
                'g' desktop GLSL, 'e' GLSL ES, 'w' WebGL. Default 'xsgew'.

  -w            Watch the inputs and recompile when they change.
  -v            Log tool invocations to stderr.
  -j n          Number of files compiled in parallel.
  -config file  Config file. Default is ./skshaderc.toml if present.

  files         Source files or glob patterns such as 'shaders/**.hlsl'.
`)
}
