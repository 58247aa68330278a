// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/sksc"
	"github.com/gogpu/sksc/diag"
	"github.com/gogpu/sksc/sks"
)

// shaderCompiler is the part of sksc.Compiler the builder uses.
type shaderCompiler interface {
	Compile(ctx context.Context, file, source string) (*sksc.Result, error)
}

// builder compiles source files to .sks or header files.
type builder struct {
	compiler shaderCompiler
	opts     *options

	// exeTime is the compiler's own modification time. Outputs older than
	// it are rebuilt.
	exeTime time.Time

	out     io.Writer
	profile *termenv.Profile

	// mu keeps one file's printed log together.
	mu sync.Mutex
}

// outputPath returns where the compiled form of src is written.
func (b *builder) outputPath(src string) string {
	dir := filepath.Dir(src)
	if b.opts.outFolder != "" {
		dir = b.opts.outFolder
	}
	name := filepath.Base(src)
	if b.opts.replaceExt {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	ext := ".sks"
	if b.opts.header {
		ext = ".h"
	}
	return filepath.Join(dir, name+ext)
}

// upToDate reports whether dst is newer than both src and the compiler.
func (b *builder) upToDate(src, dst string) bool {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return srcInfo.ModTime().Before(dstInfo.ModTime()) && b.exeTime.Before(dstInfo.ModTime())
}

// buildFile compiles one file. It reports whether the file compiled; the
// error return is for failures that should stop the whole run.
func (b *builder) buildFile(ctx context.Context, src string) (bool, error) {
	dst := b.outputPath(src)
	if !b.opts.force && b.upToDate(src, dst) {
		if b.opts.silence < diag.SilenceInfo {
			b.printf("File '%s' is already up-to-date, skipping...\n", src)
		}
		return true, nil
	}

	source, err := os.ReadFile(src)
	if err != nil {
		b.printf("Couldn't read file '%s'!\n", src)
		return false, nil
	}

	log := diag.New()
	log.Info("Compiling %s..", src)
	res, err := b.compiler.Compile(ctx, src, string(source))
	if res != nil {
		log.Append(res.Log)
	}

	ok := err == nil
	switch {
	case err == nil:
		if werr := b.write(dst, res); werr != nil {
			log.Error("Failed to write file! %s", dst)
			ok = false
		} else {
			log.Info("Compiled successfully to %s", dst)
		}
	case errors.Is(err, sksc.ErrFailed):
	default:
		log.Error("%v", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if perr := log.Print(b.out, src, diag.PrintOptions{Silence: b.opts.silence, Profile: b.profile}); perr != nil {
		return ok, perr
	}
	return ok, nil
}

// write stores the result as an .sks file or C header, creating the
// output folder as needed.
func (b *builder) write(dst string, res *sksc.Result) error {
	data := sks.Marshal(res.File())
	if b.opts.header {
		var buf bytes.Buffer
		if err := sks.WriteHeader(&buf, sks.HeaderName(dst), data); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// buildAll compiles files in parallel and returns how many failed.
func (b *builder) buildAll(ctx context.Context, files []string) (int, error) {
	var failed atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.jobs)
	for _, f := range files {
		f := f
		g.Go(func() error {
			ok, err := b.buildFile(ctx, f)
			if !ok {
				failed.Add(1)
			}
			return err
		})
	}
	err := g.Wait()
	return int(failed.Load()), err
}

func (b *builder) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}
