// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// pattern is one input argument: a plain file or a glob.
type pattern struct {
	arg  string
	root string    // directory to walk, for globs
	g    glob.Glob // nil for plain files
}

const globChars = "*?[{"

// parsePattern compiles arg. Globs use '/' as the separator, so "*" stays
// within one directory and "**" crosses directories.
func parsePattern(arg string) (pattern, error) {
	slashed := strings.TrimPrefix(filepath.ToSlash(arg), "./")
	if !strings.ContainsAny(slashed, globChars) {
		return pattern{arg: arg}, nil
	}
	g, err := glob.Compile(slashed, '/')
	if err != nil {
		return pattern{}, fmt.Errorf("bad pattern %q: %w", arg, err)
	}

	// Walk from the deepest directory without glob characters.
	root := "."
	if i := strings.IndexAny(slashed, globChars); i > 0 {
		if j := strings.LastIndex(slashed[:i], "/"); j >= 0 {
			root = slashed[:j]
			if root == "" {
				root = "/"
			}
		}
	}
	return pattern{arg: arg, root: filepath.FromSlash(root), g: g}, nil
}

// Match reports whether path is selected by p.
func (p pattern) Match(path string) bool {
	if p.g == nil {
		return filepath.Clean(path) == filepath.Clean(p.arg)
	}
	return p.g.Match(filepath.ToSlash(filepath.Clean(path)))
}

// expandInputs resolves the input arguments to a sorted list of files.
// A plain file that does not exist is an error; a glob that matches
// nothing is not.
func expandInputs(args []string) ([]string, []pattern, error) {
	seen := map[string]bool{}
	var files []string
	var patterns []pattern
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		p, err := parsePattern(arg)
		if err != nil {
			return nil, nil, err
		}
		patterns = append(patterns, p)

		if p.g == nil {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, nil, err
			}
			if info.IsDir() {
				return nil, nil, fmt.Errorf("%s is a directory", arg)
			}
			add(arg)
			continue
		}

		err = filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && p.Match(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
	}
	sort.Strings(files)
	return files, patterns, nil
}

// matchAny reports whether any pattern selects path.
func matchAny(patterns []pattern, path string) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}
