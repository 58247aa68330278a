// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslang

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gogpu/sksc/diag"
)

var includeDirective = regexp.MustCompile(`^\s*#\s*include\s*(?:"([^"]*)"|<([^>]*)>)`)

// Includes inlines #include directives so the result can be fed to the
// compiler as a single string.
//
// Both quoted and angle-bracket includes are looked up locally: first next
// to the including file, then in each search folder in order. Every
// inlined file is wrapped in "#line N F" markers where F is the file's
// index in Files, so positions reported by the compiler can be traced back.
type Includes struct {
	// Folders are searched after the including file's own folder.
	Folders []string

	// Files lists the inlined files. Index 0 is the main source.
	Files []string

	active map[string]bool
}

// Expand returns source with all includes inlined. file is the path of the
// main source; only its folder is used. Unresolved and recursive includes
// are logged as errors and reported with ok == false.
func (inc *Includes) Expand(source, file string, log *diag.Log) (string, bool) {
	inc.Files = []string{file}
	inc.active = map[string]bool{}

	var sb strings.Builder
	ok := inc.expand(&sb, source, filepath.Dir(file), 0, log)
	return sb.String(), ok
}

// File returns the path for a file index, or "" for the main source and
// out-of-range indices.
func (inc *Includes) File(index int) string {
	if index <= 0 || index >= len(inc.Files) {
		return ""
	}
	return inc.Files[index]
}

func (inc *Includes) expand(sb *strings.Builder, source, dir string, index int, log *diag.Log) bool {
	ok := true
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		m := includeDirective.FindStringSubmatch(line)
		if m == nil {
			sb.WriteString(line)
			if i < len(lines)-1 {
				sb.WriteByte('\n')
			}
			continue
		}

		name := m[1]
		if name == "" {
			name = m[2]
		}
		row := i + 1
		path, found := inc.resolve(name, dir)
		switch {
		case !found:
			log.AddAt(diag.LevelError, row, diag.NoPosition, "%sCan't find include file '%s'", inc.prefix(index), name)
			ok = false
			sb.WriteByte('\n')
			continue
		case inc.active[path]:
			log.AddAt(diag.LevelError, row, diag.NoPosition, "%sRecursive include of '%s'", inc.prefix(index), name)
			ok = false
			sb.WriteByte('\n')
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.AddAt(diag.LevelError, row, diag.NoPosition, "%sCan't read include file '%s': %v", inc.prefix(index), name, err)
			ok = false
			sb.WriteByte('\n')
			continue
		}

		child := len(inc.Files)
		inc.Files = append(inc.Files, path)
		inc.active[path] = true
		fmt.Fprintf(sb, "#line 1 %d\n", child)
		if !inc.expand(sb, string(data), filepath.Dir(path), child, log) {
			ok = false
		}
		delete(inc.active, path)
		fmt.Fprintf(sb, "\n#line %d %d\n", row+1, index)
	}
	return ok
}

func (inc *Includes) resolve(name, dir string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, fileExists(name)
	}
	for _, d := range append([]string{dir}, inc.Folders...) {
		p := filepath.Clean(filepath.Join(d, name))
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
}

func (inc *Includes) prefix(index int) string {
	if f := inc.File(index); f != "" {
		return f + ": "
	}
	return ""
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
