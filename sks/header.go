// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sks

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// HeaderName returns the C identifier suffix for a header written to path:
// the base name without its last extension, with dots replaced by
// underscores.
func HeaderName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, ".", "_")
}

// WriteHeader writes data as a C header declaring sks_<name>.
func WriteHeader(w io.Writer, name string, data []byte) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#pragma once\n\nconst unsigned char sks_%s[%d] = {\n", name, len(data))
	for _, b := range data {
		fmt.Fprintf(bw, "%d,\n", b)
	}
	bw.WriteString("};\n")
	return bw.Flush()
}
