// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package annotate extracts shader metadata from HLSL comments.
//
// Annotations are comment lines that start with "--" and follow the form
//
//	//--name                 = unlit/test
//	//--time: color          = 1,1,1,1
//	//--tex: 2D, external    = white
//	//--uv_scale: range(0,2) = 0.5
//
// where the text before ':' or '=' is the variable name, the text between
// ':' and '=' is a free-form tag list, and the text after '=' is a comma
// separated default value. Annotations may appear in // comments and on
// any line of a /* */ block.
package annotate

import (
	"strings"
	"unicode/utf8"
)

// Field size limits in bytes. Longer fields are truncated silently.
const (
	MaxNameLen  = 31
	MaxTagLen   = 63
	MaxValueLen = 511
)

// Item is one parsed annotation.
type Item struct {
	Name  string
	Tag   string
	Value string
	Row   int // 1-based line of the "--" marker
	Col   int // 1-based column of the "--" marker
}

// Find returns the first item with the given name.
func Find(items []Item, name string) (Item, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// HasTag reports whether tag appears as a token in a tag list. Tokens are
// separated by commas or spaces and compared case-sensitively.
func HasTag(tags, tag string) bool {
	for _, tok := range strings.FieldsFunc(tags, func(r rune) bool { return r == ',' || r == ' ' }) {
		if tok == tag {
			return true
		}
	}
	return false
}

// Clip truncates s to at most n bytes without splitting a UTF-8 sequence.
func Clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

func trim(s string) string {
	return strings.Trim(s, " \t")
}
