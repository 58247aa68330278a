// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package annotate

import (
	"strings"

	"github.com/gogpu/sksc/diag"
)

// Scan returns every annotation in source, in source order. Lines that start
// with "--" but carry neither a tag nor a value are kept and reported as
// warnings on log, which may be nil. Scan never fails.
func Scan(source string, log *diag.Log) []Item {
	s := newScanner(source)
	var items []Item
	for {
		start, end, ok := s.nextCommentLine()
		if !ok {
			break
		}
		it, ok := s.parseLine(start, end)
		if !ok {
			continue
		}
		items = append(items, it)
		if it.Tag == "" && it.Value == "" && log != nil {
			log.WarnAt(it.Row, it.Col, "Shader var data for '%s' has no tag or value, missing a ':' or '='?", it.Name)
		}
	}
	return items
}

// scanner walks comment text one line at a time. Inside a block comment
// each following line is its own scan region until "*/" closes it.
type scanner struct {
	source  string
	pos     int
	inBlock bool
}

func newScanner(source string) *scanner {
	return &scanner{source: source}
}

// nextCommentLine returns the byte range of the next line of comment text.
func (s *scanner) nextCommentLine() (start, end int, ok bool) {
	src := s.source
	if s.inBlock {
		start = s.pos
		for start < len(src) && (src[start] == '\n' || src[start] == '\r') {
			start++
		}
		if start >= len(src) {
			return 0, 0, false
		}
	} else {
		i := s.pos
		for ; i+1 < len(src); i++ {
			if src[i] == '/' && (src[i+1] == '/' || src[i+1] == '*') {
				break
			}
		}
		if i+1 >= len(src) {
			return 0, 0, false
		}
		s.inBlock = src[i+1] == '*'
		start = i + 2
	}

	end = start
	for end < len(src) && src[end] != '\n' && src[end] != '\r' {
		if s.inBlock && src[end] == '*' && end+1 < len(src) && src[end+1] == '/' {
			s.inBlock = false
			s.pos = end + 2
			return start, end, true
		}
		end++
	}
	s.pos = end
	return start, end, true
}

// parseLine splits a relevant comment line into name, tag and value. A ':'
// that appears after the first '=' belongs to the value.
func (s *scanner) parseLine(start, end int) (Item, bool) {
	line := s.source[start:end]
	lead := len(line) - len(strings.TrimLeft(line, " \t"))
	if !strings.HasPrefix(line[lead:], "--") {
		return Item{}, false
	}
	marker := start + lead
	body := line[lead+2:]

	colon := strings.IndexByte(body, ':')
	equals := strings.IndexByte(body, '=')
	if equals >= 0 && colon > equals {
		colon = -1
	}

	nameEnd := len(body)
	switch {
	case colon >= 0:
		nameEnd = colon
	case equals >= 0:
		nameEnd = equals
	}

	it := Item{Name: Clip(trim(body[:nameEnd]), MaxNameLen)}
	if colon >= 0 {
		tagEnd := len(body)
		if equals >= 0 {
			tagEnd = equals
		}
		it.Tag = Clip(trim(body[colon+1:tagEnd]), MaxTagLen)
	}
	if equals >= 0 {
		it.Value = Clip(trim(body[equals+1:]), MaxValueLen)
	}
	it.Row, it.Col = lineCol(s.source, marker)
	return it, true
}

// lineCol converts a byte offset to a 1-based line and column. Carriage
// returns do not count as columns.
func lineCol(source string, offset int) (line, col int) {
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = 1
	for i := lineStart; i < offset; i++ {
		if source[i] != '\r' {
			col++
		}
	}
	return line, col
}
