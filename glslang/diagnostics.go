// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslang

import (
	"strconv"
	"strings"

	"github.com/gogpu/sksc/diag"
)

const (
	errorPrefix   = "ERROR: "
	warningPrefix = "WARNING: "
)

// Translate converts glslang's free-form log text into diagnostics, one
// item per line.
//
// Each line may start with "ERROR: " or "WARNING: ", followed by an
// optional position as either "col:line:" or "(line)". Lines of length one
// or less are dropped.
func Translate(text string, log *diag.Log) {
	for text != "" {
		line, rest, _ := strings.Cut(text, "\n")
		translateLine(strings.TrimSuffix(line, "\r"), log)
		text = rest
	}
}

func translateLine(line string, log *diag.Log) {
	level := diag.LevelError
	body := line
	switch {
	case strings.HasPrefix(body, errorPrefix):
		body = body[len(errorPrefix):]
	case strings.HasPrefix(body, warningPrefix):
		level = diag.LevelWarning
		body = body[len(warningPrefix):]
	}

	row, col := diag.NoPosition, diag.NoPosition
	if c, r, rest, ok := parseColLine(body); ok {
		row, col, body = r, c, rest
	} else if r, rest, ok := parseParenLine(body); ok {
		row, body = r, rest
	}

	if len(line) <= 1 {
		return
	}
	log.AddAt(level, row, col, "%s", body)
}

// parseColLine reads a "col:line:" prefix and drops the character after it.
func parseColLine(s string) (col, line int, rest string, ok bool) {
	col, s, ok = readInt(s, ':')
	if !ok {
		return 0, 0, "", false
	}
	line, s, ok = readInt(s, ':')
	if !ok {
		return 0, 0, "", false
	}
	return col, line, skip(s, 1), true
}

// parseParenLine reads a "(line)" prefix and drops the two characters
// after it, normally ": ".
func parseParenLine(s string) (line int, rest string, ok bool) {
	if !strings.HasPrefix(s, "(") {
		return 0, "", false
	}
	line, s, ok = readInt(s[1:], ')')
	if !ok {
		return 0, "", false
	}
	return line, skip(s, 2), true
}

// readInt parses an unsigned decimal integer terminated by sep. Leading
// blanks are allowed, anything else before sep is not. Signs are rejected
// so a position can never collide with diag.NoPosition.
func readInt(s string, sep byte) (n int, rest string, ok bool) {
	end := strings.IndexByte(s, sep)
	if end < 0 {
		return 0, "", false
	}
	digits := strings.TrimLeft(s[:end], " \t")
	if digits == "" || digits[0] < '0' || digits[0] > '9' {
		return 0, "", false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, "", false
	}
	return n, s[end+1:], true
}

func skip(s string, n int) string {
	if n > len(s) {
		n = len(s)
	}
	return s[n:]
}
