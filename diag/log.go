// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package diag collects the diagnostics produced while compiling one shader.
//
// A Log is owned by a single compile invocation. Every pipeline component
// appends to the Log it is handed, and the caller prints it once after all
// stages have been attempted. Separate compiles use separate Logs, so they
// can run on different goroutines.
package diag

import "fmt"

// Level is the severity of a log item.
type Level uint8

const (
	// LevelInfo is an informational message.
	LevelInfo Level = iota

	// LevelWarning is a non-fatal problem.
	LevelWarning

	// LevelError is a compile error, optionally with a source position.
	LevelError

	// LevelRawErrorText is pre-formatted error text from a native compiler,
	// printed verbatim.
	LevelRawErrorText
)

// String returns the lower-case level name used when printing.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError, LevelRawErrorText:
		return "error"
	default:
		return "unknown"
	}
}

// NoPosition marks an unknown line or column.
const NoPosition = -1

// Item is a single diagnostic message.
type Item struct {
	Level  Level
	Line   int // 1-based, NoPosition if unknown
	Column int // NoPosition if unknown
	Text   string
}

// HasPosition reports whether the item carries a source line.
func (it Item) HasPosition() bool {
	return it.Line != NoPosition
}

// Log is an ordered list of diagnostics. The zero value is ready to use.
// A Log is not safe for concurrent use.
type Log struct {
	items []Item
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Add appends a position-less item.
func (l *Log) Add(level Level, format string, args ...any) {
	l.AddAt(level, NoPosition, NoPosition, format, args...)
}

// AddAt appends an item at the given line and column.
func (l *Log) AddAt(level Level, line, column int, format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	l.items = append(l.items, Item{Level: level, Line: line, Column: column, Text: text})
}

// Info appends an informational message.
func (l *Log) Info(format string, args ...any) { l.Add(LevelInfo, format, args...) }

// Warn appends a position-less warning.
func (l *Log) Warn(format string, args ...any) { l.Add(LevelWarning, format, args...) }

// Error appends a position-less error.
func (l *Log) Error(format string, args ...any) { l.Add(LevelError, format, args...) }

// WarnAt appends a warning at a source position.
func (l *Log) WarnAt(line, column int, format string, args ...any) {
	l.AddAt(LevelWarning, line, column, format, args...)
}

// Raw appends pre-formatted compiler output. Empty text is ignored.
func (l *Log) Raw(text string) {
	if text == "" {
		return
	}
	l.items = append(l.items, Item{Level: LevelRawErrorText, Line: NoPosition, Column: NoPosition, Text: text})
}

// Append copies items from other onto the end of l.
func (l *Log) Append(other *Log) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// Items returns a copy of the items in insertion order.
func (l *Log) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of items.
func (l *Log) Len() int { return len(l.items) }

// Count returns the number of items at the given level.
func (l *Log) Count(level Level) int {
	n := 0
	for _, it := range l.items {
		if it.Level == level {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error or raw error text was logged.
func (l *Log) HasErrors() bool {
	return l.Count(LevelError) > 0 || l.Count(LevelRawErrorText) > 0
}

// Clear removes all items.
func (l *Log) Clear() {
	l.items = l.items[:0]
}
