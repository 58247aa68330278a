// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package diag

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Silence selects which groups Print leaves out.
type Silence uint8

const (
	// SilenceNone prints everything.
	SilenceNone Silence = iota

	// SilenceInfo drops informational messages.
	SilenceInfo

	// SilenceWarnings drops informational messages and warnings.
	SilenceWarnings

	// SilenceAll drops everything.
	SilenceAll
)

// PrintOptions configures Print.
type PrintOptions struct {
	Silence Silence

	// Profile forces a color profile. Zero detects it from the writer,
	// which yields plain text for anything that is not a terminal.
	Profile *termenv.Profile
}

// Print writes the log grouped by severity: info lines first, then raw
// compiler text, then warnings and errors in insertion order formatted
// as "file(line,col): level: text" or "file: level: text".
func (l *Log) Print(w io.Writer, file string, opts PrintOptions) error {
	var termOpts []termenv.OutputOption
	if opts.Profile != nil {
		termOpts = append(termOpts, termenv.WithProfile(*opts.Profile))
	}
	out := termenv.NewOutput(w, termOpts...)
	p := &printer{w: w, out: out}

	if opts.Silence < SilenceInfo {
		for _, it := range l.items {
			if it.Level == LevelInfo {
				p.printf("%s\n", it.Text)
			}
		}
	}
	if opts.Silence < SilenceAll {
		for _, it := range l.items {
			if it.Level == LevelRawErrorText {
				p.printf("%s", p.style(it.Text, "9"))
			}
		}
	}
	for _, it := range l.items {
		switch {
		case it.Level == LevelWarning && opts.Silence < SilenceWarnings:
			p.printf("%s\n", p.positioned(file, it, "11"))
		case it.Level == LevelError && opts.Silence < SilenceAll:
			p.printf("%s\n", p.positioned(file, it, "9"))
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	out *termenv.Output
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) style(s, color string) string {
	return p.out.String(s).Foreground(p.out.Color(color)).String()
}

func (p *printer) positioned(file string, it Item, color string) string {
	level := p.style(it.Level.String(), color)
	switch {
	case !it.HasPosition():
		return fmt.Sprintf("%s: %s: %s", file, level, it.Text)
	case it.Column == NoPosition:
		return fmt.Sprintf("%s(%d): %s: %s", file, it.Line, level, it.Text)
	default:
		return fmt.Sprintf("%s(%d,%d): %s: %s", file, it.Line, it.Column, level, it.Text)
	}
}
