// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sksc

import (
	"log/slog"

	"github.com/gogpu/sksc/internal/logging"
)

// SetLogger configures the logger for sksc and all its sub-packages.
// By default, sksc produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by sksc:
//   - [slog.LevelDebug]: external tool command lines, per-stage outcomes
//   - [slog.LevelInfo]: files compiled and written
//   - [slog.LevelWarn]: missing optional tools
//
// Shader diagnostics (compile errors, annotation warnings) are not routed
// through this logger; they are collected in a diag.Log per compile.
//
// Example:
//
//	sksc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by sksc.
func Logger() *slog.Logger {
	return logging.Logger()
}
