// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sksc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/sksc/meta"
)

func TestParseTargets(t *testing.T) {
	tests := []struct {
		in   string
		want Target
	}{
		{"xsgew", TargetAll},
		{"s", TargetSPIRV},
		{"gw", TargetGLSL | TargetGLSLWeb},
		{"ss", TargetSPIRV},
		{"", 0},
	}
	for _, tt := range tests {
		got, err := ParseTargets(tt.in)
		require.NoError(t, err, tt.in)
		if got != tt.want {
			t.Errorf("ParseTargets(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	_, err := ParseTargets("sq")
	assert.EqualError(t, err, `sksc: unknown target 'q'`)
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "xsgew", TargetAll.String())
	assert.Equal(t, "se", (TargetGLSLES | TargetSPIRV).String())
	assert.Equal(t, "", Target(0).String())
}

func TestTargetGLSLLanguages(t *testing.T) {
	assert.Equal(t, []meta.Language{meta.LangGLSL, meta.LangGLSLES, meta.LangGLSLWeb}, TargetAll.glslLanguages())
	assert.Nil(t, (TargetHLSL | TargetSPIRV).glslLanguages())
}

func TestSettingsEntry(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "vs", s.Entry(meta.StageVertex))
	assert.Equal(t, "ps", s.Entry(meta.StagePixel))
	assert.Equal(t, "cs", s.Entry(meta.StageCompute))
	assert.Equal(t, "", s.Entry(meta.StageVertex|meta.StagePixel))
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	// The shader model is only checked when native bytecode is requested.
	s.ShaderModel = "bogus"
	s.Targets = TargetSPIRV
	assert.NoError(t, s.Validate())
	s.Targets = TargetHLSL
	assert.Error(t, s.Validate())
}
