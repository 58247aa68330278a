// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/sksc/meta"
)

// ShaderModel represents a DirectX Shader Model version.
// Shader Models define the feature set available for shader compilation.
type ShaderModel uint8

// Supported Shader Model versions.
const (
	// ShaderModel4_0 is the DirectX 10 model.
	ShaderModel4_0 ShaderModel = iota

	// ShaderModel5_0 is the base SM5 version (DirectX 11, default).
	ShaderModel5_0

	// ShaderModel5_1 provides improved resource binding.
	ShaderModel5_1

	// ShaderModel6_0 introduces wave intrinsics and DXIL.
	ShaderModel6_0

	// ShaderModel6_1 adds SV_ViewID and barycentrics.
	ShaderModel6_1

	// ShaderModel6_2 adds float16 and denorm control.
	ShaderModel6_2

	// ShaderModel6_3 adds DirectX Raytracing (DXR).
	ShaderModel6_3

	// ShaderModel6_4 adds variable rate shading and library subobjects.
	ShaderModel6_4

	// ShaderModel6_5 adds mesh shaders and sampler feedback.
	ShaderModel6_5

	// ShaderModel6_6 adds 64-bit atomics and dynamic resources.
	ShaderModel6_6

	// ShaderModel6_7 adds advanced mesh shaders and work graphs.
	ShaderModel6_7
)

var shaderModelVersions = [...][2]uint8{
	ShaderModel4_0: {4, 0},
	ShaderModel5_0: {5, 0},
	ShaderModel5_1: {5, 1},
	ShaderModel6_0: {6, 0},
	ShaderModel6_1: {6, 1},
	ShaderModel6_2: {6, 2},
	ShaderModel6_3: {6, 3},
	ShaderModel6_4: {6, 4},
	ShaderModel6_5: {6, 5},
	ShaderModel6_6: {6, 6},
	ShaderModel6_7: {6, 7},
}

// ParseShaderModel parses a model written as "5_0" or "5.0".
func ParseShaderModel(s string) (ShaderModel, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), ".", "_")
	for sm := range shaderModelVersions {
		if ShaderModel(sm).ProfileSuffix() == norm {
			return ShaderModel(sm), nil
		}
	}
	return ShaderModel5_0, NewError(ErrInvalidShaderModel, fmt.Sprintf("unknown shader model %q", s))
}

// String returns a human-readable representation of the shader model.
// Example: "SM 5.1", "SM 6.0"
func (sm ShaderModel) String() string {
	major, minor := sm.version()
	return fmt.Sprintf("SM %d.%d", major, minor)
}

// ProfileSuffix returns the shader profile suffix for this model.
// Example: "5_1", "6_0"
func (sm ShaderModel) ProfileSuffix() string {
	major, minor := sm.version()
	return fmt.Sprintf("%d_%d", major, minor)
}

// Profile returns the target profile for a stage, such as "vs_5_0".
func (sm ShaderModel) Profile(stage meta.Stage) (string, error) {
	var prefix string
	switch stage {
	case meta.StageVertex:
		prefix = "vs_"
	case meta.StagePixel:
		prefix = "ps_"
	case meta.StageCompute:
		prefix = "cs_"
	default:
		return "", NewError(ErrUnsupportedStage, fmt.Sprintf("no profile for stage %v", stage))
	}
	return prefix + sm.ProfileSuffix(), nil
}

// version returns the major and minor version numbers.
func (sm ShaderModel) version() (major, minor uint8) {
	if int(sm) >= len(shaderModelVersions) {
		return 5, 0 // Default to 5.0 for unknown
	}
	v := shaderModelVersions[sm]
	return v[0], v[1]
}

// Major returns the major version number.
func (sm ShaderModel) Major() uint8 {
	major, _ := sm.version()
	return major
}

// Minor returns the minor version number.
func (sm ShaderModel) Minor() uint8 {
	_, minor := sm.version()
	return minor
}

// SupportsDXIL returns true if this shader model uses DXIL output.
// Shader Model 6.0+ uses DXIL and is compiled with dxc. Earlier models
// use DXBC and fxc.
func (sm ShaderModel) SupportsDXIL() bool {
	return sm >= ShaderModel6_0
}
