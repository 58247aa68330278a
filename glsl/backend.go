// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/toolchain"
)

// Version represents a GLSL version.
type Version struct {
	Major uint8
	Minor uint8
	ES    bool // true for GLSL ES (OpenGL ES / WebGL)
}

// Common GLSL versions.
var (
	// Desktop OpenGL versions
	Version330 = Version{Major: 3, Minor: 30, ES: false} // OpenGL 3.3 Core
	Version410 = Version{Major: 4, Minor: 10, ES: false} // OpenGL 4.1
	Version430 = Version{Major: 4, Minor: 30, ES: false} // OpenGL 4.3 (compute shaders)
	Version450 = Version{Major: 4, Minor: 50, ES: false} // OpenGL 4.5

	// OpenGL ES / WebGL versions
	VersionES300 = Version{Major: 3, Minor: 0, ES: true}  // ES 3.0 / WebGL 2.0
	VersionES320 = Version{Major: 3, Minor: 20, ES: true} // ES 3.2
)

// ParseVersion converts a numeric desktop version such as 430.
func ParseVersion(number int) (Version, error) {
	if number < 110 || number > 460 || number%10 != 0 {
		return Version{}, fmt.Errorf("glsl: unsupported version %d", number)
	}
	return Version{Major: uint8(number / 100), Minor: uint8(number % 100)}, nil
}

// String returns the version as a GLSL version directive value.
func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("%d%02d es", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d%02d core", v.Major, v.Minor)
}

// Number returns the numeric version (e.g. 330, 300).
func (v Version) Number() int {
	return int(v.Major)*100 + int(v.Minor)
}

// SupportsCompute returns true if this version supports compute shaders.
func (v Version) SupportsCompute() bool {
	if v.ES {
		return v.Number() >= 310
	}
	return v.Number() >= 430
}

// Dialect returns the version used for a GLSL target language. Desktop
// GLSL uses desktop; ES is fixed at 3.20 and WebGL at 3.00.
func Dialect(lang meta.Language, desktop Version) (Version, error) {
	switch lang {
	case meta.LangGLSL:
		return desktop, nil
	case meta.LangGLSLES:
		return VersionES320, nil
	case meta.LangGLSLWeb:
		return VersionES300, nil
	}
	return Version{}, fmt.Errorf("glsl: %v is not a GLSL dialect", lang)
}

// Options configures GLSL emission.
type Options struct {
	// Version is the desktop GLSL version. Defaults to Version430 if zero.
	Version Version

	// Tool is the spirv-cross command line.
	Tool string
}

// DefaultOptions returns the default emission options.
func DefaultOptions() Options {
	return Options{
		Version: Version430,
		Tool:    toolchain.DefaultSPIRVCross,
	}
}
