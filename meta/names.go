// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package meta

var formatNames = [...]string{
	FormatNone:           "none",
	FormatF64:            "f64",
	FormatF32:            "f32",
	FormatF16:            "f16",
	FormatI32:            "i32",
	FormatI16:            "i16",
	FormatI8:             "i8",
	FormatI32Normalized:  "i32n",
	FormatI16Normalized:  "i16n",
	FormatI8Normalized:   "i8n",
	FormatUI32:           "ui32",
	FormatUI16:           "ui16",
	FormatUI8:            "ui8",
	FormatUI32Normalized: "ui32n",
	FormatUI16Normalized: "ui16n",
	FormatUI8Normalized:  "ui8n",
}

// String returns the short format name.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

var semanticStrings = [...]string{
	SemanticNone:         "none",
	SemanticPosition:     "position",
	SemanticTexcoord:     "texcoord",
	SemanticNormal:       "normal",
	SemanticBinormal:     "binormal",
	SemanticTangent:      "tangent",
	SemanticColor:        "color",
	SemanticPSize:        "psize",
	SemanticBlendWeight:  "blendweight",
	SemanticBlendIndices: "blendindices",
}

// String returns the lower case semantic name.
func (s Semantic) String() string {
	if s < 0 || int(s) >= len(semanticStrings) {
		return "unknown"
	}
	return semanticStrings[s]
}
