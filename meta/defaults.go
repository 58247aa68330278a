// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package meta

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/gogpu/sksc/annotate"
	"github.com/gogpu/sksc/diag"
)

// ShaderNameKey is the annotation name that sets the shader's display name.
const ShaderNameKey = "name"

// suggestThreshold is the minimum similarity for a "did you mean" hint.
const suggestThreshold = 0.6

// ApplyAnnotations applies annotation items onto m.
//
// An item named "name" sets the shader name. An item matching a member of
// the global buffer sets the member's tag and, when it has a value, writes
// the member's default into the buffer's default blob. An item matching a
// resource copies its tag and value onto the resource. A variable and a
// resource may both match the same item; anything other than exactly one
// match is reported as a warning.
func ApplyAnnotations(m *Meta, items []annotate.Item, log *diag.Log) {
	for _, it := range items {
		found := 0

		if buf := m.Global(); buf != nil {
			if v := buf.VarIndex(it.Name); v >= 0 {
				found++
				applyDefault(buf, &buf.Vars[v], it, log)
			}
		}

		if r := m.ResourceIndex(it.Name); r >= 0 {
			found++
			m.Resources[r].Tags = annotate.Clip(it.Tag, MaxTagsLen)
			m.Resources[r].Value = annotate.Clip(it.Value, MaxValueLen)
		}

		if it.Name == ShaderNameKey {
			found++
			m.Name = annotate.Clip(it.Value, MaxShaderNameLen)
		}

		if found != 1 {
			msg := "Can't find shader var named '%s'"
			args := []any{it.Name}
			if found == 0 {
				if s := suggest(m, it.Name); s != "" {
					msg += ", did you mean '%s'?"
					args = append(args, s)
				}
			}
			log.WarnAt(it.Row, it.Col, msg, args...)
		}
	}
}

func applyDefault(buf *Buffer, v *Var, it annotate.Item, log *diag.Log) {
	v.Extra = annotate.Clip(it.Tag, MaxExtraLen)
	if it.Value == "" {
		return
	}

	parts := strings.Split(it.Value, ",")
	switch {
	case v.Type == VarNone:
		log.WarnAt(it.Row, it.Col, "Can't set default for --%s, unimplemented type", it.Name)
		return
	case len(parts) != int(v.TypeCount):
		log.WarnAt(it.Row, it.Col, "Default value for --%s has an incorrect number of arguments", it.Name)
		return
	}

	if buf.Defaults == nil {
		buf.Defaults = make([]byte, buf.Size)
	}
	at := int(v.Offset)
	width := v.Type.Size()
	for _, p := range parts {
		if at+width > len(buf.Defaults) {
			break
		}
		packValue(buf.Defaults[at:at+width], v.Type, parseLeadingFloat(p))
		at += width
	}
}

// packValue narrows d to t and writes it little-endian into dst.
func packValue(dst []byte, t VarType, d float64) {
	switch t {
	case VarFloat:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(d)))
	case VarDouble:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(d))
	case VarInt:
		binary.LittleEndian.PutUint32(dst, uint32(int32(d)))
	case VarUInt:
		binary.LittleEndian.PutUint32(dst, uint32(int64(d)))
	case VarUInt8:
		dst[0] = uint8(int64(d))
	}
}

// parseLeadingFloat parses the longest numeric prefix of s, ignoring
// surrounding whitespace and trailing suffixes such as "f". It returns 0
// when s has no numeric prefix.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	d, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return d
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// suggest returns the known name closest to name, or "".
func suggest(m *Meta, name string) string {
	var candidates []string
	if g := m.Global(); g != nil {
		for _, v := range g.Vars {
			candidates = append(candidates, v.Name)
		}
	}
	for _, r := range m.Resources {
		candidates = append(candidates, r.Name)
	}

	metric := metrics.NewLevenshtein()
	best, bestScore := "", suggestThreshold
	for _, c := range candidates {
		if score := strutil.Similarity(name, c, metric); score >= bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
