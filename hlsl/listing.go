// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/sksc/meta"
)

var approxSlots = regexp.MustCompile(`Approximately (\d+) instruction slots used`)

// ParseListing reads the input signature and instruction statistics from
// an fxc (DXBC) or dxc (DXIL) assembly listing. Vertex inputs are only
// reported for the vertex stage, and statistics only for vertex and pixel
// stages.
func ParseListing(text string, stage meta.Stage) *meta.Reflection {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	r := &meta.Reflection{Stage: stage}
	if stage == meta.StageVertex {
		r.VertexInputs = parseInputSignature(lines)
	}
	if stage == meta.StageVertex || stage == meta.StagePixel {
		var ops meta.Ops
		if strings.Contains(text, "define void @") {
			ops = dxilOps(lines)
		} else {
			ops = dxbcOps(lines, text)
		}
		r.Ops = &ops
	}
	return r
}

// commentBody strips the listing comment marker, "//" for fxc and ";" for
// dxc. ok is false for lines that are not comments.
func commentBody(line string) (string, bool) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "//"):
		return strings.TrimSpace(line[2:]), true
	case strings.HasPrefix(line, ";"):
		return strings.TrimSpace(line[1:]), true
	}
	return "", false
}

// parseInputSignature reads the table that follows "Input signature:".
//
//	// Name                 Index   Mask Register SysValue  Format   Used
//	// -------------------- ----- ------ -------- -------- ------- ------
//	// POSITION                 0   xyz         0     NONE   float   xyz
func parseInputSignature(lines []string) []meta.VertexComponent {
	var out []meta.VertexComponent
	state := 0 // 0 looking, 1 in header, 2 in rows
	for _, line := range lines {
		body, ok := commentBody(line)
		if !ok {
			if state == 2 {
				break
			}
			continue
		}
		switch state {
		case 0:
			if body == "Input signature:" {
				state = 1
			}
		case 1:
			if strings.HasPrefix(body, "---") {
				state = 2
			}
		case 2:
			if body == "" {
				return out
			}
			if vc, ok := parseSignatureRow(body); ok {
				out = append(out, vc)
			}
		}
	}
	return out
}

func parseSignatureRow(row string) (meta.VertexComponent, bool) {
	f := strings.Fields(row)
	if len(f) < 6 {
		return meta.VertexComponent{}, false
	}
	name, index, mask, sysValue, format := f[0], f[1], f[2], f[4], f[5]
	if sysValue != "NONE" || strings.HasPrefix(strings.ToUpper(name), "SV_") {
		return meta.VertexComponent{}, false
	}
	slot, err := strconv.Atoi(index)
	if err != nil || slot < 0 || slot > 255 {
		return meta.VertexComponent{}, false
	}

	vc := meta.VertexComponent{Count: uint8(len(mask)), SemanticSlot: uint8(slot)}
	vc.Semantic, _ = meta.ParseSemantic(name)
	switch format {
	case "float":
		vc.Format = meta.FormatF32
	case "int":
		vc.Format = meta.FormatI32
	case "uint":
		vc.Format = meta.FormatUI32
	}
	return vc, true
}

var (
	dxbcTexOps  = []string{"sample", "ld", "gather4", "lod"}
	dxbcFlowOps = []string{"if_", "loop", "switch", "breakc", "continuec", "retc"}
)

// dxbcOps counts DXBC instructions: every non-declaration line after the
// profile line. The compiler's own slot count is preferred for the total.
func dxbcOps(lines []string, text string) meta.Ops {
	var ops meta.Ops
	inBody := false
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if l == "" || strings.HasPrefix(l, "//") {
			continue
		}
		op, _, _ := strings.Cut(l, " ")
		if !inBody {
			inBody = isProfile(op)
			continue
		}
		if strings.HasPrefix(op, "dcl_") {
			continue
		}
		ops.Total++
		if hasAnyPrefix(op, dxbcTexOps) {
			ops.TexRead++
		}
		if hasAnyPrefix(op, dxbcFlowOps) {
			ops.DynamicFlow++
		}
	}
	if m := approxSlots.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			ops.Total = int32(n)
		}
	}
	return ops
}

// dxilOps counts LLVM instructions inside function bodies.
func dxilOps(lines []string) meta.Ops {
	var ops meta.Ops
	inFunc := false
	for _, line := range lines {
		l := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(l, "define "):
			inFunc = true
			continue
		case l == "}":
			inFunc = false
			continue
		}
		if !inFunc || l == "" || strings.HasPrefix(l, ";") || strings.HasSuffix(l, ":") {
			continue
		}
		ops.Total++
		if strings.Contains(l, "@dx.op.sample") || strings.Contains(l, "@dx.op.textureLoad") ||
			strings.Contains(l, "@dx.op.textureGather") {
			ops.TexRead++
		}
		if strings.HasPrefix(l, "br i1") || strings.HasPrefix(l, "switch ") {
			ops.DynamicFlow++
		}
	}
	return ops
}

func isProfile(s string) bool {
	for _, p := range []string{"vs_", "ps_", "cs_"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
