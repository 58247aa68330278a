// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sksc

import (
	"fmt"
	"sort"

	"github.com/gogpu/sksc/meta"
	"github.com/gogpu/sksc/spirv"
)

// SPIRVReflector reads resource reflection from SPIR-V stages.
type SPIRVReflector struct{}

// Reflect parses code and reflects it for stage.
func (SPIRVReflector) Reflect(code []byte, stage meta.Stage) (*meta.Reflection, error) {
	mod, err := spirv.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("reflect %v stage: %w", stage, err)
	}
	return ReflectModule(mod, stage), nil
}

// ReflectModule collects the uniform buffers, images and storage buffers
// of mod. Vertex stages also report their semantic-tagged inputs, and
// vertex and pixel stages their instruction statistics.
func ReflectModule(mod *spirv.Module, stage meta.Stage) *meta.Reflection {
	res := mod.Resources()
	r := &meta.Reflection{Stage: stage}

	for _, ub := range res.UniformBuffers {
		r.Buffers = append(r.Buffers, meta.ReflectedBuffer{
			Name:    ub.Name,
			Slot:    ub.Binding,
			Size:    mod.DeclaredStructSize(ub.TypeID),
			Members: reflectMembers(mod, ub.TypeID),
		})
	}

	for _, img := range res.SeparateImages {
		r.Resources = append(r.Resources, meta.ReflectedResource{Name: img.Name, Slot: img.Binding, Kind: meta.KindSeparateImage})
	}
	for _, img := range res.SampledImages {
		r.Resources = append(r.Resources, meta.ReflectedResource{Name: img.Name, Slot: img.Binding, Kind: meta.KindSeparateImage})
	}
	for _, img := range res.StorageImages {
		r.Resources = append(r.Resources, meta.ReflectedResource{Name: img.Name, Slot: img.Binding, Kind: meta.KindStorageImage})
	}
	for _, sb := range res.StorageBuffers {
		_, readOnly := mod.MemberDecoration(baseStruct(mod, sb.TypeID), 0, spirv.DecorationNonWritable)
		r.Resources = append(r.Resources, meta.ReflectedResource{
			Name:     sb.Name,
			Slot:     sb.Binding,
			Kind:     meta.KindStorageBuffer,
			ReadOnly: readOnly,
		})
	}

	if stage == meta.StageVertex {
		r.VertexInputs = vertexInputs(mod, res.StageInputs)
	}
	if stage == meta.StageVertex || stage == meta.StagePixel {
		s := mod.CountOps()
		r.Ops = &meta.Ops{
			Total:       int32(s.Total),
			TexRead:     int32(s.TexRead),
			DynamicFlow: int32(s.DynamicFlow),
		}
	}
	return r
}

func reflectMembers(mod *spirv.Module, typeID uint32) []meta.ReflectedMember {
	members := mod.StructMembers(typeID)
	out := make([]meta.ReflectedMember, 0, len(members))
	for _, m := range members {
		out = append(out, meta.ReflectedMember{
			Name:      m.Name,
			Offset:    m.Offset,
			Size:      m.Size,
			BaseType:  baseType(m.Scalar),
			ArrayDims: m.ArrayDims,
			VecSize:   m.VecSize,
			Columns:   m.Columns,
		})
	}
	return out
}

// baseStruct strips array wrappers from a storage buffer type.
func baseStruct(mod *spirv.Module, id uint32) uint32 {
	for {
		t := mod.Type(id)
		if t == nil || (t.Kind != spirv.TypeArray && t.Kind != spirv.TypeRuntimeArray) {
			return id
		}
		id = t.Elem
	}
}

func baseType(t *spirv.Type) meta.BaseType {
	if t == nil {
		return meta.BaseUnknown
	}
	switch t.Kind {
	case spirv.TypeBool:
		return meta.BaseBool
	case spirv.TypeStruct:
		return meta.BaseStruct
	case spirv.TypeFloat:
		switch t.Width {
		case 16:
			return meta.BaseHalf
		case 32:
			return meta.BaseFloat
		case 64:
			return meta.BaseDouble
		}
	case spirv.TypeInt:
		signed := map[uint32]meta.BaseType{8: meta.BaseSByte, 16: meta.BaseShort, 32: meta.BaseInt, 64: meta.BaseInt64}
		unsigned := map[uint32]meta.BaseType{8: meta.BaseUByte, 16: meta.BaseUShort, 32: meta.BaseUInt, 64: meta.BaseUInt64}
		if t.Signed {
			return signed[t.Width]
		}
		return unsigned[t.Width]
	}
	return meta.BaseUnknown
}

// vertexInputs lists the inputs carrying an HLSL semantic, in location
// order.
func vertexInputs(mod *spirv.Module, inputs []spirv.Resource) []meta.VertexComponent {
	type located struct {
		loc uint32
		vc  meta.VertexComponent
	}
	var found []located
	for _, in := range inputs {
		semantic := mod.DecorationString(in.ID, spirv.DecorationUserSemantic)
		if semantic == "" {
			continue
		}
		vc := meta.VertexComponent{}
		vc.Semantic, vc.SemanticSlot = meta.ParseSemantic(semantic)

		scalar, count := mod.InputComponents(in.TypeID)
		vc.Count = uint8(count)
		if scalar != nil {
			switch {
			case scalar.Kind == spirv.TypeFloat:
				vc.Format = meta.FormatF32
			case scalar.Kind == spirv.TypeInt && scalar.Signed:
				vc.Format = meta.FormatI32
			case scalar.Kind == spirv.TypeInt:
				vc.Format = meta.FormatUI32
			}
		}
		loc, _ := mod.Decoration(in.ID, spirv.DecorationLocation)
		found = append(found, located{loc, vc})
	}
	if found == nil {
		return nil
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].loc < found[j].loc })
	out := make([]meta.VertexComponent, len(found))
	for i, f := range found {
		out[i] = f.vc
	}
	return out
}
