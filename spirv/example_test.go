// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv_test

import (
	"fmt"

	"github.com/gogpu/sksc/internal/spvtest"
	"github.com/gogpu/sksc/spirv"
)

// ExampleModuleBuilder_minimal demonstrates creating a minimal SPIR-V module.
func ExampleModuleBuilder_minimal() {
	builder := spirv.NewModuleBuilder(spirv.Version1_3)
	builder.AddCapability(spirv.CapabilityShader)
	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	binary := builder.Build()

	fmt.Printf("Generated SPIR-V module: %d bytes\n", len(binary))
	// Output: Generated SPIR-V module: 40 bytes
}

// ExampleModule_Resources lists the bindings of a compiled pixel shader.
func ExampleModule_Resources() {
	code := spvtest.Build(spvtest.Shader{
		Model: spirv.ExecutionModelFragment,
		Buffers: []spvtest.Buffer{{
			TypeName: "$Global",
			Binding:  0,
			Members:  []spvtest.Member{{Name: "tint", Type: spvtest.Float4}},
		}},
		Images:   []spvtest.Image{{Name: "diffuse", Binding: 1}},
		Samplers: []spvtest.Sampler{{Name: "diffuse_s", Binding: 1}},
	})

	module, err := spirv.Parse(code)
	if err != nil {
		panic(err)
	}
	res := module.Resources()
	for _, r := range res.UniformBuffers {
		fmt.Printf("cbuffer %s: binding %d, %d bytes\n", r.Name, r.Binding, module.DeclaredStructSize(r.TypeID))
	}
	for _, r := range res.SeparateImages {
		fmt.Printf("texture %s: binding %d\n", r.Name, r.Binding)
	}
	// Output:
	// cbuffer $Global: binding 0, 16 bytes
	// texture diffuse: binding 1
}
