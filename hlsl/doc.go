// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl compiles HLSL to native Direct3D bytecode.
//
// Shader Models below 6.0 are compiled to DXBC with fxc, 6.0 and later to
// DXIL with dxc. Both compilers are driven through toolchain.Runner with
// the same flags:
//
//	-T vs_5_0 -E vs -Zpc -O3 -I <folder> -Fo <object> -Fc <listing>
//
// The assembly listing is parsed for the vertex input signature and for
// instruction statistics, which fill the same metadata fields the SPIR-V
// reflection does. Compiler output is kept verbatim in the log as raw
// error text, since both compilers already format it as
// file(line,col): error X0000: message.
//
// # Shader Model Support
//
//   - SM 4.0-5.1: FXC, DXBC output
//   - SM 6.0+: DXC, DXIL output
package hlsl
