// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package sks reads and writes .sks shader files.
//
// An .sks file holds the metadata of one shader followed by every
// compiled stage blob. All values are little-endian and strings are
// NUL-padded fixed-size fields:
//
//	"SKSHADER" u16 version u32 stage_count name[256]
//	u32 buffer_count u32 resource_count i32 vertex_input_count
//	i32 ops_vertex[3] i32 ops_pixel[3]
//	buffers:  name[32] bind u32 size u32 var_count u32 defaults_size defaults
//	          vars: name[32] extra[64] u32 offset u32 size u16 type u16 type_count
//	inputs:   i32 format i32 semantic u8 slot
//	resources: name[32] value[64] tags[64] bind
//	stages:   i32 language i32 stage u32 size code
//
// where bind is u16 slot, u8 stage_bits, u8 register.
package sks

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/sksc/meta"
)

// Magic starts every .sks file.
const Magic = "SKSHADER"

// Version is the file format version this package reads and writes.
const Version uint16 = 3

// Fixed field sizes, including the NUL terminator.
const (
	nameSize      = 256
	shortNameSize = 32
	extraSize     = 64
)

var (
	// ErrNotShaderFile is returned for data without the .sks magic.
	ErrNotShaderFile = errors.New("sks: not a shader file")

	// ErrVersion is returned for files of another format version.
	ErrVersion = errors.New("sks: unsupported version")
)

// File is a shader's metadata with its compiled stages.
type File struct {
	Meta   *meta.Meta
	Stages []meta.StageBlob
}

// Stage returns the blob for a language and stage.
func (f *File) Stage(lang meta.Language, stage meta.Stage) (meta.StageBlob, bool) {
	for _, s := range f.Stages {
		if s.Language == lang && s.Stage == stage {
			return s, true
		}
	}
	return meta.StageBlob{}, false
}

// Marshal encodes f.
func Marshal(f *File) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, f)
	return buf.Bytes()
}

// Write encodes f to w.
func Write(w io.Writer, f *File) error {
	m := f.Meta
	if m == nil {
		m = meta.New()
	}
	e := encoder{w: w}

	e.bytes([]byte(Magic))
	e.u16(Version)
	e.u32(uint32(len(f.Stages)))
	e.str(m.Name, nameSize)
	e.u32(uint32(len(m.Buffers)))
	e.u32(uint32(len(m.Resources)))
	e.i32(int32(len(m.VertexInputs)))
	for _, ops := range []meta.Ops{m.OpsVertex, m.OpsPixel} {
		e.i32(ops.Total)
		e.i32(ops.TexRead)
		e.i32(ops.DynamicFlow)
	}

	for _, b := range m.Buffers {
		e.str(b.Name, shortNameSize)
		e.bind(b.Bind)
		e.u32(b.Size)
		e.u32(uint32(len(b.Vars)))
		e.u32(uint32(len(b.Defaults)))
		e.bytes(b.Defaults)
		for _, v := range b.Vars {
			e.str(v.Name, shortNameSize)
			e.str(v.Extra, extraSize)
			e.u32(v.Offset)
			e.u32(v.Size)
			e.u16(uint16(v.Type))
			e.u16(v.TypeCount)
		}
	}
	for _, vc := range m.VertexInputs {
		e.i32(int32(vc.Format))
		e.i32(int32(vc.Semantic))
		e.u8(vc.SemanticSlot)
	}
	for _, r := range m.Resources {
		e.str(r.Name, shortNameSize)
		e.str(r.Value, extraSize)
		e.str(r.Tags, extraSize)
		e.bind(r.Bind)
	}
	for _, s := range f.Stages {
		e.i32(int32(s.Language))
		e.i32(int32(s.Stage))
		e.u32(uint32(len(s.Code)))
		e.bytes(s.Code)
	}
	return e.err
}

// Verify reports whether data starts like an .sks file, and returns its
// version and shader name.
func Verify(data []byte) (version uint16, name string, ok bool) {
	if len(data) < 10 || string(data[:8]) != Magic {
		return 0, "", false
	}
	version = binary.LittleEndian.Uint16(data[8:])
	if len(data) >= 14+nameSize {
		name = cstr(data[14 : 14+nameSize])
	}
	return version, name, true
}

// Read decodes an .sks file. Name hashes and the global buffer index are
// restored.
func Read(data []byte) (*File, error) {
	version, _, ok := Verify(data)
	if !ok {
		return nil, ErrNotShaderFile
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}

	d := decoder{data: data, at: 10}
	f := &File{Meta: meta.New()}
	m := f.Meta

	stageCount := d.u32()
	m.Name = d.str(nameSize)
	bufferCount := d.u32()
	resourceCount := d.u32()
	inputCount := d.i32()
	for _, ops := range []*meta.Ops{&m.OpsVertex, &m.OpsPixel} {
		ops.Total = d.i32()
		ops.TexRead = d.i32()
		ops.DynamicFlow = d.i32()
	}
	if d.err != nil {
		return nil, d.err
	}

	for i := uint32(0); i < bufferCount && d.err == nil; i++ {
		b := meta.Buffer{Name: d.str(shortNameSize), Bind: d.bind(), Size: d.u32()}
		varCount := d.u32()
		if defaults := d.bytes(int(d.u32())); len(defaults) > 0 {
			b.Defaults = make([]byte, max(int(b.Size), len(defaults)))
			copy(b.Defaults, defaults)
		}
		for v := uint32(0); v < varCount && d.err == nil; v++ {
			b.Vars = append(b.Vars, meta.Var{
				Name:      d.str(shortNameSize),
				Extra:     d.str(extraSize),
				Offset:    d.u32(),
				Size:      d.u32(),
				Type:      meta.VarType(d.u16()),
				TypeCount: d.u16(),
			})
		}
		m.Buffers = append(m.Buffers, b)
		if b.Name == meta.GlobalBufferName {
			m.GlobalBuffer = int(i)
		}
	}
	for i := int32(0); i < inputCount && d.err == nil; i++ {
		m.VertexInputs = append(m.VertexInputs, meta.VertexComponent{
			Format:       meta.Format(d.i32()),
			Semantic:     meta.Semantic(d.i32()),
			SemanticSlot: d.u8(),
		})
	}
	for i := uint32(0); i < resourceCount && d.err == nil; i++ {
		m.Resources = append(m.Resources, meta.Resource{
			Name:  d.str(shortNameSize),
			Value: d.str(extraSize),
			Tags:  d.str(extraSize),
			Bind:  d.bind(),
		})
	}
	for i := uint32(0); i < stageCount && d.err == nil; i++ {
		s := meta.StageBlob{Language: meta.Language(d.i32()), Stage: meta.Stage(d.i32())}
		if code := d.bytes(int(d.u32())); len(code) > 0 {
			s.Code = append([]byte(nil), code...)
		}
		f.Stages = append(f.Stages, s)
	}
	if d.err != nil {
		return nil, d.err
	}

	m.Rehash()
	return f, nil
}

type encoder struct {
	w   io.Writer
	err error
	buf [4]byte
}

func (e *encoder) bytes(p []byte) {
	if e.err == nil && len(p) > 0 {
		_, e.err = e.w.Write(p)
	}
}

func (e *encoder) u8(v uint8) { e.bytes([]byte{v}) }

func (e *encoder) u16(v uint16) {
	binary.LittleEndian.PutUint16(e.buf[:2], v)
	e.bytes(e.buf[:2])
}

func (e *encoder) u32(v uint32) {
	binary.LittleEndian.PutUint32(e.buf[:], v)
	e.bytes(e.buf[:])
}

func (e *encoder) i32(v int32) { e.u32(uint32(v)) }

// str writes s NUL-padded to size bytes, truncated to leave room for the
// terminator.
func (e *encoder) str(s string, size int) {
	field := make([]byte, size)
	copy(field[:size-1], s)
	e.bytes(field)
}

func (e *encoder) bind(b meta.Bind) {
	e.u16(b.Slot)
	e.u8(uint8(b.StageBits))
	e.u8(uint8(b.Register))
}

type decoder struct {
	data []byte
	at   int
	err  error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.at+n > len(d.data) {
		d.err = fmt.Errorf("sks: truncated at offset %d: %w", d.at, io.ErrUnexpectedEOF)
		return nil
	}
	p := d.data[d.at : d.at+n]
	d.at += n
	return p
}

func (d *decoder) u8() uint8 {
	if p := d.bytes(1); p != nil {
		return p[0]
	}
	return 0
}

func (d *decoder) u16() uint16 {
	if p := d.bytes(2); p != nil {
		return binary.LittleEndian.Uint16(p)
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if p := d.bytes(4); p != nil {
		return binary.LittleEndian.Uint32(p)
	}
	return 0
}

func (d *decoder) i32() int32 { return int32(d.u32()) }

func (d *decoder) str(size int) string { return cstr(d.bytes(size)) }

func (d *decoder) bind() meta.Bind {
	return meta.Bind{Slot: d.u16(), StageBits: meta.Stage(d.u8()), Register: meta.Register(d.u8())}
}

func cstr(p []byte) string {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	return string(p)
}
