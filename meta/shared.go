// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package meta

import "sync/atomic"

// Shared is a reference counted owner of a Meta, for handing one metadata
// model to several pipeline objects without copying it. Reference and
// Release are safe for concurrent use.
type Shared struct {
	meta *Meta
	refs atomic.Int32
}

// NewShared wraps m with a reference count of one.
func NewShared(m *Meta) *Shared {
	s := &Shared{meta: m}
	s.refs.Store(1)
	return s
}

// Meta returns the shared model, or nil once the last reference is released.
func (s *Shared) Meta() *Meta {
	if s.refs.Load() <= 0 {
		return nil
	}
	return s.meta
}

// Reference adds a reference and returns s.
func (s *Shared) Reference() *Shared {
	s.refs.Add(1)
	return s
}

// Release drops a reference. It reports true when this call released the
// last one, after which Meta returns nil.
func (s *Shared) Release() bool {
	return s.refs.Add(-1) == 0
}

// Refs returns the current reference count.
func (s *Shared) Refs() int32 {
	return s.refs.Load()
}
