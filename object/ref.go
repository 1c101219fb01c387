// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

// Wrapper wraps an inner object and makes it addressable through weak
// handles. Kind-dependent helpers such as IsType and the Extract functions
// look through the wrapper.
type Wrapper struct {
	header
	value Object
}

// NewWrapper wraps value. NewWrapper consumes value.
func NewWrapper(value Object) *Wrapper {
	r := &Wrapper{value: value}
	r.init()
	r.weak = true
	if IsReadonly(value) {
		r.readonly.Store(true)
	}
	return r
}

// Value returns the wrapped object. The result is borrowed and nil once the
// wrapper has been released.
func (r *Wrapper) Value() Object { return r.value }

// Weak returns a handle that can look up the wrapper without keeping it alive.
func (r *Wrapper) Weak() *WeakHandle {
	return &WeakHandle{target: r}
}

func (*Wrapper) Kind() Kind { return KindRef }

func (r *Wrapper) Truthy() bool { return Truthy(r.value) }

func (r *Wrapper) Len() (int, bool) { return Len(r.value) }

// Clone wraps a full copy of the inner value in a new wrapper.
func (r *Wrapper) Clone() Object { return NewWrapper(Clone(r.value)) }

func (r *Wrapper) Repr() string { return Repr(r.value) }

func (r *Wrapper) release() {
	Unref(r.value)
	r.value = nil
}

// WeakHandle is a non-owning reference to a Wrapper.
type WeakHandle struct {
	target *Wrapper
}

// Get returns a new handle on the target, or nil if the target has already
// been released.
func (w *WeakHandle) Get() Object {
	for {
		n := w.target.refs.Load()
		if n <= 0 {
			return nil
		}
		if w.target.refs.CompareAndSwap(n, n+1) {
			return w.target
		}
	}
}

// Alive reports whether the target is still referenced.
func (w *WeakHandle) Alive() bool {
	return w.target.refs.Load() > 0
}
