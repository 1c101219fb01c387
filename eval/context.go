// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package eval

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=context.go -destination=mocks/mock_tracer.go -package=mocks Tracer

import (
	"fmt"
	"strings"

	"github.com/stacklok/filterx-core/allocator"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

// Origin identifies the expression node a diagnostic or trace event comes from.
type Origin interface {
	// Name returns a short description of the node, such as "setattr" or a function name.
	Name() string
}

// ErrorEntry is one diagnostic on the error stack.
type ErrorEntry struct {
	Message string
	Origin  Origin
	// Detail is the representation of the offending object, if any.
	Detail string
	// Kind classifies the failure. Unclassified entries are evaluation errors.
	Kind exprerr.Kind
}

// String formats the entry for logs.
func (e ErrorEntry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Origin != nil {
		fmt.Fprintf(&sb, " (in %s)", e.Origin.Name())
	}
	if e.Detail != "" {
		fmt.Fprintf(&sb, ": %s", e.Detail)
	}
	return sb.String()
}

// Tracer observes node evaluation. Implementations are installed by the
// worker pool while every worker is paused.
type Tracer interface {
	// Enter is called before a node is evaluated.
	Enter(origin Origin)
	// Leave is called after a node has been evaluated. result is borrowed
	// and nil when the node produced no value.
	Leave(origin Origin, result object.Object)
}

// Context is the state of one worker's evaluation pass.
type Context struct {
	alloc  *allocator.Allocator
	errs   []ErrorEntry
	record *object.Dict
	vars   map[string]object.Object
	tracer Tracer
}

// Option configures a Context created by [NewContext].
type Option func(*Context)

// WithAllocator sets the region allocator used for scratch storage.
func WithAllocator(a *allocator.Allocator) Option {
	return func(c *Context) {
		c.alloc = a
	}
}

// WithTracer installs an evaluation tracer.
func WithTracer(t Tracer) Option {
	return func(c *Context) {
		c.tracer = t
	}
}

// NewContext creates a Context with an empty record.
func NewContext(opts ...Option) *Context {
	c := &Context{vars: make(map[string]object.Object)}
	for _, opt := range opts {
		opt(c)
	}
	if c.alloc == nil {
		c.alloc = allocator.New()
	}
	return c
}

// Begin starts an evaluation pass over record. Begin takes a new handle on
// record; the previous record and all floating variables are released.
func (c *Context) Begin(record *object.Dict) {
	c.releaseState()
	if record != nil {
		object.Ref(record)
	}
	c.record = record
	c.alloc.Empty()
}

// End releases the record and floating variables of the current pass.
func (c *Context) End() {
	c.releaseState()
	c.alloc.Empty()
}

// Close releases all state including allocator memory. It is meant for
// worker shutdown.
func (c *Context) Close() {
	c.releaseState()
	c.alloc.Clear()
}

func (c *Context) releaseState() {
	if c.record != nil {
		object.Unref(c.record)
		c.record = nil
	}
	for name, v := range c.vars {
		object.Unref(v)
		delete(c.vars, name)
	}
	c.errs = c.errs[:0]
}

// Record returns the record of the current pass. The result is borrowed and
// nil before Begin.
func (c *Context) Record() *object.Dict {
	return c.record
}

// Variable returns a new handle on a floating variable.
func (c *Context) Variable(name string) (object.Object, bool) {
	v, ok := c.vars[name]
	if !ok {
		return nil, false
	}
	return object.Ref(v), true
}

// SetVariable stores value as a floating variable. SetVariable consumes value.
func (c *Context) SetVariable(name string, value object.Object) {
	if old, ok := c.vars[name]; ok {
		object.Unref(old)
	}
	c.vars[name] = value
}

// UnsetVariable removes a floating variable.
func (c *Context) UnsetVariable(name string) bool {
	old, ok := c.vars[name]
	if ok {
		object.Unref(old)
		delete(c.vars, name)
	}
	return ok
}

// Allocate returns scratch storage that stays valid until the end of the
// pass or until the enclosing checkpoint is restored.
func (c *Context) Allocate(size int) []byte {
	return c.alloc.Allocate(size)
}

// Save pushes an allocator checkpoint.
func (c *Context) Save() allocator.Position {
	return c.alloc.Save()
}

// Restore pops an allocator checkpoint. Checkpoints must be restored in
// LIFO order.
func (c *Context) Restore(pos allocator.Position) {
	c.alloc.Restore(pos)
}

// Allocator returns the worker's allocator.
func (c *Context) Allocator() *allocator.Allocator {
	return c.alloc
}

// PushError records a diagnostic. detail is borrowed and may be nil. The
// caller must still return a nil object afterwards.
func (c *Context) PushError(message string, origin Origin, detail object.Object) {
	entry := ErrorEntry{Message: message, Origin: origin}
	if detail != nil {
		entry.Detail = object.Repr(detail)
	}
	c.errs = append(c.errs, entry)
}

// PushErrorf records a diagnostic with a formatted detail string.
func (c *Context) PushErrorf(message string, origin Origin, format string, args ...any) {
	c.errs = append(c.errs, ErrorEntry{
		Message: message,
		Origin:  origin,
		Detail:  fmt.Sprintf(format, args...),
	})
}

// PushErrorKind records a classified diagnostic with a preformatted detail.
func (c *Context) PushErrorKind(kind exprerr.Kind, message string, origin Origin, detail string) {
	c.errs = append(c.errs, ErrorEntry{Message: message, Origin: origin, Detail: detail, Kind: kind})
}

// Errors returns a copy of the error stack, oldest first.
func (c *Context) Errors() []ErrorEntry {
	out := make([]ErrorEntry, len(c.errs))
	copy(out, c.errs)
	return out
}

// ErrorCount returns the number of diagnostics pushed during this pass.
func (c *Context) ErrorCount() int {
	return len(c.errs)
}

// ClearErrors empties the error stack.
func (c *Context) ClearErrors() {
	c.errs = c.errs[:0]
}

// Tracer returns the installed tracer, or nil.
func (c *Context) Tracer() Tracer {
	return c.tracer
}

// SetTracer replaces the tracer. It must only be called while the owning
// worker is not evaluating.
func (c *Context) SetTracer(t Tracer) {
	c.tracer = t
}
