// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package function

import (
	"fmt"
	"slices"
	"sync"

	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/validation/name"
)

// ErrDuplicate is returned when registering a name twice.
var ErrDuplicate = exprerr.New("function already registered", exprerr.KindConstruction)

type entry struct {
	ctor   Ctor
	simple SimpleFunc
}

// Registry maps function names to their implementations. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

func (r *Registry) add(fname string, e entry) error {
	if err := name.ValidateFunction(fname); err != nil {
		return exprerr.WithKind(err, exprerr.KindConstruction)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[fname]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, fname)
	}
	r.entries[fname] = e
	return nil
}

// Register adds a function implemented by a ctor.
func (r *Registry) Register(fname string, ctor Ctor) error {
	return r.add(fname, entry{ctor: ctor})
}

// RegisterSimple adds a function implemented over evaluated arguments.
func (r *Registry) RegisterSimple(fname string, fn SimpleFunc) error {
	return r.add(fname, entry{simple: fn})
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup binds args to the function fname and returns the call node. Lookup
// consumes args: expressions not taken by the function are freed, on
// success and on failure alike.
func (r *Registry) Lookup(fname string, args *Args) (expr.Node, error) {
	defer args.Free()
	args.function = fname

	r.mu.RLock()
	e, ok := r.entries[fname]
	r.mu.RUnlock()
	if !ok {
		return nil, errFunctionNotFound(fname)
	}

	if e.simple != nil {
		if err := args.check(); err != nil {
			return nil, err
		}
		return NewSimple(fname, args.takeAll(), e.simple), nil
	}

	n, err := e.ctor(fname, args)
	if err != nil {
		return nil, err
	}
	if err := args.check(); err != nil {
		n.Free()
		return nil, err
	}
	return n, nil
}
