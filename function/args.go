// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package function

import (
	"fmt"
	"slices"

	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/object"
)

// Args holds the argument expressions of one call while it is bound. Each
// expression can be taken once; ownership passes to the caller.
type Args struct {
	function   string
	positional []expr.Node
	taken      []bool
	named      map[string]expr.Node
}

// NewArgs returns call arguments. It takes ownership of every expression.
// A nil positional entry stands for a null literal.
func NewArgs(positional []expr.Node, named map[string]expr.Node) *Args {
	if named == nil {
		named = map[string]expr.Node{}
	}
	return &Args{positional: positional, taken: make([]bool, len(positional)), named: named}
}

// Len returns the number of positional arguments.
func (a *Args) Len() int {
	return len(a.positional)
}

func (a *Args) slot(i int) (*expr.Node, error) {
	if i < 0 || i >= len(a.positional) {
		return nil, NewConstructionError(a.function, fmt.Sprintf("missing positional argument %d", i))
	}
	return &a.positional[i], nil
}

// Expr takes the i-th positional expression.
func (a *Args) Expr(i int) (expr.Node, error) {
	s, err := a.slot(i)
	if err != nil {
		return nil, err
	}
	if a.taken[i] {
		return nil, NewConstructionError(a.function, fmt.Sprintf("positional argument %d already taken", i))
	}
	a.taken[i] = true
	n := *s
	if n == nil {
		n = expr.NewLiteral(object.NewNull())
	}
	*s = nil
	return n, nil
}

// Object returns a new handle on the value of the i-th positional argument
// if it is a literal. The expression stays in place.
func (a *Args) Object(i int) (object.Object, bool) {
	s, err := a.slot(i)
	if err != nil || a.taken[i] || *s == nil {
		return nil, false
	}
	lit, ok := expr.AsLiteral(*s)
	if !ok {
		return nil, false
	}
	return object.Ref(lit.Value()), true
}

// LiteralString returns the i-th positional argument if it is a string literal.
func (a *Args) LiteralString(i int) (string, bool) {
	o, ok := a.Object(i)
	if !ok {
		return "", false
	}
	defer object.Unref(o)
	return object.ExtractString(o)
}

// IsLiteralNull reports whether the i-th positional argument is a null
// literal or was omitted.
func (a *Args) IsLiteralNull(i int) bool {
	s, err := a.slot(i)
	if err != nil || a.taken[i] {
		return false
	}
	if *s == nil {
		return true
	}
	o, ok := a.Object(i)
	if !ok {
		return false
	}
	defer object.Unref(o)
	return object.IsNull(o)
}

// Has reports whether the named argument was passed and not yet taken.
func (a *Args) Has(name string) bool {
	_, ok := a.named[name]
	return ok
}

// NamedExpr takes a named argument expression. It returns nil if the
// argument was not passed.
func (a *Args) NamedExpr(name string) expr.Node {
	n, ok := a.named[name]
	if !ok {
		return nil
	}
	delete(a.named, name)
	return n
}

func (a *Args) namedLiteral(name string) (object.Object, bool, error) {
	n := a.NamedExpr(name)
	if n == nil {
		return nil, false, nil
	}
	defer n.Free()
	lit, ok := expr.AsLiteral(n)
	if !ok {
		return nil, true, NewConstructionError(a.function, fmt.Sprintf("%s argument must be a literal", name))
	}
	return object.Ref(lit.Value()), true, nil
}

// NamedBool takes a named boolean literal, falling back to def when the
// argument was not passed.
func (a *Args) NamedBool(name string, def bool) (bool, error) {
	o, ok, err := a.namedLiteral(name)
	if err != nil || !ok {
		return def, err
	}
	defer object.Unref(o)
	v, ok := object.ExtractBoolean(o)
	if !ok {
		return def, NewConstructionError(a.function, fmt.Sprintf("%s argument must be boolean literal", name))
	}
	return v, nil
}

// NamedString takes a named string literal, falling back to def when the
// argument was not passed.
func (a *Args) NamedString(name, def string) (string, error) {
	o, ok, err := a.namedLiteral(name)
	if err != nil || !ok {
		return def, err
	}
	defer object.Unref(o)
	v, ok := object.ExtractString(o)
	if !ok {
		return def, NewConstructionError(a.function, fmt.Sprintf("%s argument must be string literal", name))
	}
	return v, nil
}

// takeAll takes every positional expression, substituting null literals
// for omitted ones.
func (a *Args) takeAll() []expr.Node {
	nodes := make([]expr.Node, len(a.positional))
	for i := range a.positional {
		nodes[i], _ = a.Expr(i)
	}
	return nodes
}

// check rejects named arguments that were never taken.
func (a *Args) check() error {
	if len(a.named) == 0 {
		return nil
	}
	names := make([]string, 0, len(a.named))
	for name := range a.named {
		names = append(names, name)
	}
	slices.Sort(names)
	return NewConstructionError(a.function, fmt.Sprintf("unexpected named argument %q", names[0]))
}

// Free releases every expression that has not been taken.
func (a *Args) Free() {
	for i, n := range a.positional {
		if n != nil {
			n.Free()
			a.positional[i] = nil
		}
	}
	for name, n := range a.named {
		n.Free()
		delete(a.named, name)
	}
}
