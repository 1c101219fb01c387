// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/object"
)

// Literal evaluates to a constant known at compile time. The constant is
// made readonly because the tree is shared between workers.
type Literal struct {
	Base
	value object.Object
}

// NewLiteral returns a literal node. NewLiteral consumes value.
func NewLiteral(value object.Object) *Literal {
	object.MakeReadonly(value)
	return &Literal{Base: NewBase("literal"), value: value}
}

// Value returns the constant. The result is borrowed.
func (l *Literal) Value() object.Object { return l.value }

// Evaluate returns a new handle on the constant.
func (l *Literal) Evaluate(*eval.Context) object.Object {
	return object.Ref(l.value)
}

// Free releases the constant.
func (l *Literal) Free() {
	l.FreeMethod()
	object.Unref(l.value)
	l.value = nil
}

// AsLiteral returns n as a literal node, if it is one.
func AsLiteral(n Node) (*Literal, bool) {
	l, ok := n.(*Literal)
	return l, ok
}

// Record evaluates to the record of the current pass.
type Record struct {
	Base
}

// NewRecord returns a node referring to the current record.
func NewRecord() *Record {
	return &Record{Base: NewBase("record")}
}

// Evaluate returns a new handle on the current record.
func (r *Record) Evaluate(ctx *eval.Context) object.Object {
	rec := ctx.Record()
	if rec == nil {
		ctx.PushError("No record is being processed", r, nil)
		return nil
	}
	return object.Ref(rec)
}

// Variable evaluates to a floating variable of the current pass.
type Variable struct {
	Base
	name string
}

// NewVariable returns a node reading the floating variable name.
func NewVariable(name string) *Variable {
	return &Variable{Base: NewBase("$" + name), name: name}
}

// Evaluate returns a new handle on the variable's value.
func (v *Variable) Evaluate(ctx *eval.Context) object.Object {
	val, ok := ctx.Variable(v.name)
	if !ok {
		ctx.PushErrorf("No such variable", v, "name=%s", v.name)
		return nil
	}
	return val
}
