// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"

	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

// isReadonly checks both a Wrapper and the value behind it.
func isReadonly(o object.Object) bool {
	return object.IsReadonly(o) || object.IsReadonly(object.Unwrap(o))
}

// evalAssignable evaluates n and returns an exclusively owned clone of its
// value, wrapped for weak references, that a container can adopt.
//
// TODO: drop the unconditional wrap once containers share structure with
// hierarchical copy-on-write.
func evalAssignable(ctx *eval.Context, n Node) object.Object {
	value := Eval(ctx, n)
	if value == nil {
		return nil
	}
	if !object.IsWeakReferenceable(value) {
		value = object.NewWrapper(value)
	}
	cloned := object.Clone(value)
	object.Unref(value)
	return cloned
}

// SetAttr assigns obj.attr = value.
type SetAttr struct {
	Base
	object Node
	attr   string
	value  Node
}

// NewSetAttr returns a node assigning obj.attr. It takes ownership of obj and value.
func NewSetAttr(obj Node, attr string, value Node) *SetAttr {
	s := &SetAttr{Base: NewBase("setattr"), object: obj, attr: attr, value: value}
	s.SetIgnoreFalsyResult(true)
	return s
}

func (s *SetAttr) Init(cfg *Config) error {
	if err := InitAll(cfg, s.object, s.value); err != nil {
		return err
	}
	return s.InitMethod()
}

func (s *SetAttr) Deinit(cfg *Config) {
	DeinitAll(cfg, s.object, s.value)
	s.DeinitMethod()
}

func (s *SetAttr) Free() {
	s.FreeMethod()
	FreeAll(s.object, s.value)
}

// Evaluate performs the assignment and returns a handle on the stored clone.
// A readonly container fails before the new value is evaluated.
func (s *SetAttr) Evaluate(ctx *eval.Context) object.Object {
	obj := Eval(ctx, s.object)
	if obj == nil {
		return nil
	}
	defer object.Unref(obj)

	if isReadonly(obj) {
		ctx.PushErrorKind(exprerr.KindAttribute, "Attribute set failed, object is readonly", s, "attr="+s.attr)
		return nil
	}

	cloned := evalAssignable(ctx, s.value)
	if cloned == nil {
		return nil
	}

	d, ok := object.AsDict(obj)
	if !ok {
		ctx.PushErrorKind(exprerr.KindAttribute, "Attribute set failed", s,
			fmt.Sprintf("attr=%s, type=%s", s.attr, object.TypeName(obj)))
		object.Unref(cloned)
		return nil
	}
	if err := d.Set(s.attr, cloned); err != nil {
		ctx.PushErrorKind(exprerr.KindAttribute, "Attribute set failed", s, fmt.Sprintf("attr=%s: %s", s.attr, err))
		object.Unref(cloned)
		return nil
	}
	return object.Ref(cloned)
}

// SetSubscript assigns obj[key] = value, or appends to a list when key is nil.
type SetSubscript struct {
	Base
	object Node
	key    Node
	value  Node
}

// NewSetSubscript returns a node assigning obj[key]. key may be nil to
// append. It takes ownership of all children.
func NewSetSubscript(obj, key, value Node) *SetSubscript {
	s := &SetSubscript{Base: NewBase("setsubscript"), object: obj, key: key, value: value}
	s.SetIgnoreFalsyResult(true)
	return s
}

func (s *SetSubscript) Init(cfg *Config) error {
	if err := InitAll(cfg, s.object, s.value, s.key); err != nil {
		return err
	}
	return s.InitMethod()
}

func (s *SetSubscript) Deinit(cfg *Config) {
	DeinitAll(cfg, s.object, s.value, s.key)
	s.DeinitMethod()
}

func (s *SetSubscript) Free() {
	s.FreeMethod()
	FreeAll(s.object, s.value, s.key)
}

// Evaluate performs the assignment and returns a handle on the stored clone.
func (s *SetSubscript) Evaluate(ctx *eval.Context) object.Object {
	obj := Eval(ctx, s.object)
	if obj == nil {
		return nil
	}
	defer object.Unref(obj)

	var key object.Object
	if s.key != nil {
		if key = Eval(ctx, s.key); key == nil {
			return nil
		}
		defer object.Unref(key)
	}

	if isReadonly(obj) {
		detail := ""
		if key != nil {
			detail = object.Repr(key)
		}
		ctx.PushErrorKind(exprerr.KindAttribute, "Object set-subscript failed, object is readonly", s, detail)
		return nil
	}

	cloned := evalAssignable(ctx, s.value)
	if cloned == nil {
		return nil
	}

	if err := s.store(obj, key, cloned); err != nil {
		ctx.PushErrorKind(exprerr.KindOf(err), "Object set-subscript failed", s, err.Error())
		object.Unref(cloned)
		return nil
	}
	return object.Ref(cloned)
}

func (s *SetSubscript) store(obj, key, value object.Object) error {
	if d, ok := object.AsDict(obj); ok {
		k, ok := object.ExtractString(key)
		if !ok {
			return errSubscriptKey("dict subscript must be a string", key)
		}
		return d.Set(k, value)
	}
	if l, ok := object.AsList(obj); ok {
		if key == nil {
			return l.Append(value)
		}
		i, ok := object.ExtractInteger(key)
		if !ok {
			return errSubscriptKey("list subscript must be an integer", key)
		}
		return l.Set(int(i), value)
	}
	return errSubscriptKey("object is not a container", obj)
}

// Assign stores value into a floating variable.
type Assign struct {
	Base
	name  string
	value Node
}

// NewAssign returns a node assigning $name = value. It takes ownership of value.
func NewAssign(name string, value Node) *Assign {
	a := &Assign{Base: NewBase("assign"), name: name, value: value}
	a.SetIgnoreFalsyResult(true)
	return a
}

func (a *Assign) Init(cfg *Config) error {
	if err := InitAll(cfg, a.value); err != nil {
		return err
	}
	return a.InitMethod()
}

func (a *Assign) Deinit(cfg *Config) {
	DeinitAll(cfg, a.value)
	a.DeinitMethod()
}

func (a *Assign) Free() {
	a.FreeMethod()
	FreeAll(a.value)
}

// Evaluate stores a clone of the value and returns a handle on it.
func (a *Assign) Evaluate(ctx *eval.Context) object.Object {
	cloned := evalAssignable(ctx, a.value)
	if cloned == nil {
		return nil
	}
	ctx.SetVariable(a.name, cloned)
	return object.Ref(cloned)
}
