// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/object"
)

// GetAttr reads a named attribute of a dict.
type GetAttr struct {
	Base
	object Node
	attr   string
}

// NewGetAttr returns a node reading obj.attr. NewGetAttr takes ownership of obj.
func NewGetAttr(obj Node, attr string) *GetAttr {
	return &GetAttr{Base: NewBase("getattr"), object: obj, attr: attr}
}

func (g *GetAttr) Init(cfg *Config) error {
	if err := InitAll(cfg, g.object); err != nil {
		return err
	}
	return g.InitMethod()
}

func (g *GetAttr) Deinit(cfg *Config) {
	DeinitAll(cfg, g.object)
	g.DeinitMethod()
}

func (g *GetAttr) Free() {
	g.FreeMethod()
	FreeAll(g.object)
}

// Evaluate returns a new handle on the attribute value.
func (g *GetAttr) Evaluate(ctx *eval.Context) object.Object {
	obj := Eval(ctx, g.object)
	if obj == nil {
		return nil
	}
	defer object.Unref(obj)

	d, ok := object.AsDict(obj)
	if !ok {
		ctx.PushErrorf("Attribute lookup failed, object is not a dict", g, "attr=%s, type=%s", g.attr, object.TypeName(obj))
		return nil
	}
	v, ok := d.Get(g.attr)
	if !ok {
		ctx.PushErrorf("No such attribute", g, "attr=%s", g.attr)
		return nil
	}
	return v
}

// GetSubscript reads obj[key] from a dict (string key) or a list (integer key).
type GetSubscript struct {
	Base
	object Node
	key    Node
}

// NewGetSubscript returns a node reading obj[key]. It takes ownership of
// both children.
func NewGetSubscript(obj, key Node) *GetSubscript {
	return &GetSubscript{Base: NewBase("getsubscript"), object: obj, key: key}
}

func (g *GetSubscript) Init(cfg *Config) error {
	if err := InitAll(cfg, g.object, g.key); err != nil {
		return err
	}
	return g.InitMethod()
}

func (g *GetSubscript) Deinit(cfg *Config) {
	DeinitAll(cfg, g.object, g.key)
	g.DeinitMethod()
}

func (g *GetSubscript) Free() {
	g.FreeMethod()
	FreeAll(g.object, g.key)
}

// Evaluate returns a new handle on the element.
func (g *GetSubscript) Evaluate(ctx *eval.Context) object.Object {
	obj := Eval(ctx, g.object)
	if obj == nil {
		return nil
	}
	defer object.Unref(obj)

	key := Eval(ctx, g.key)
	if key == nil {
		return nil
	}
	defer object.Unref(key)

	if d, ok := object.AsDict(obj); ok {
		k, ok := object.ExtractString(key)
		if !ok {
			ctx.PushError("Dict subscript must be a string", g, key)
			return nil
		}
		v, ok := d.Get(k)
		if !ok {
			ctx.PushError("No such key", g, key)
			return nil
		}
		return v
	}

	if l, ok := object.AsList(obj); ok {
		i, ok := object.ExtractInteger(key)
		if !ok {
			ctx.PushError("List subscript must be an integer", g, key)
			return nil
		}
		v, ok := l.Get(int(i))
		if !ok {
			ctx.PushError("List index out of range", g, key)
			return nil
		}
		return v
	}

	ctx.PushErrorf("Subscript lookup failed, object is not a container", g, "type=%s", object.TypeName(obj))
	return nil
}
