// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/object"
)

const unsetEmptiesUsage = "Usage: unset_empties(object, recursive=true)"

// UnsetEmpties removes empty members from a dict or list in place.
type UnsetEmpties struct {
	function.Function
	object    expr.Node
	recursive bool
}

// NewUnsetEmpties binds unset_empties(object, recursive=true).
func NewUnsetEmpties(name string, args *function.Args) (expr.Node, error) {
	if args.Len() != 1 {
		return nil, function.NewConstructionError(name, "invalid number of arguments").WithUsage(unsetEmptiesUsage)
	}
	recursive, err := args.NamedBool("recursive", true)
	if err != nil {
		var ce *function.ConstructionError
		if errors.As(err, &ce) {
			return nil, ce.WithUsage(unsetEmptiesUsage)
		}
		return nil, err
	}
	obj, err := args.Expr(0)
	if err != nil {
		return nil, err
	}
	return &UnsetEmpties{Function: function.NewFunction(name), object: obj, recursive: recursive}, nil
}

func (u *UnsetEmpties) Init(cfg *expr.Config) error {
	if err := u.object.Init(cfg); err != nil {
		return err
	}
	return u.InitMethod()
}

func (u *UnsetEmpties) Deinit(cfg *expr.Config) {
	u.object.Deinit(cfg)
	u.DeinitMethod()
}

func (u *UnsetEmpties) Free() {
	u.FreeMethod()
	u.object.Free()
	u.object = nil
}

// Evaluate prunes the container and returns true.
func (u *UnsetEmpties) Evaluate(ctx *eval.Context) object.Object {
	obj := expr.Eval(ctx, u.object)
	if obj == nil {
		ctx.PushError("Failed to evaluate first argument. "+unsetEmptiesUsage, u, nil)
		return nil
	}
	defer object.Unref(obj)

	if !object.IsType(obj, object.KindDict) && !object.IsType(obj, object.KindList) {
		return function.ArgumentError(ctx, u, "Object must be dict or list", unsetEmptiesUsage)
	}
	if err := u.prune(obj); err != nil {
		ctx.PushErrorf("Failed to unset empty members", u, "%s", err)
		return nil
	}
	return object.NewBoolean(true)
}

// member is one slot of a dict or list.
type member struct {
	key   string
	index int
	value object.Object
}

// members returns the slots of a container. List slots are returned last
// first so removing one never shifts the index of a slot still to visit.
// It reports false for non-containers.
func members(o object.Object) ([]member, bool) {
	var ms []member
	switch c := object.Unwrap(o).(type) {
	case *object.Dict:
		c.Iter(func(key string, value object.Object) bool {
			ms = append(ms, member{key: key, value: value})
			return true
		})
	case *object.List:
		n, _ := c.Len()
		ms = make([]member, 0, n)
		c.Iter(func(index int, value object.Object) bool {
			ms = append(ms, member{index: index, value: value})
			return true
		})
		for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
			ms[i], ms[j] = ms[j], ms[i]
		}
	default:
		return nil, false
	}
	return ms, true
}

func unsetMember(o object.Object, m member) error {
	switch c := object.Unwrap(o).(type) {
	case *object.Dict:
		return c.Unset(m.key)
	case *object.List:
		return c.Unset(m.index)
	}
	return fmt.Errorf("cannot unset member of %s", object.TypeName(o))
}

// prune walks o depth first and removes empty members. Children are pruned
// before their own emptiness is judged, so a dict emptied by pruning is
// removed from its parent too.
func (u *UnsetEmpties) prune(o object.Object) error {
	ms, ok := members(o)
	if !ok {
		return nil
	}
	for _, m := range ms {
		if u.recursive {
			if err := u.prune(m.value); err != nil {
				return err
			}
		}
		if !isEmpty(m.value) {
			continue
		}
		if err := unsetMember(o, m); err != nil {
			return fmt.Errorf("unset %s: %w", describe(m, o), err)
		}
	}
	return nil
}

func describe(m member, o object.Object) string {
	if object.IsType(o, object.KindList) {
		return fmt.Sprintf("index %d", m.index)
	}
	return fmt.Sprintf("key %q", m.key)
}

func isEmpty(o object.Object) bool {
	if s, ok := object.ExtractString(o); ok {
		return s == "" || s == "-" || strings.EqualFold(s, "n/a")
	}
	if object.IsNull(o) {
		return true
	}
	if object.IsType(o, object.KindDict) || object.IsType(o, object.KindList) {
		n, _ := object.Len(o)
		return n == 0
	}
	return false
}
