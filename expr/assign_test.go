// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

func TestSetAttr(t *testing.T) {
	t.Parallel()

	rec := object.NewDict()
	ctx := newPass(rec)

	value := expr.NewLiteral(object.NewString("v"))
	set := expr.NewSetAttr(expr.NewRecord(), "a", value)
	require.NoError(t, set.Init(nil))
	assert.True(t, set.IgnoreFalsyResult())

	res := expr.Eval(ctx, set)
	require.NotNil(t, res)
	defer object.Unref(res)
	assert.Zero(t, ctx.ErrorCount())

	stored, ok := rec.Get("a")
	require.True(t, ok)
	defer object.Unref(stored)

	assert.Same(t, stored, res, "result is a handle on the stored clone")
	assert.NotSame(t, value.Value(), object.Unwrap(stored), "stored value is a copy")
	assert.True(t, object.IsWeakReferenceable(stored))
	assert.False(t, object.IsReadonly(stored), "clone of a readonly literal is mutable")
	assert.Equal(t, 1, object.RefCount(value.Value()), "evaluated value was released")

	s, ok := object.ExtractString(stored)
	require.True(t, ok)
	assert.Equal(t, "v", s)
}

func TestSetAttrReadonly(t *testing.T) {
	t.Parallel()

	target := object.NewDict()
	require.NoError(t, target.Set("keep", object.NewInteger(1)))
	container := expr.NewLiteral(target)

	value := newCounter(str("v"))
	set := expr.NewSetAttr(container, "a", value)
	require.NoError(t, set.Init(nil))

	ctx := newPass(object.NewDict())
	assert.Nil(t, expr.Eval(ctx, set))

	assert.Zero(t, value.evals, "value must not be evaluated")
	assert.Equal(t, []string{"keep"}, target.Keys())
	require.Equal(t, 1, ctx.ErrorCount())
	assert.Equal(t, "Attribute set failed, object is readonly", ctx.Errors()[0].Message)
	assert.Equal(t, "setattr", ctx.Errors()[0].Origin.Name())
	assert.Equal(t, exprerr.KindAttribute, ctx.Errors()[0].Kind)
}

func TestSetAttrValueFailure(t *testing.T) {
	t.Parallel()

	rec := object.NewDict()
	ctx := newPass(rec)

	set := expr.NewSetAttr(expr.NewRecord(), "a", newFailing())
	require.NoError(t, set.Init(nil))

	assert.Nil(t, expr.Eval(ctx, set))
	assert.False(t, rec.Has("a"))
	assert.Equal(t, 1, ctx.ErrorCount())
}

func TestSetAttrNotADict(t *testing.T) {
	t.Parallel()

	ctx := newPass(object.NewDict())
	set := expr.NewSetAttr(expr.NewVariable("l"), "a", expr.NewLiteral(object.NewInteger(1)))
	require.NoError(t, set.Init(nil))
	ctx.SetVariable("l", object.NewList())

	assert.Nil(t, expr.Eval(ctx, set))
	require.Equal(t, 1, ctx.ErrorCount())
	assert.Equal(t, "Attribute set failed", ctx.Errors()[0].Message)
}

func TestSetSubscript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial func() object.Object
		key     expr.Node
		want    string
		wantErr string
	}{
		{
			name:    "dict key",
			initial: func() object.Object { return object.NewDict() },
			key:     expr.NewLiteral(object.NewString("k")),
			want:    `{"k":"v"}`,
		},
		{
			name: "list index",
			initial: func() object.Object {
				l := object.NewList()
				_ = l.Append(object.NewString("a"))
				_ = l.Append(object.NewString("b"))
				return l
			},
			key:  expr.NewLiteral(object.NewInteger(-1)),
			want: `["a","v"]`,
		},
		{
			name:    "list append",
			initial: func() object.Object { return object.NewList() },
			want:    `["v"]`,
		},
		{
			name:    "dict with integer key",
			initial: func() object.Object { return object.NewDict() },
			key:     expr.NewLiteral(object.NewInteger(1)),
			wantErr: "Object set-subscript failed",
		},
		{
			name:    "list out of range",
			initial: func() object.Object { return object.NewList() },
			key:     expr.NewLiteral(object.NewInteger(3)),
			wantErr: "Object set-subscript failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := newPass(object.NewDict())
			target := tt.initial()
			ctx.SetVariable("t", target)

			set := expr.NewSetSubscript(expr.NewVariable("t"), tt.key, expr.NewLiteral(object.NewString("v")))
			require.NoError(t, set.Init(nil))
			res := expr.Eval(ctx, set)

			if tt.wantErr != "" {
				assert.Nil(t, res)
				require.Equal(t, 1, ctx.ErrorCount())
				assert.Equal(t, tt.wantErr, ctx.Errors()[0].Message)
				return
			}
			require.NotNil(t, res)
			object.Unref(res)
			assert.Equal(t, tt.want, target.Repr())
		})
	}
}

func TestSetSubscriptReadonly(t *testing.T) {
	t.Parallel()

	value := newCounter(str("v"))
	set := expr.NewSetSubscript(expr.NewLiteral(object.NewList()), nil, value)
	require.NoError(t, set.Init(nil))

	ctx := newPass(object.NewDict())
	assert.Nil(t, expr.Eval(ctx, set))
	assert.Zero(t, value.evals)
	assert.Equal(t, "Object set-subscript failed, object is readonly", ctx.Errors()[0].Message)
}

func TestAssignClonesIntoVariable(t *testing.T) {
	t.Parallel()

	rec := object.NewDict()
	require.NoError(t, rec.Set("list", object.NewList()))
	ctx := newPass(rec)

	assign := expr.NewAssign("copy", expr.NewGetAttr(expr.NewRecord(), "list"))
	appendTo := expr.NewSetSubscript(expr.NewVariable("copy"), nil, expr.NewLiteral(object.NewString("x")))
	block := expr.NewBlock(assign, appendTo)
	require.NoError(t, block.Init(nil))

	res := expr.Eval(ctx, block)
	require.NotNil(t, res)
	object.Unref(res)

	assert.Equal(t, `{"list":[]}`, rec.Repr(), "record is untouched")
	v, ok := ctx.Variable("copy")
	require.True(t, ok)
	defer object.Unref(v)
	assert.Equal(t, `["x"]`, v.Repr())
}

func TestGetAttrAndSubscript(t *testing.T) {
	t.Parallel()

	rec := object.NewDict()
	l := object.NewList()
	require.NoError(t, l.Append(object.NewString("first")))
	require.NoError(t, l.Append(object.NewString("last")))
	require.NoError(t, rec.Set("l", l))
	ctx := newPass(rec)

	get := mustInit(expr.NewGetSubscript(expr.NewGetAttr(expr.NewRecord(), "l"), expr.NewLiteral(object.NewInteger(-1))))
	res := expr.Eval(ctx, get)
	require.NotNil(t, res)
	assert.Equal(t, "last", res.Repr())
	object.Unref(res)

	missing := mustInit(expr.NewGetAttr(expr.NewRecord(), "nope"))
	assert.Nil(t, expr.Eval(ctx, missing))
	assert.Equal(t, "No such attribute", ctx.Errors()[0].Message)
}
