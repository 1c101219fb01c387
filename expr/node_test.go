// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/eval/mocks"
	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/object"
)

func TestLifecycle(t *testing.T) {
	t.Parallel()

	n := newCounter(str("x"))
	assert.Equal(t, expr.StateCreated, n.State())

	require.NoError(t, n.Init(nil))
	assert.Equal(t, expr.StateInitialized, n.State())
	assert.ErrorIs(t, n.Init(nil), expr.ErrInvalidState)

	assert.Panics(t, n.Free, "free of an initialized node")

	n.Deinit(nil)
	assert.Equal(t, expr.StateDeinitialized, n.State())
	n.Deinit(nil)
	assert.Equal(t, expr.StateDeinitialized, n.State())

	require.NoError(t, n.Init(nil), "re-init after deinit")
	n.Deinit(nil)

	n.Free()
	assert.Equal(t, expr.StateFreed, n.State())
	assert.Panics(t, n.Free, "double free")
}

func TestEvalUninitialized(t *testing.T) {
	t.Parallel()

	ctx := newPass(object.NewDict())
	n := newCounter(str("x"))

	assert.Nil(t, expr.Eval(ctx, n))
	assert.Equal(t, 0, n.evals)
	require.Equal(t, 1, ctx.ErrorCount())
	assert.Equal(t, "Expression is not initialized", ctx.Errors()[0].Message)
}

func TestInitRollback(t *testing.T) {
	t.Parallel()

	first := newCounter(str("a"))
	second := newCounter(str("b"))
	broken := newCounter(str("c"))
	broken.initErr = errInit

	block := expr.NewBlock(first, second, broken)
	err := block.Init(nil)

	require.ErrorIs(t, err, errInit)
	assert.Equal(t, expr.StateCreated, block.State())
	assert.Equal(t, 1, first.deinits)
	assert.Equal(t, 1, second.deinits)
	assert.Equal(t, 0, broken.deinits)
	assert.Equal(t, expr.StateDeinitialized, first.State())
	assert.Equal(t, expr.StateCreated, broken.State())

	// Children may be freed from any non-initialized state.
	block.Free()
	assert.Equal(t, expr.StateFreed, first.State())
	assert.Equal(t, expr.StateFreed, broken.State())
}

func TestEvalTracer(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)

	lit := expr.NewLiteral(object.NewInteger(7))
	mustInit(lit)

	ctx := newPass(object.NewDict())
	ctx.SetTracer(tracer)

	gomock.InOrder(
		tracer.EXPECT().Enter(lit),
		tracer.EXPECT().Leave(lit, gomock.Any()).Do(func(_ eval.Origin, res object.Object) {
			v, ok := object.ExtractInteger(res)
			assert.True(t, ok)
			assert.Equal(t, int64(7), v)
		}),
	)

	res := expr.Eval(ctx, lit)
	require.NotNil(t, res)
	object.Unref(res)
}

func TestLiteralReadonly(t *testing.T) {
	t.Parallel()

	d := object.NewDict()
	inner := object.NewList()
	require.NoError(t, d.Set("l", inner))

	lit := expr.NewLiteral(d)
	assert.True(t, object.IsReadonly(lit.Value()))
	assert.True(t, object.IsReadonly(inner))
	assert.ErrorIs(t, inner.Append(object.NewNull()), object.ErrReadonly)

	mustInit(lit)
	ctx := newPass(object.NewDict())
	res := expr.Eval(ctx, lit)
	assert.Same(t, lit.Value(), res)
	assert.Equal(t, 2, object.RefCount(res))
	object.Unref(res)

	lit.Deinit(nil)
	lit.Free()
}

func TestRecordAndVariable(t *testing.T) {
	t.Parallel()

	rec := object.NewDict()
	require.NoError(t, rec.Set("msg", object.NewString("hello")))

	ctx := newPass(rec)
	res := expr.Eval(ctx, mustInit(expr.NewRecord()))
	assert.Same(t, rec, res)
	object.Unref(res)

	v := mustInit(expr.NewVariable("missing"))
	assert.Nil(t, expr.Eval(ctx, v))
	require.Equal(t, 1, ctx.ErrorCount())
	assert.Equal(t, "No such variable", ctx.Errors()[0].Message)

	empty := eval.NewContext()
	assert.Nil(t, expr.Eval(empty, mustInit(expr.NewRecord())))
	assert.Equal(t, "No record is being processed", empty.Errors()[0].Message)
}
