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

func TestCompilePattern(t *testing.T) {
	t.Parallel()

	re, err := expr.CompilePattern(`^(?P<k>\w+)=`)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "k"}, re.SubexpNames())

	_, err = expr.CompilePattern(`[a-`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to compile regexp pattern "[a-"`)
	assert.Equal(t, exprerr.KindConstruction, exprerr.KindOf(err))
}

func TestRegexpMatchNegate(t *testing.T) {
	t.Parallel()

	for _, negate := range []bool{false, true} {
		lhs := newCounter(str("abc"))
		m, err := expr.NewRegexpMatch(lhs, `b`, negate)
		require.NoError(t, err)
		require.NoError(t, m.Init(nil))

		ctx := newPass(object.NewDict())
		res := expr.Eval(ctx, m)
		require.NotNil(t, res)

		got, ok := object.ExtractBoolean(res)
		require.True(t, ok)
		assert.Equal(t, !negate, got)
		assert.Equal(t, 1, lhs.evals)
		object.Unref(res)
		ctx.Close()

		if negate {
			assert.Equal(t, "regexp_not_match", m.Name())
		} else {
			assert.Equal(t, "regexp_match", m.Name())
		}
		m.Deinit(nil)
		m.Free()
	}
}

func TestRegexpFailingOperand(t *testing.T) {
	t.Parallel()

	m, err := expr.NewRegexpMatch(newFailing(), `x`, false)
	require.NoError(t, err)
	s, err := expr.NewRegexpSearch(newFailing(), `x`)
	require.NoError(t, err)

	for _, n := range []expr.Node{m, s} {
		require.NoError(t, n.Init(nil))
		ctx := newPass(object.NewDict())
		assert.Nil(t, expr.Eval(ctx, n))
		require.Equal(t, 1, ctx.ErrorCount())
		assert.Equal(t, "boom", ctx.Errors()[0].Message, "operand error is not masked")
		ctx.Close()
	}
}
