// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/filterx-core/allocator"
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

type origin string

func (o origin) Name() string { return string(o) }

func TestBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fn         func() (object.Object, error)
		wantValue  bool
		wantDetail string
	}{
		{
			name:      "value passes through",
			fn:        func() (object.Object, error) { return object.NewInteger(1), nil },
			wantValue: true,
		},
		{
			name:       "error becomes one diagnostic",
			fn:         func() (object.Object, error) { return nil, errors.New("unsupported type") },
			wantDetail: "unsupported type",
		},
		{
			name:       "error discards a partial value",
			fn:         func() (object.Object, error) { return object.NewString("partial"), errors.New("truncated") },
			wantDetail: "truncated",
		},
		{
			name:       "panic becomes one diagnostic",
			fn:         func() (object.Object, error) { panic("nested too deep") },
			wantDetail: "panic: nested too deep",
		},
		{
			name:       "missing value",
			fn:         func() (object.Object, error) { return nil, nil },
			wantDetail: "consumer returned no value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := eval.NewContext()
			res := Boundary(ctx, origin("protobuf"), "Marshal failed", tt.fn)

			if tt.wantValue {
				assert.NotNil(t, res)
				assert.Zero(t, ctx.ErrorCount())
				return
			}
			assert.Nil(t, res)
			require.Equal(t, 1, ctx.ErrorCount())
			entry := ctx.Errors()[0]
			assert.Equal(t, "Marshal failed", entry.Message)
			assert.Equal(t, "protobuf", entry.Origin.Name())
			assert.Equal(t, tt.wantDetail, entry.Detail)
		})
	}
}

func TestBoundary_FatalPropagates(t *testing.T) {
	t.Parallel()

	violation := &allocator.ProtocolViolation{Expected: 1, Got: 0}
	ctx := eval.NewContext()

	assert.PanicsWithValue(t, violation, func() {
		Boundary(ctx, origin("x"), "failed", func() (object.Object, error) {
			panic(violation)
		})
	})
	assert.Zero(t, ctx.ErrorCount())
}

func TestGuard(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Guard(func() error { return nil }))

	want := errors.New("plain")
	assert.ErrorIs(t, Guard(func() error { return want }), want)

	err := Guard(func() error { panic("boom") })
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)

	fatal := exprerr.New("restore out of order", exprerr.KindAllocatorProtocol)
	assert.Panics(t, func() {
		_ = Guard(func() error { panic(fatal) })
	})
}
