// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

func TestRefUnref(t *testing.T) {
	t.Parallel()

	s := object.NewString("x")
	assert.Equal(t, 1, object.RefCount(s))

	same := object.Ref(s)
	assert.Same(t, s, same)
	assert.Equal(t, 2, object.RefCount(s))

	object.Unref(s)
	object.Unref(s)
	assert.Equal(t, 0, object.RefCount(s))

	assert.Panics(t, func() { object.Unref(s) }, "unref past zero must fail fast")
	assert.Panics(t, func() { object.Ref(s) }, "ref of a released object must fail fast")
}

func TestRefUnref_NilIsIgnored(t *testing.T) {
	t.Parallel()

	assert.Nil(t, object.Ref(nil))
	assert.NotPanics(t, func() { object.Unref(nil) })
	assert.Equal(t, 0, object.RefCount(nil))
}

func TestRef_Concurrent(t *testing.T) {
	t.Parallel()

	lit := object.NewInteger(7)
	object.MakeReadonly(lit)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				object.Unref(object.Ref(lit))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, object.RefCount(lit))
}

func TestDict_ReleasesChildren(t *testing.T) {
	t.Parallel()

	child := object.NewString("v")
	d := object.NewDict()
	require.NoError(t, d.Set("k", object.Ref(child)))
	assert.Equal(t, 2, object.RefCount(child))

	object.Unref(d)
	assert.Equal(t, 1, object.RefCount(child))
	object.Unref(child)
}

func TestDict_Operations(t *testing.T) {
	t.Parallel()

	d := object.NewDict()
	defer object.Unref(d)

	require.NoError(t, d.Set("a", object.NewInteger(1)))
	require.NoError(t, d.Set("b", object.NewInteger(2)))
	require.NoError(t, d.Set("a", object.NewInteger(3)))

	assert.Equal(t, []string{"a", "b"}, d.Keys())

	v, ok := d.Get("a")
	require.True(t, ok)
	n, _ := object.ExtractInteger(v)
	assert.Equal(t, int64(3), n)
	object.Unref(v)

	_, ok = d.Get("missing")
	assert.False(t, ok)

	require.NoError(t, d.Unset("a"))
	assert.ErrorIs(t, d.Unset("a"), object.ErrKeyNotFound)
	assert.Equal(t, []string{"b"}, d.Keys())

	assert.ErrorIs(t, d.Set("x", nil), object.ErrNilValue)
}

func TestDict_IterEarlyExit(t *testing.T) {
	t.Parallel()

	d := object.NewDict()
	defer object.Unref(d)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, d.Set(k, object.NewNull()))
	}

	var seen []string
	completed := d.Iter(func(key string, _ object.Object) bool {
		seen = append(seen, key)
		return key != "b"
	})

	assert.False(t, completed)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestList_Operations(t *testing.T) {
	t.Parallel()

	l := object.NewList()
	defer object.Unref(l)

	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, l.Append(object.NewString(s)))
	}

	last, ok := l.Get(-1)
	require.True(t, ok)
	assert.Equal(t, "c", object.Repr(last))
	object.Unref(last)

	require.NoError(t, l.Set(0, object.NewString("z")))
	require.NoError(t, l.Unset(1))
	assert.Equal(t, `["z","c"]`, l.Repr())

	assert.ErrorIs(t, l.Unset(5), object.ErrIndexOutOfRange)
	_, ok = l.Get(2)
	assert.False(t, ok)
}

func TestReadonly_RejectsMutation(t *testing.T) {
	t.Parallel()

	d := object.NewDict()
	require.NoError(t, d.Set("inner", object.NewList()))
	object.MakeReadonly(d)
	defer object.Unref(d)

	err := d.Set("k", object.NewNull())
	require.Error(t, err)
	assert.ErrorIs(t, err, object.ErrReadonly)
	assert.Equal(t, exprerr.KindAttribute, exprerr.KindOf(err))
	assert.ErrorIs(t, d.Unset("inner"), object.ErrReadonly)

	inner, _ := d.Get("inner")
	l, _ := object.AsList(inner)
	assert.ErrorIs(t, l.Append(object.NewNull()), object.ErrReadonly)
	object.Unref(inner)

	assert.Equal(t, []string{"inner"}, d.Keys())
}

func TestClone_IsDecoupled(t *testing.T) {
	t.Parallel()

	src := object.NewDict()
	nested := object.NewList()
	require.NoError(t, nested.Append(object.NewString("x")))
	require.NoError(t, src.Set("list", nested))
	object.MakeReadonly(src)
	defer object.Unref(src)

	c := object.Clone(src)
	defer object.Unref(c)

	require.NotSame(t, src, c)
	assert.False(t, object.IsReadonly(c), "clones are mutable")
	assert.Equal(t, 1, object.RefCount(c))

	cd, ok := object.AsDict(c)
	require.True(t, ok)
	inner, _ := cd.Get("list")
	il, _ := object.AsList(inner)
	require.NoError(t, il.Append(object.NewString("y")))
	object.Unref(inner)

	assert.Equal(t, `{"list":["x"]}`, src.Repr())
	assert.Equal(t, `{"list":["x","y"]}`, c.Repr())
}

func TestClone_StringCopiesStorage(t *testing.T) {
	t.Parallel()

	buf := []byte("scratch")
	s := object.NewStringBytes(buf)
	c := object.Clone(s)

	copy(buf, "XXXXXXX")
	assert.Equal(t, "XXXXXXX", s.Value())
	assert.Equal(t, "scratch", object.Repr(c))
}

func TestWrapper(t *testing.T) {
	t.Parallel()

	d := object.NewDict()
	r := object.NewWrapper(d)

	assert.True(t, object.IsWeakReferenceable(r))
	assert.False(t, object.IsWeakReferenceable(d))
	assert.True(t, object.IsType(r, object.KindDict))
	assert.Same(t, d, object.Unwrap(r))

	c := object.Clone(r)
	require.IsType(t, &object.Wrapper{}, c)
	assert.NotSame(t, d, object.Unwrap(c))

	object.Unref(c)
	object.Unref(r)
	assert.Equal(t, 0, object.RefCount(d), "releasing the wrapper releases the wrapped value")
}

func TestWeakHandle(t *testing.T) {
	t.Parallel()

	r := object.NewWrapper(object.NewString("v"))
	weak := r.Weak()

	got := weak.Get()
	require.NotNil(t, got)
	assert.Equal(t, 2, object.RefCount(r))
	object.Unref(got)
	assert.Equal(t, 1, object.RefCount(r), "weak handles do not extend lifetime")

	object.Unref(r)
	assert.False(t, weak.Alive())
	assert.Nil(t, weak.Get())
}

func TestTruthyAndLen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		obj    object.Object
		truthy bool
		length int
		hasLen bool
	}{
		{"null", object.NewNull(), false, 0, false},
		{"true", object.NewBoolean(true), true, 0, false},
		{"zero", object.NewInteger(0), false, 0, false},
		{"double", object.NewDouble(0.5), true, 0, false},
		{"empty string", object.NewString(""), false, 0, true},
		{"string", object.NewString("abc"), true, 3, true},
		{"bytes", object.NewBytes([]byte{1, 2}), true, 2, true},
		{"datetime", object.NewDateTime(time.Unix(0, 0)), true, 0, false},
		{"empty dict", object.NewDict(), false, 0, true},
		{"empty list", object.NewList(), false, 0, true},
		{"message null", object.NewMessageValue(object.MessageNull, nil), false, 0, false},
		{"message false", object.NewMessageValue(object.MessageBoolean, []byte("false")), false, 0, false},
		{"message string", object.NewMessageValue(object.MessageString, []byte("ab")), true, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			defer object.Unref(tt.obj)
			assert.Equal(t, tt.truthy, object.Truthy(tt.obj))
			n, ok := object.Len(tt.obj)
			assert.Equal(t, tt.hasLen, ok)
			assert.Equal(t, tt.length, n)
		})
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("string from message value", func(t *testing.T) {
		t.Parallel()
		s, ok := object.ExtractString(object.NewMessageValue(object.MessageString, []byte("hi")))
		assert.True(t, ok)
		assert.Equal(t, "hi", s)
	})

	t.Run("integer message value is not a string", func(t *testing.T) {
		t.Parallel()
		_, ok := object.ExtractString(object.NewMessageValue(object.MessageInteger, []byte("12")))
		assert.False(t, ok)
	})

	t.Run("integer from message value", func(t *testing.T) {
		t.Parallel()
		n, ok := object.ExtractInteger(object.NewMessageValue(object.MessageInteger, []byte("12")))
		assert.True(t, ok)
		assert.Equal(t, int64(12), n)
	})

	t.Run("double widens integer", func(t *testing.T) {
		t.Parallel()
		f, ok := object.ExtractDouble(object.NewInteger(3))
		assert.True(t, ok)
		assert.InDelta(t, 3.0, f, 0)
	})

	t.Run("datetime from message value", func(t *testing.T) {
		t.Parallel()
		ts, ok := object.ExtractDateTime(object.NewMessageValue(object.MessageDateTime, []byte("2024-01-15T10:30:00Z")))
		require.True(t, ok)
		assert.Equal(t, 2024, ts.Year())
	})

	t.Run("through ref wrapper", func(t *testing.T) {
		t.Parallel()
		b, ok := object.ExtractBoolean(object.NewWrapper(object.NewBoolean(true)))
		assert.True(t, ok)
		assert.True(t, b)
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()
		_, ok := object.ExtractBytes(object.NewString("x"))
		assert.False(t, ok)
		assert.False(t, object.IsNull(object.NewString("")))
		assert.True(t, object.IsNull(object.NewMessageValue(object.MessageNull, nil)))
	})
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dict", object.KindDict.String())
	assert.Equal(t, "message_value", object.TypeName(object.NewMessageValue(object.MessageString, nil)))
	assert.Equal(t, "list", object.TypeName(object.NewWrapper(object.NewList())))
	assert.True(t, errors.Is(object.ErrReadonly, object.ErrReadonly))
}
