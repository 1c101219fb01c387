// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package marshal_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stacklok/filterx-core/marshal"
	"github.com/stacklok/filterx-core/object"
)

func sampleRecord(t *testing.T) *object.Dict {
	t.Helper()
	d, err := marshal.DecodeRecord([]byte(`{"msg":"hello","pid":42,"ratio":0.5,"ok":true,"none":null,"tags":["a","b"],"json":{"z":1,"a":2}}`))
	require.NoError(t, err)
	return d
}

func TestDecodeJSON_KeepsOrder(t *testing.T) {
	t.Parallel()

	d := sampleRecord(t)
	defer object.Unref(d)

	assert.Equal(t, []string{"msg", "pid", "ratio", "ok", "none", "tags", "json"}, d.Keys())

	pid, _ := d.Get("pid")
	defer object.Unref(pid)
	assert.True(t, object.IsType(pid, object.KindInteger))

	ratio, _ := d.Get("ratio")
	defer object.Unref(ratio)
	assert.True(t, object.IsType(ratio, object.KindDouble))

	nested, _ := d.Get("json")
	defer object.Unref(nested)
	nd, ok := object.AsDict(nested)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a"}, nd.Keys())
}

func TestDecodeJSON_Errors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`{"a":`, `{"a":1} {}`, `[1,2`, ``} {
		_, err := marshal.DecodeJSON([]byte(in))
		assert.ErrorIs(t, err, marshal.ErrInvalidJSON, in)
	}

	_, err := marshal.DecodeRecord([]byte(`[1]`))
	assert.ErrorIs(t, err, marshal.ErrInvalidJSON)

	_, err = marshal.DecodeRecord([]byte(`{"host":"a","nested":{"k":1,"k":2}}`))
	require.ErrorIs(t, err, marshal.ErrInvalidJSON)
	assert.Contains(t, err.Error(), `duplicate object key "k"`)

	deep := strings.Repeat("[", marshal.MaxDepth+2) + strings.Repeat("]", marshal.MaxDepth+2)
	_, err = marshal.DecodeJSON([]byte(deep))
	assert.ErrorIs(t, err, marshal.ErrTooDeep)
}

func TestEncodeJSON(t *testing.T) {
	t.Parallel()

	d := sampleRecord(t)
	defer object.Unref(d)

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, d.Set("at", object.NewDateTime(ts)))
	require.NoError(t, d.Set("raw", object.NewBytes([]byte{0xde, 0xad})))
	require.NoError(t, d.Set("mv", object.NewMessageValue(object.MessageInteger, []byte("7"))))
	require.NoError(t, d.Set("doc", object.NewMessageValue(object.MessageJSON, []byte(`{ "k" : [1, 2] }`))))
	require.NoError(t, d.Set("wrapped", object.NewWrapper(object.NewString("w"))))

	out, err := marshal.EncodeJSON(d)
	require.NoError(t, err)
	assert.Equal(t,
		`{"msg":"hello","pid":42,"ratio":0.5,"ok":true,"none":null,"tags":["a","b"],"json":{"z":1,"a":2},`+
			`"at":"2026-03-01T12:00:00Z","raw":"3q0=","mv":7,"doc":{"k":[1,2]},"wrapped":"w"}`,
		string(out))
}

func TestNativeRoundTrip(t *testing.T) {
	t.Parallel()

	native := map[string]any{
		"s": "x",
		"i": int64(3),
		"f": 1.5,
		"b": false,
		"n": nil,
		"l": []any{"a", int64(1)},
		"m": map[string]any{"k": "v"},
	}

	o, err := marshal.FromNative(native)
	require.NoError(t, err)
	defer object.Unref(o)

	back, err := marshal.ToNative(o)
	require.NoError(t, err)
	assert.Equal(t, native, back)
}

func TestToNative_MessageValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ     object.MessageType
		raw     string
		want    any
		wantErr bool
	}{
		{typ: object.MessageString, raw: "s", want: "s"},
		{typ: object.MessageInteger, raw: "12", want: int64(12)},
		{typ: object.MessageDouble, raw: "1.25", want: 1.25},
		{typ: object.MessageBoolean, raw: "true", want: true},
		{typ: object.MessageNull, raw: "", want: nil},
		{typ: object.MessageJSON, raw: `{"a":[1]}`, want: map[string]any{"a": []any{int64(1)}}},
		{typ: object.MessageInteger, raw: "twelve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := marshal.ToNative(object.NewMessageValue(tt.typ, []byte(tt.raw)))
			if tt.wantErr {
				assert.ErrorIs(t, err, marshal.ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromNative_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := marshal.FromNative(map[string]any{"ch": make(chan int)})
	assert.ErrorIs(t, err, marshal.ErrUnsupported)

	_, err = marshal.ToNative(nil)
	assert.ErrorIs(t, err, marshal.ErrMissing)
}

func TestProtoRoundTrip(t *testing.T) {
	t.Parallel()

	d := sampleRecord(t)
	defer object.Unref(d)

	b, err := marshal.MarshalBinary(d)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	again, err := marshal.MarshalBinary(d)
	require.NoError(t, err)
	assert.Equal(t, b, again, "serialization is deterministic")

	back, err := marshal.UnmarshalBinary(b)
	require.NoError(t, err)
	defer object.Unref(back)

	assert.Equal(t, `{"json":{"a":2,"z":1},"msg":"hello","none":null,"ok":true,"pid":42,"ratio":0.5,"tags":["a","b"]}`, back.Repr())
}

func TestToProto(t *testing.T) {
	t.Parallel()

	v, err := marshal.ToProto(object.NewDateTime(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02T03:04:05Z", v.GetStringValue())

	v, err = marshal.ToProto(object.NewBytes([]byte("hi")))
	require.NoError(t, err)
	assert.Equal(t, "aGk=", v.GetStringValue())

	o, err := marshal.FromProto(structpb.NewNumberValue(2.5))
	require.NoError(t, err)
	assert.True(t, object.IsType(o, object.KindDouble))
}
