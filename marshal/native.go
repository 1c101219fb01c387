// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package marshal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

// MaxDepth bounds the nesting of containers that can be converted.
const MaxDepth = 64

var (
	// ErrUnsupported is returned for values that have no conversion.
	ErrUnsupported = exprerr.New("unsupported value", exprerr.KindTypeCoercion)

	// ErrTooDeep is returned when nesting exceeds MaxDepth.
	ErrTooDeep = exprerr.New("value is nested too deeply", exprerr.KindTypeCoercion)

	// ErrMissing is returned when converting a nil Object.
	ErrMissing = exprerr.New("missing value", exprerr.KindTypeCoercion)
)

// ToNative converts o to plain Go values: nil, bool, int64, float64, string,
// []byte, time.Time, map[string]any and []any. JSON-typed message values are
// decoded.
func ToNative(o object.Object) (any, error) {
	return toNative(o, 0)
}

func toNative(o object.Object, depth int) (any, error) {
	if o == nil {
		return nil, ErrMissing
	}
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch v := object.Unwrap(o).(type) {
	case *object.Null:
		return nil, nil
	case *object.Boolean:
		return v.Value(), nil
	case *object.Integer:
		return v.Value(), nil
	case *object.Double:
		return v.Value(), nil
	case *object.DateTime:
		return v.Value(), nil
	case *object.String:
		return v.Value(), nil
	case *object.Bytes:
		return bytes.Clone(v.Value()), nil
	case *object.Protobuf:
		return bytes.Clone(v.Value()), nil
	case *object.MessageValue:
		return messageToNative(v, depth)
	case *object.Dict:
		out := make(map[string]any, len(v.Keys()))
		var err error
		v.Iter(func(k string, elem object.Object) bool {
			out[k], err = toNative(elem, depth+1)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case *object.List:
		n, _ := v.Len()
		out := make([]any, 0, n)
		var err error
		v.Iter(func(_ int, elem object.Object) bool {
			var native any
			native, err = toNative(elem, depth+1)
			out = append(out, native)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, object.TypeName(o))
}

func messageToNative(m *object.MessageValue, depth int) (any, error) {
	var (
		native any
		ok     bool
	)
	switch m.Type() {
	case object.MessageString:
		native, ok = object.ExtractString(m)
	case object.MessageBoolean:
		native, ok = object.ExtractBoolean(m)
	case object.MessageInteger:
		native, ok = object.ExtractInteger(m)
	case object.MessageDouble:
		native, ok = object.ExtractDouble(m)
	case object.MessageDateTime:
		native, ok = object.ExtractDateTime(m)
	case object.MessageNull:
		return nil, nil
	case object.MessageBytes, object.MessageProtobuf:
		return bytes.Clone(m.Raw()), nil
	case object.MessageJSON:
		doc, err := DecodeJSON(m.Raw())
		if err != nil {
			return nil, err
		}
		defer object.Unref(doc)
		return toNative(doc, depth)
	}
	if !ok {
		return nil, fmt.Errorf("%w: cannot decode %s message value %q", ErrUnsupported, m.Type(), m.Raw())
	}
	return native, nil
}

// FromNative converts a Go value into a new owned Object. It accepts the
// values produced by ToNative as well as other integer and float widths,
// json.Number and map[string]string.
func FromNative(v any) (object.Object, error) {
	return fromNative(v, 0)
}

func fromNative(v any, depth int) (object.Object, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch v := v.(type) {
	case nil:
		return object.NewNull(), nil
	case object.Object:
		return object.Clone(v), nil
	case bool:
		return object.NewBoolean(v), nil
	case int:
		return object.NewInteger(int64(v)), nil
	case int32:
		return object.NewInteger(int64(v)), nil
	case int64:
		return object.NewInteger(v), nil
	case uint32:
		return object.NewInteger(int64(v)), nil
	case float32:
		return object.NewDouble(float64(v)), nil
	case float64:
		return object.NewDouble(v), nil
	case json.Number:
		return numberObject(v)
	case string:
		return object.NewString(v), nil
	case []byte:
		return object.NewBytes(v), nil
	case time.Time:
		return object.NewDateTime(v), nil
	case map[string]string:
		d := object.NewDict()
		for k, s := range v {
			_ = d.Set(k, object.NewString(s))
		}
		return d, nil
	case map[string]any:
		d := object.NewDict()
		for k, elem := range v {
			o, err := fromNative(elem, depth+1)
			if err != nil {
				object.Unref(d)
				return nil, err
			}
			_ = d.Set(k, o)
		}
		return d, nil
	case []any:
		l := object.NewList()
		for _, elem := range v {
			o, err := fromNative(elem, depth+1)
			if err != nil {
				object.Unref(l)
				return nil, err
			}
			_ = l.Append(o)
		}
		return l, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func numberObject(n json.Number) (object.Object, error) {
	if i, err := n.Int64(); err == nil {
		return object.NewInteger(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, errors.Join(ErrUnsupported, err)
	}
	return object.NewDouble(f), nil
}
