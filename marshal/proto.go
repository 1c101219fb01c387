// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package marshal

import (
	"encoding/base64"
	"maps"
	"math"
	"slices"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stacklok/filterx-core/object"
)

// ToProto converts o into a protobuf Value. Integers become numbers,
// datetimes RFC3339 strings and binary values base64 strings.
func ToProto(o object.Object) (*structpb.Value, error) {
	return toProto(o, 0)
}

func toProto(o object.Object, depth int) (*structpb.Value, error) {
	if o == nil {
		return nil, ErrMissing
	}
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch v := object.Unwrap(o).(type) {
	case *object.Dict:
		fields := make(map[string]*structpb.Value, len(v.Keys()))
		var err error
		v.Iter(func(k string, elem object.Object) bool {
			fields[k], err = toProto(elem, depth+1)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	case *object.List:
		n, _ := v.Len()
		values := make([]*structpb.Value, 0, n)
		var err error
		v.Iter(func(_ int, elem object.Object) bool {
			var pv *structpb.Value
			pv, err = toProto(elem, depth+1)
			values = append(values, pv)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	}

	native, err := toNative(o, depth)
	if err != nil {
		return nil, err
	}
	switch n := native.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case bool:
		return structpb.NewBoolValue(n), nil
	case int64:
		return structpb.NewNumberValue(float64(n)), nil
	case float64:
		return structpb.NewNumberValue(n), nil
	case string:
		return structpb.NewStringValue(n), nil
	case []byte:
		return structpb.NewStringValue(base64.StdEncoding.EncodeToString(n)), nil
	case time.Time:
		return structpb.NewStringValue(n.Format(time.RFC3339Nano)), nil
	}
	// decoded JSON message values
	return structpb.NewValue(native)
}

// FromProto converts a protobuf Value into a new owned Object. Numbers
// without a fractional part that fit an int64 become integers.
func FromProto(v *structpb.Value) (object.Object, error) {
	return fromProto(v, 0)
}

func fromProto(v *structpb.Value, depth int) (object.Object, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch k := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return object.NewNull(), nil
	case *structpb.Value_BoolValue:
		return object.NewBoolean(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return object.NewInteger(int64(f)), nil
		}
		return object.NewDouble(f), nil
	case *structpb.Value_StringValue:
		return object.NewString(k.StringValue), nil
	case *structpb.Value_StructValue:
		d := object.NewDict()
		fields := k.StructValue.GetFields()
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			elem, err := fromProto(fields[key], depth+1)
			if err != nil {
				object.Unref(d)
				return nil, err
			}
			_ = d.Set(key, elem)
		}
		return d, nil
	case *structpb.Value_ListValue:
		l := object.NewList()
		for _, item := range k.ListValue.GetValues() {
			elem, err := fromProto(item, depth+1)
			if err != nil {
				object.Unref(l)
				return nil, err
			}
			_ = l.Append(elem)
		}
		return l, nil
	}
	return nil, ErrUnsupported
}

// MarshalBinary serializes o as a google.protobuf.Value message.
func MarshalBinary(o object.Object) ([]byte, error) {
	v, err := ToProto(o)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

// UnmarshalBinary parses a google.protobuf.Value message.
func UnmarshalBinary(b []byte) (object.Object, error) {
	var v structpb.Value
	if err := proto.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return FromProto(&v)
}
