// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"strconv"
	"time"
)

// The Extract functions look through wrappers and decode message values
// on demand. They report false on a type mismatch. Returned slices are
// borrowed.

// ExtractString returns the content of a string or string-typed message value.
func ExtractString(o Object) (string, bool) {
	switch v := Unwrap(o).(type) {
	case *String:
		return v.Value(), true
	case *MessageValue:
		if v.typ == MessageString {
			return string(v.raw), true
		}
	}
	return "", false
}

// ExtractStringBytes is like ExtractString but avoids copying the content.
func ExtractStringBytes(o Object) ([]byte, bool) {
	switch v := Unwrap(o).(type) {
	case *String:
		return v.value, true
	case *MessageValue:
		if v.typ == MessageString {
			return v.raw, true
		}
	}
	return nil, false
}

// ExtractBytes returns the content of a bytes object or bytes-typed message value.
func ExtractBytes(o Object) ([]byte, bool) {
	switch v := Unwrap(o).(type) {
	case *Bytes:
		return v.value, true
	case *MessageValue:
		if v.typ == MessageBytes {
			return v.raw, true
		}
	}
	return nil, false
}

// ExtractProtobuf returns the wire bytes of a protobuf object.
func ExtractProtobuf(o Object) ([]byte, bool) {
	switch v := Unwrap(o).(type) {
	case *Protobuf:
		return v.value, true
	case *MessageValue:
		if v.typ == MessageProtobuf {
			return v.raw, true
		}
	}
	return nil, false
}

// ExtractBoolean returns the value of a boolean.
func ExtractBoolean(o Object) (bool, bool) {
	switch v := Unwrap(o).(type) {
	case *Boolean:
		return v.value, true
	case *MessageValue:
		if v.typ == MessageBoolean {
			b, err := strconv.ParseBool(string(v.raw))
			return b, err == nil
		}
	}
	return false, false
}

// ExtractInteger returns the value of an integer.
func ExtractInteger(o Object) (int64, bool) {
	switch v := Unwrap(o).(type) {
	case *Integer:
		return v.value, true
	case *MessageValue:
		if v.typ == MessageInteger {
			i, err := strconv.ParseInt(string(v.raw), 10, 64)
			return i, err == nil
		}
	}
	return 0, false
}

// ExtractDouble returns the value of a double. Integers are widened.
func ExtractDouble(o Object) (float64, bool) {
	switch v := Unwrap(o).(type) {
	case *Double:
		return v.value, true
	case *Integer:
		return float64(v.value), true
	case *MessageValue:
		if v.typ == MessageDouble || v.typ == MessageInteger {
			f, err := strconv.ParseFloat(string(v.raw), 64)
			return f, err == nil
		}
	}
	return 0, false
}

// ExtractDateTime returns the value of a datetime.
func ExtractDateTime(o Object) (time.Time, bool) {
	switch v := Unwrap(o).(type) {
	case *DateTime:
		return v.value, true
	case *MessageValue:
		if v.typ == MessageDateTime {
			return parseDateTime(string(v.raw))
		}
	}
	return time.Time{}, false
}

// IsNull reports whether o is null or a null-typed message value.
func IsNull(o Object) bool {
	switch v := Unwrap(o).(type) {
	case *Null:
		return true
	case *MessageValue:
		return v.typ == MessageNull
	}
	return false
}

// AsDict returns the dict behind o, looking through wrappers. The result
// is borrowed.
func AsDict(o Object) (*Dict, bool) {
	d, ok := Unwrap(o).(*Dict)
	return d, ok
}

// AsList returns the list behind o, looking through wrappers. The result
// is borrowed.
func AsList(o Object) (*List, bool) {
	l, ok := Unwrap(o).(*List)
	return l, ok
}
