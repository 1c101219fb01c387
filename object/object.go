// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"fmt"
	"sync/atomic"

	"github.com/stacklok/filterx-core/exprerr"
)

// Kind is the type tag of an Object.
type Kind uint8

const (
	// KindNull is the null value.
	KindNull Kind = iota
	// KindBoolean is a boolean.
	KindBoolean
	// KindInteger is a signed 64-bit integer.
	KindInteger
	// KindDouble is a 64-bit float.
	KindDouble
	// KindDateTime is a point in time.
	KindDateTime
	// KindString is a UTF-8 string.
	KindString
	// KindBytes is a raw byte sequence.
	KindBytes
	// KindProtobuf is an opaque serialized protobuf message.
	KindProtobuf
	// KindMessageValue is a raw record field with a runtime type tag.
	KindMessageValue
	// KindDict is a string-keyed ordered mapping.
	KindDict
	// KindList is an ordered sequence.
	KindList
	// KindRef is the weak-referenceable wrapper.
	KindRef
)

var kindNames = [...]string{
	KindNull:         "null",
	KindBoolean:      "boolean",
	KindInteger:      "integer",
	KindDouble:       "double",
	KindDateTime:     "datetime",
	KindString:       "string",
	KindBytes:        "bytes",
	KindProtobuf:     "protobuf",
	KindMessageValue: "message_value",
	KindDict:         "dict",
	KindList:         "list",
	KindRef:          "ref",
}

// String returns the type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Sentinel errors for object mutation.
var (
	// ErrReadonly is returned when mutating a readonly object.
	ErrReadonly = exprerr.New("object is readonly", exprerr.KindAttribute)

	// ErrIndexOutOfRange is returned when a list index does not exist.
	ErrIndexOutOfRange = exprerr.New("list index out of range", exprerr.KindAttribute)

	// ErrKeyNotFound is returned when unsetting a key that does not exist.
	ErrKeyNotFound = exprerr.New("key not found", exprerr.KindAttribute)

	// ErrNilValue is returned when storing a nil Object into a container.
	ErrNilValue = exprerr.New("cannot store a missing value", exprerr.KindAttribute)
)

// Object is a reference-counted expression value. The set of implementations
// is closed to this package.
type Object interface {
	// Kind returns the type tag.
	Kind() Kind
	// Truthy reports the boolean interpretation of the value.
	Truthy() bool
	// Len returns the length of strings, bytes and containers.
	Len() (int, bool)
	// Clone returns a new, exclusively owned, mutable deep copy.
	Clone() Object
	// Repr returns a human-readable representation.
	Repr() string

	hdr() *header
	release()
}

// header is embedded by every Object implementation.
type header struct {
	refs     atomic.Int32
	readonly atomic.Bool
	weak     bool
}

func (h *header) hdr() *header { return h }

func (h *header) init() {
	h.refs.Store(1)
}

// Ref acquires an additional handle on o and returns it.
// A nil Object is passed through.
func Ref(o Object) Object {
	if o == nil {
		return nil
	}
	if o.hdr().refs.Add(1) <= 1 {
		panic(fmt.Sprintf("object: ref of released %s", o.Kind()))
	}
	return o
}

// Unref releases a handle on o. Releasing the last handle reclaims the
// object. A nil Object is ignored.
func Unref(o Object) {
	if o == nil {
		return
	}
	switch n := o.hdr().refs.Add(-1); {
	case n == 0:
		o.release()
	case n < 0:
		panic(fmt.Sprintf("object: unref of released %s", o.Kind()))
	}
}

// RefCount returns the current reference count of o.
func RefCount(o Object) int {
	if o == nil {
		return 0
	}
	return int(o.hdr().refs.Load())
}

// IsReadonly reports whether o rejects mutation.
func IsReadonly(o Object) bool {
	return o != nil && o.hdr().readonly.Load()
}

// MakeReadonly marks o and, for containers, everything reachable from it as
// readonly.
func MakeReadonly(o Object) {
	if o == nil {
		return
	}
	o.hdr().readonly.Store(true)
	switch v := o.(type) {
	case *Dict:
		for _, k := range v.keys {
			MakeReadonly(v.vals[k])
		}
	case *List:
		for _, item := range v.items {
			MakeReadonly(item)
		}
	case *Wrapper:
		MakeReadonly(v.value)
	}
}

// IsWeakReferenceable reports whether o can be targeted by a weak handle.
func IsWeakReferenceable(o Object) bool {
	return o != nil && o.hdr().weak
}

// Unwrap returns the value wrapped by a Wrapper, or o itself. The result is
// borrowed.
func Unwrap(o Object) Object {
	for {
		r, ok := o.(*Wrapper)
		if !ok || r.value == nil {
			return o
		}
		o = r.value
	}
}

// IsType reports whether o, looking through wrappers, has kind k.
func IsType(o Object, k Kind) bool {
	if o == nil {
		return false
	}
	return Unwrap(o).Kind() == k
}

// Truthy reports the boolean interpretation of o. A nil Object is falsy.
func Truthy(o Object) bool {
	return o != nil && o.Truthy()
}

// Len returns the length of o and whether o has one.
func Len(o Object) (int, bool) {
	if o == nil {
		return 0, false
	}
	return o.Len()
}

// Clone returns a new owned deep copy of o.
func Clone(o Object) Object {
	if o == nil {
		return nil
	}
	return o.Clone()
}

// Repr returns a human-readable representation of o.
func Repr(o Object) string {
	if o == nil {
		return "<missing>"
	}
	return o.Repr()
}

// TypeName returns the kind name of o, looking through wrappers.
func TypeName(o Object) string {
	if o == nil {
		return "<missing>"
	}
	return Unwrap(o).Kind().String()
}

// checkWritable reports ErrReadonly for readonly objects.
func checkWritable(o Object) error {
	if IsReadonly(o) {
		return ErrReadonly
	}
	return nil
}
