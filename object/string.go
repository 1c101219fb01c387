// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bytes"
	"encoding/hex"
)

// String is a UTF-8 string value.
type String struct {
	header
	value []byte
}

// NewString returns a new string object holding a copy of s.
func NewString(s string) *String {
	o := &String{value: []byte(s)}
	o.init()
	return o
}

// NewStringBytes returns a string object that uses b as its storage without
// copying. It is meant for buffers handed out by an evaluation allocator: the
// object must be cloned before it outlives the evaluation pass.
func NewStringBytes(b []byte) *String {
	o := &String{value: b}
	o.init()
	return o
}

// Value returns the string.
func (s *String) Value() string { return string(s.value) }

// Bytes returns the underlying storage. The result is borrowed.
func (s *String) Bytes() []byte { return s.value }

func (*String) Kind() Kind { return KindString }
func (s *String) Truthy() bool { return len(s.value) > 0 }
func (s *String) Len() (int, bool) { return len(s.value), true }
func (s *String) Clone() Object { return NewStringBytes(bytes.Clone(s.value)) }
func (s *String) Repr() string { return string(s.value) }
func (*String) release() {}

// Bytes is a raw byte sequence.
type Bytes struct {
	header
	value []byte
}

// NewBytes returns a new bytes object holding a copy of b.
func NewBytes(b []byte) *Bytes {
	o := &Bytes{value: bytes.Clone(b)}
	o.init()
	return o
}

// Value returns the bytes. The result is borrowed.
func (b *Bytes) Value() []byte { return b.value }

func (*Bytes) Kind() Kind { return KindBytes }
func (b *Bytes) Truthy() bool { return len(b.value) > 0 }
func (b *Bytes) Len() (int, bool) { return len(b.value), true }
func (b *Bytes) Clone() Object { return NewBytes(b.value) }
func (b *Bytes) Repr() string { return hex.EncodeToString(b.value) }
func (*Bytes) release() {}

// Protobuf is an opaque serialized protobuf message.
type Protobuf struct {
	header
	value []byte
}

// NewProtobuf returns a new protobuf object holding a copy of b.
func NewProtobuf(b []byte) *Protobuf {
	o := &Protobuf{value: bytes.Clone(b)}
	o.init()
	return o
}

// Value returns the wire bytes. The result is borrowed.
func (p *Protobuf) Value() []byte { return p.value }

func (*Protobuf) Kind() Kind { return KindProtobuf }
func (p *Protobuf) Truthy() bool { return len(p.value) > 0 }
func (p *Protobuf) Len() (int, bool) { return len(p.value), true }
func (p *Protobuf) Clone() Object { return NewProtobuf(p.value) }
func (p *Protobuf) Repr() string { return hex.EncodeToString(p.value) }
func (*Protobuf) release() {}
