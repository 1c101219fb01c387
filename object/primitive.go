// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"strconv"
	"time"
)

// Null is the null value.
type Null struct{ header }

// NewNull returns a new null object.
func NewNull() *Null {
	n := &Null{}
	n.init()
	return n
}

func (*Null) Kind() Kind { return KindNull }
func (*Null) Truthy() bool { return false }
func (*Null) Len() (int, bool) { return 0, false }
func (*Null) Clone() Object { return NewNull() }
func (*Null) Repr() string { return "null" }
func (*Null) release() {}

// Boolean is a boolean value.
type Boolean struct {
	header
	value bool
}

// NewBoolean returns a new boolean object.
func NewBoolean(v bool) *Boolean {
	b := &Boolean{value: v}
	b.init()
	return b
}

// Value returns the wrapped bool.
func (b *Boolean) Value() bool { return b.value }

func (*Boolean) Kind() Kind { return KindBoolean }
func (b *Boolean) Truthy() bool { return b.value }
func (*Boolean) Len() (int, bool) { return 0, false }
func (b *Boolean) Clone() Object { return NewBoolean(b.value) }
func (b *Boolean) Repr() string { return strconv.FormatBool(b.value) }
func (*Boolean) release() {}

// Integer is a signed 64-bit integer.
type Integer struct {
	header
	value int64
}

// NewInteger returns a new integer object.
func NewInteger(v int64) *Integer {
	i := &Integer{value: v}
	i.init()
	return i
}

// Value returns the wrapped int64.
func (i *Integer) Value() int64 { return i.value }

func (*Integer) Kind() Kind { return KindInteger }
func (i *Integer) Truthy() bool { return i.value != 0 }
func (*Integer) Len() (int, bool) { return 0, false }
func (i *Integer) Clone() Object { return NewInteger(i.value) }
func (i *Integer) Repr() string { return strconv.FormatInt(i.value, 10) }
func (*Integer) release() {}

// Double is a 64-bit floating point number.
type Double struct {
	header
	value float64
}

// NewDouble returns a new double object.
func NewDouble(v float64) *Double {
	d := &Double{value: v}
	d.init()
	return d
}

// Value returns the wrapped float64.
func (d *Double) Value() float64 { return d.value }

func (*Double) Kind() Kind { return KindDouble }
func (d *Double) Truthy() bool { return d.value != 0 }
func (*Double) Len() (int, bool) { return 0, false }
func (d *Double) Clone() Object { return NewDouble(d.value) }
func (d *Double) Repr() string { return strconv.FormatFloat(d.value, 'g', -1, 64) }
func (*Double) release() {}

// DateTime is a point in time.
type DateTime struct {
	header
	value time.Time
}

// NewDateTime returns a new datetime object.
func NewDateTime(v time.Time) *DateTime {
	d := &DateTime{value: v}
	d.init()
	return d
}

// Value returns the wrapped time.
func (d *DateTime) Value() time.Time { return d.value }

func (*DateTime) Kind() Kind { return KindDateTime }
func (*DateTime) Truthy() bool { return true }
func (*DateTime) Len() (int, bool) { return 0, false }
func (d *DateTime) Clone() Object { return NewDateTime(d.value) }
func (d *DateTime) Repr() string { return d.value.Format(time.RFC3339Nano) }
func (*DateTime) release() {}
