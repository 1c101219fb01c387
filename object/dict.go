// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"slices"
	"strconv"
	"strings"
)

// Dict is a string-keyed mapping that preserves insertion order.
type Dict struct {
	header
	keys []string
	vals map[string]Object
}

// NewDict returns a new empty dict.
func NewDict() *Dict {
	d := &Dict{vals: make(map[string]Object)}
	d.init()
	return d
}

func (*Dict) Kind() Kind         { return KindDict }
func (d *Dict) Truthy() bool     { return len(d.keys) > 0 }
func (d *Dict) Len() (int, bool) { return len(d.keys), true }

// Clone returns a deep copy of the dict.
func (d *Dict) Clone() Object {
	c := NewDict()
	c.keys = slices.Clone(d.keys)
	for k, v := range d.vals {
		c.vals[k] = v.Clone()
	}
	return c
}

func (d *Dict) Repr() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteByte(':')
		writeElemRepr(&sb, d.vals[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

func (d *Dict) release() {
	for _, k := range d.keys {
		Unref(d.vals[k])
	}
	d.keys = nil
	d.vals = nil
}

// Get returns a new handle on the value stored under key.
func (d *Dict) Get(key string) (Object, bool) {
	v, ok := d.vals[key]
	if !ok {
		return nil, false
	}
	return Ref(v), true
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.vals[key]
	return ok
}

// Set stores value under key, replacing and releasing any previous value.
// Set consumes value on success; on error the caller keeps ownership.
func (d *Dict) Set(key string, value Object) error {
	if err := checkWritable(d); err != nil {
		return err
	}
	if value == nil {
		return ErrNilValue
	}
	if old, ok := d.vals[key]; ok {
		Unref(old)
	} else {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = value
	return nil
}

// Unset removes key and releases its value.
func (d *Dict) Unset(key string) error {
	if err := checkWritable(d); err != nil {
		return err
	}
	old, ok := d.vals[key]
	if !ok {
		return ErrKeyNotFound
	}
	delete(d.vals, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
	Unref(old)
	return nil
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	return slices.Clone(d.keys)
}

// Iter calls fn for each entry in insertion order until fn returns false.
// Values are borrowed for the duration of the call. Iter reports whether the
// iteration ran to completion.
func (d *Dict) Iter(fn func(key string, value Object) bool) bool {
	for _, k := range d.keys {
		if !fn(k, d.vals[k]) {
			return false
		}
	}
	return true
}

func writeElemRepr(sb *strings.Builder, v Object) {
	if IsType(v, KindString) {
		sb.WriteString(strconv.Quote(v.Repr()))
		return
	}
	sb.WriteString(v.Repr())
}
