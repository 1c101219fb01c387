// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"slices"
	"strings"
)

// List is an ordered sequence of objects.
type List struct {
	header
	items []Object
}

// NewList returns a new empty list.
func NewList() *List {
	l := &List{}
	l.init()
	return l
}

func (*List) Kind() Kind         { return KindList }
func (l *List) Truthy() bool     { return len(l.items) > 0 }
func (l *List) Len() (int, bool) { return len(l.items), true }

// Clone returns a deep copy of the list.
func (l *List) Clone() Object {
	c := NewList()
	c.items = make([]Object, len(l.items))
	for i, item := range l.items {
		c.items[i] = item.Clone()
	}
	return c
}

func (l *List) Repr() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range l.items {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeElemRepr(&sb, item)
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *List) release() {
	for _, item := range l.items {
		Unref(item)
	}
	l.items = nil
}

// normalize maps a possibly negative index onto the list.
func (l *List) normalize(index int) (int, bool) {
	if index < 0 {
		index += len(l.items)
	}
	return index, index >= 0 && index < len(l.items)
}

// Get returns a new handle on the element at index. Negative indices count
// from the end.
func (l *List) Get(index int) (Object, bool) {
	i, ok := l.normalize(index)
	if !ok {
		return nil, false
	}
	return Ref(l.items[i]), true
}

// Set replaces the element at index, releasing the previous one. Set
// consumes value on success.
func (l *List) Set(index int, value Object) error {
	if err := checkWritable(l); err != nil {
		return err
	}
	if value == nil {
		return ErrNilValue
	}
	i, ok := l.normalize(index)
	if !ok {
		return ErrIndexOutOfRange
	}
	Unref(l.items[i])
	l.items[i] = value
	return nil
}

// Append adds value to the end of the list. Append consumes value on success.
func (l *List) Append(value Object) error {
	if err := checkWritable(l); err != nil {
		return err
	}
	if value == nil {
		return ErrNilValue
	}
	l.items = append(l.items, value)
	return nil
}

// Unset removes and releases the element at index.
func (l *List) Unset(index int) error {
	if err := checkWritable(l); err != nil {
		return err
	}
	i, ok := l.normalize(index)
	if !ok {
		return ErrIndexOutOfRange
	}
	old := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	Unref(old)
	return nil
}

// Iter calls fn for each element in order until fn returns false. Elements
// are borrowed for the duration of the call. Iter reports whether the
// iteration ran to completion.
func (l *List) Iter(fn func(index int, value Object) bool) bool {
	for i, item := range l.items {
		if !fn(i, item) {
			return false
		}
	}
	return true
}
