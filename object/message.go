// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"time"
)

// MessageType is the runtime type tag of a raw record field.
type MessageType uint8

const (
	// MessageString is textual content.
	MessageString MessageType = iota
	// MessageJSON is a JSON document.
	MessageJSON
	// MessageBoolean is "true" or "false".
	MessageBoolean
	// MessageInteger is a decimal integer.
	MessageInteger
	// MessageDouble is a decimal floating point number.
	MessageDouble
	// MessageDateTime is an RFC3339 timestamp.
	MessageDateTime
	// MessageNull has no content.
	MessageNull
	// MessageBytes is raw binary content.
	MessageBytes
	// MessageProtobuf is a serialized protobuf message.
	MessageProtobuf
)

var messageTypeNames = [...]string{
	MessageString:   "string",
	MessageJSON:     "json",
	MessageBoolean:  "boolean",
	MessageInteger:  "integer",
	MessageDouble:   "double",
	MessageDateTime: "datetime",
	MessageNull:     "null",
	MessageBytes:    "bytes",
	MessageProtobuf: "protobuf",
}

// String returns the name of the message type.
func (t MessageType) String() string {
	if int(t) < len(messageTypeNames) {
		return messageTypeNames[t]
	}
	return "unknown"
}

// MessageValue is a raw record field whose interpretation depends on its
// type tag. Conversion is deferred until a typed extraction asks for it.
type MessageValue struct {
	header
	typ MessageType
	raw []byte
}

// NewMessageValue returns a message value holding a copy of raw.
func NewMessageValue(typ MessageType, raw []byte) *MessageValue {
	m := &MessageValue{typ: typ, raw: bytes.Clone(raw)}
	m.init()
	return m
}

// Type returns the type tag.
func (m *MessageValue) Type() MessageType { return m.typ }

// Raw returns the undecoded content. The result is borrowed.
func (m *MessageValue) Raw() []byte { return m.raw }

func (*MessageValue) Kind() Kind { return KindMessageValue }

func (m *MessageValue) Truthy() bool {
	switch m.typ {
	case MessageNull:
		return false
	case MessageBoolean:
		v, err := strconv.ParseBool(string(m.raw))
		return err == nil && v
	case MessageInteger:
		v, err := strconv.ParseInt(string(m.raw), 10, 64)
		return err == nil && v != 0
	case MessageDouble:
		v, err := strconv.ParseFloat(string(m.raw), 64)
		return err == nil && v != 0
	case MessageDateTime:
		return true
	default:
		return len(m.raw) > 0
	}
}

func (m *MessageValue) Len() (int, bool) {
	switch m.typ {
	case MessageString, MessageBytes, MessageProtobuf:
		return len(m.raw), true
	}
	return 0, false
}

func (m *MessageValue) Clone() Object { return NewMessageValue(m.typ, m.raw) }

func (m *MessageValue) Repr() string {
	switch m.typ {
	case MessageNull:
		return "null"
	case MessageBytes, MessageProtobuf:
		return hex.EncodeToString(m.raw)
	}
	return string(m.raw)
}

func (*MessageValue) release() {}

// parseDateTime accepts the timestamp layouts produced by record parsers.
func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
