// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package marshal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/stacklok/filterx-core/object"
)

// ErrInvalidJSON is returned for malformed JSON documents.
var ErrInvalidJSON = errors.New("invalid JSON document")

// EncodeJSON renders o as compact JSON. Dict keys keep insertion order,
// datetimes are RFC3339 strings and binary values are base64 strings.
func EncodeJSON(o object.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, o, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(buf *bytes.Buffer, o object.Object, depth int) error {
	if o == nil {
		return ErrMissing
	}
	if depth > MaxDepth {
		return ErrTooDeep
	}

	switch v := object.Unwrap(o).(type) {
	case *object.Dict:
		buf.WriteByte('{')
		first := true
		var err error
		v.Iter(func(k string, elem object.Object) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = writeScalar(buf, k); err != nil {
				return false
			}
			buf.WriteByte(':')
			err = encodeJSON(buf, elem, depth+1)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	case *object.List:
		buf.WriteByte('[')
		var err error
		v.Iter(func(i int, elem object.Object) bool {
			if i > 0 {
				buf.WriteByte(',')
			}
			err = encodeJSON(buf, elem, depth+1)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte(']')
		return nil
	case *object.MessageValue:
		if v.Type() == object.MessageJSON {
			var compact bytes.Buffer
			if err := json.Compact(&compact, v.Raw()); err != nil {
				return errors.Join(ErrInvalidJSON, err)
			}
			buf.Write(compact.Bytes())
			return nil
		}
	}

	native, err := toNative(o, depth)
	if err != nil {
		return err
	}
	if t, ok := native.(time.Time); ok {
		native = t.Format(time.RFC3339Nano)
	}
	return writeScalar(buf, native)
}

func writeScalar(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	buf.Write(b)
	return nil
}

// DecodeJSON parses a single JSON document into a new owned Object.
// Objects become dicts in document key order, integral numbers become
// integers and all other numbers doubles. Duplicate object keys are
// rejected with ErrInvalidJSON.
func DecodeJSON(data []byte) (object.Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	o, err := decodeValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		object.Unref(o)
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}
	return o, nil
}

// DecodeRecord parses a JSON object into a dict.
func DecodeRecord(data []byte) (*object.Dict, error) {
	o, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	d, ok := o.(*object.Dict)
	if !ok {
		object.Unref(o)
		return nil, fmt.Errorf("%w: record must be an object, got %s", ErrInvalidJSON, object.TypeName(o))
	}
	return d, nil
}

func decodeValue(dec *json.Decoder, depth int) (object.Object, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		}
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidJSON, t)
	case json.Number:
		return numberObject(t)
	}
	return fromNative(tok, depth)
}

func decodeObject(dec *json.Decoder, depth int) (object.Object, error) {
	d := object.NewDict()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			object.Unref(d)
			return nil, errors.Join(ErrInvalidJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			object.Unref(d)
			return nil, fmt.Errorf("%w: object key %v", ErrInvalidJSON, tok)
		}
		if d.Has(key) {
			object.Unref(d)
			return nil, fmt.Errorf("%w: duplicate object key %q", ErrInvalidJSON, key)
		}
		elem, err := decodeValue(dec, depth+1)
		if err != nil {
			object.Unref(d)
			return nil, err
		}
		if err := d.Set(key, elem); err != nil {
			object.Unref(elem)
			object.Unref(d)
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		object.Unref(d)
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	return d, nil
}

func decodeArray(dec *json.Decoder, depth int) (object.Object, error) {
	l := object.NewList()
	for dec.More() {
		elem, err := decodeValue(dec, depth+1)
		if err != nil {
			object.Unref(l)
			return nil, err
		}
		if err := l.Append(elem); err != nil {
			object.Unref(elem)
			object.Unref(l)
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		object.Unref(l)
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	return l, nil
}
