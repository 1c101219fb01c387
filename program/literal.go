// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/filterx-core/marshal"
	"github.com/stacklok/filterx-core/object"
)

// literalObject converts a YAML node into a new owned object. Mapping keys
// keep their document order.
func literalObject(n *yaml.Node) (object.Object, error) {
	return literalNode(n, 0)
}

func literalNode(n *yaml.Node, depth int) (object.Object, error) {
	if depth > marshal.MaxDepth {
		return nil, marshal.ErrTooDeep
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("line %d: empty literal", n.Line)
		}
		return literalNode(n.Content[0], depth)
	case yaml.AliasNode:
		return literalNode(n.Alias, depth)
	case yaml.MappingNode:
		d := object.NewDict()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				object.Unref(d)
				return nil, fmt.Errorf("line %d: literal dict keys must be scalars", key.Line)
			}
			v, err := literalNode(val, depth+1)
			if err != nil {
				object.Unref(d)
				return nil, err
			}
			if err := d.Set(key.Value, v); err != nil {
				object.Unref(v)
				object.Unref(d)
				return nil, err
			}
		}
		return d, nil
	case yaml.SequenceNode:
		l := object.NewList()
		for _, item := range n.Content {
			v, err := literalNode(item, depth+1)
			if err != nil {
				object.Unref(l)
				return nil, err
			}
			if err := l.Append(v); err != nil {
				object.Unref(v)
				object.Unref(l)
				return nil, err
			}
		}
		return l, nil
	case yaml.ScalarNode:
		return literalScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported literal", n.Line)
}

func literalScalar(n *yaml.Node) (object.Object, error) {
	switch n.ShortTag() {
	case "!!null":
		return object.NewNull(), nil
	case "!!str":
		return object.NewString(n.Value), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return object.NewDateTime(t), nil
	case "!!binary":
		var s string
		if err := n.Decode(&s); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return object.NewBytes([]byte(s)), nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	o, err := marshal.FromNative(v)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return o, nil
}
