// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"gopkg.in/yaml.v3"
)

// Statements is a sequence of expressions evaluated in order.
type Statements []*Expr

// Expr is one node of a program document. Exactly one field is set.
type Expr struct {
	// Literal holds a constant of any YAML type.
	Literal      yaml.Node  `yaml:"literal"`
	Record       bool       `yaml:"record,omitempty"`
	Variable     string     `yaml:"variable,omitempty"`
	GetAttr      *Attr      `yaml:"getattr,omitempty"`
	GetSubscript *Subscript `yaml:"getsubscript,omitempty"`
	SetAttr      *Attr      `yaml:"setattr,omitempty"`
	SetSubscript *Subscript `yaml:"setsubscript,omitempty"`
	Assign       *Assign    `yaml:"assign,omitempty"`
	Call         *Call      `yaml:"call,omitempty"`
	If           *If        `yaml:"if,omitempty"`
	Block        Statements `yaml:"block,omitempty"`

	// Line is the position of the node in the source document.
	Line int `yaml:"-"`
}

// Attr addresses a named attribute of a dict. Value is only set for
// assignments.
type Attr struct {
	Object *Expr  `yaml:"object"`
	Name   string `yaml:"name"`
	Value  *Expr  `yaml:"value,omitempty"`
}

// Subscript addresses an element of a dict or list. A missing Key on an
// assignment appends to a list.
type Subscript struct {
	Object *Expr `yaml:"object"`
	Key    *Expr `yaml:"key,omitempty"`
	Value  *Expr `yaml:"value,omitempty"`
}

// Assign stores a value in a floating variable.
type Assign struct {
	Name  string `yaml:"name"`
	Value *Expr  `yaml:"value"`
}

// Call invokes a registered function. A null entry in Args passes an
// omitted argument.
type Call struct {
	Function string           `yaml:"function"`
	Args     []*Expr          `yaml:"args,omitempty"`
	Named    map[string]*Expr `yaml:"named,omitempty"`
}

// If is a conditional with optional elif branches and else statements.
// An empty Else differs from a missing one only in intent: both yield true
// when no branch matches.
type If struct {
	Cond *Expr       `yaml:"cond"`
	Then Statements  `yaml:"then,omitempty"`
	Elif []*Branch   `yaml:"elif,omitempty"`
	Else *Statements `yaml:"else,omitempty"`
}

// Branch is one elif arm of a conditional.
type Branch struct {
	Cond *Expr      `yaml:"cond"`
	Then Statements `yaml:"then,omitempty"`
}

// UnmarshalYAML records the source line of the node.
func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	type plain Expr
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	e.Line = node.Line
	return nil
}

// Kind names the field that is set, or "" if none is.
func (e *Expr) Kind() string {
	switch {
	case e == nil:
		return ""
	case e.Literal.Kind != 0:
		return "literal"
	case e.Record:
		return "record"
	case e.Variable != "":
		return "variable"
	case e.GetAttr != nil:
		return "getattr"
	case e.GetSubscript != nil:
		return "getsubscript"
	case e.SetAttr != nil:
		return "setattr"
	case e.SetSubscript != nil:
		return "setsubscript"
	case e.Assign != nil:
		return "assign"
	case e.Call != nil:
		return "call"
	case e.If != nil:
		return "if"
	case e.Block != nil:
		return "block"
	}
	return ""
}
