// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"errors"
	"fmt"

	"github.com/stacklok/filterx-core/config"
	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/validation/name"
)

// BuildError reports a program node that could not be compiled.
type BuildError struct {
	Line int
	Node string
	Err  error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Node, e.Err)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

var errMissingOperand = errors.New("missing operand")

type builder struct {
	registry *function.Registry
}

// Build compiles stmts into a block. Function calls are bound through reg.
// The block is returned uninitialized.
func Build(stmts config.Statements, reg *function.Registry) (*expr.Block, error) {
	b := &builder{registry: reg}
	nodes, err := b.statements(stmts)
	if err != nil {
		return nil, err
	}
	return expr.NewBlock(nodes...), nil
}

func (b *builder) statements(stmts config.Statements) ([]expr.Node, error) {
	nodes := make([]expr.Node, 0, len(stmts))
	for _, stmt := range stmts {
		n, err := b.expr(stmt)
		if err != nil {
			expr.FreeAll(nodes...)
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// body returns nil for an empty statement list.
func (b *builder) body(stmts config.Statements) (*expr.Block, error) {
	if len(stmts) == 0 {
		return nil, nil
	}
	nodes, err := b.statements(stmts)
	if err != nil {
		return nil, err
	}
	return expr.NewBlock(nodes...), nil
}

func (b *builder) expr(e *config.Expr) (expr.Node, error) {
	if e == nil {
		return nil, errMissingOperand
	}
	kind := e.Kind()
	n, err := b.node(kind, e)
	if err != nil {
		var be *BuildError
		if errors.As(err, &be) {
			return nil, err
		}
		return nil, &BuildError{Line: e.Line, Node: kind, Err: err}
	}
	return n, nil
}

func (b *builder) node(kind string, e *config.Expr) (expr.Node, error) {
	switch kind {
	case "literal":
		o, err := literalObject(&e.Literal)
		if err != nil {
			return nil, err
		}
		return expr.NewLiteral(o), nil
	case "record":
		return expr.NewRecord(), nil
	case "variable":
		if err := name.ValidateVariable(e.Variable); err != nil {
			return nil, err
		}
		return expr.NewVariable(e.Variable), nil
	case "getattr":
		obj, err := b.expr(e.GetAttr.Object)
		if err != nil {
			return nil, err
		}
		return expr.NewGetAttr(obj, e.GetAttr.Name), nil
	case "getsubscript":
		return b.operands(func(ops []expr.Node) expr.Node {
			return expr.NewGetSubscript(ops[0], ops[1])
		}, e.GetSubscript.Object, e.GetSubscript.Key)
	case "setattr":
		return b.operands(func(ops []expr.Node) expr.Node {
			return expr.NewSetAttr(ops[0], e.SetAttr.Name, ops[1])
		}, e.SetAttr.Object, e.SetAttr.Value)
	case "setsubscript":
		if e.SetSubscript.Key == nil {
			return b.operands(func(ops []expr.Node) expr.Node {
				return expr.NewSetSubscript(ops[0], nil, ops[1])
			}, e.SetSubscript.Object, e.SetSubscript.Value)
		}
		return b.operands(func(ops []expr.Node) expr.Node {
			return expr.NewSetSubscript(ops[0], ops[1], ops[2])
		}, e.SetSubscript.Object, e.SetSubscript.Key, e.SetSubscript.Value)
	case "assign":
		if err := name.ValidateVariable(e.Assign.Name); err != nil {
			return nil, err
		}
		value, err := b.expr(e.Assign.Value)
		if err != nil {
			return nil, err
		}
		return expr.NewAssign(e.Assign.Name, value), nil
	case "call":
		return b.call(e.Call)
	case "if":
		return b.conditional(e.If)
	case "block":
		nodes, err := b.statements(e.Block)
		if err != nil {
			return nil, err
		}
		return expr.NewBlock(nodes...), nil
	}
	return nil, errors.New("expression has no kind")
}

// operands compiles every operand in order and passes them to mk. On
// failure the operands already compiled are freed.
func (b *builder) operands(mk func([]expr.Node) expr.Node, exprs ...*config.Expr) (expr.Node, error) {
	ops := make([]expr.Node, 0, len(exprs))
	for _, e := range exprs {
		n, err := b.expr(e)
		if err != nil {
			expr.FreeAll(ops...)
			return nil, err
		}
		ops = append(ops, n)
	}
	return mk(ops), nil
}

func (b *builder) call(c *config.Call) (expr.Node, error) {
	positional := make([]expr.Node, len(c.Args))
	named := make(map[string]expr.Node, len(c.Named))
	release := func() {
		expr.FreeAll(positional...)
		for _, n := range named {
			n.Free()
		}
	}

	for i, arg := range c.Args {
		if arg == nil {
			continue
		}
		n, err := b.expr(arg)
		if err != nil {
			release()
			return nil, err
		}
		positional[i] = n
	}
	for argName, arg := range c.Named {
		n, err := b.expr(arg)
		if err != nil {
			release()
			return nil, err
		}
		named[argName] = n
	}

	return b.registry.Lookup(c.Function, function.NewArgs(positional, named))
}

func (b *builder) conditional(c *config.If) (expr.Node, error) {
	root, err := b.branch(c.Cond, c.Then)
	if err != nil {
		return nil, err
	}
	for _, elif := range c.Elif {
		branch, err := b.branch(elif.Cond, elif.Then)
		if err != nil {
			root.Free()
			return nil, err
		}
		root.AddFalseBranch(branch)
	}
	if c.Else != nil {
		body, err := b.body(*c.Else)
		if err != nil {
			root.Free()
			return nil, err
		}
		root.AddFalseBranch(expr.NewElse(body))
	}
	return root, nil
}

func (b *builder) branch(cond *config.Expr, then config.Statements) (*expr.Conditional, error) {
	condition, err := b.expr(cond)
	if err != nil {
		return nil, err
	}
	body, err := b.body(then)
	if err != nil {
		condition.Free()
		return nil, err
	}
	return expr.NewConditional(condition, body), nil
}
