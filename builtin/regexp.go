// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"errors"
	"regexp"

	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/object"
)

const (
	regexpMatchUsage  = "Usage: regexp_match(string, pattern, negate=false)"
	regexpSearchUsage = "Usage: regexp_search(string, pattern)"
	regexpSubstUsage  = "Usage: regexp_subst(string, pattern, replacement)"
)

// literalArgs checks that a call has a subject followed by one string
// literal per entry of names and returns the literals.
func literalArgs(fname string, args *function.Args, usage string, names ...string) ([]string, error) {
	if args.Len() != len(names)+1 {
		return nil, function.NewConstructionError(fname, "invalid number of arguments").WithUsage(usage)
	}
	values := make([]string, len(names))
	for i, argName := range names {
		v, ok := args.LiteralString(i + 1)
		if !ok {
			return nil, function.NewConstructionError(fname, "argument must be a string literal: "+argName).WithUsage(usage)
		}
		values[i] = v
	}
	return values, nil
}

// bindPattern takes the subject of a (string, pattern) call and passes it to
// mk. The subject is freed when mk fails.
func bindPattern(fname string, args *function.Args, usage string, mk func(expr.Node, string) (expr.Node, error)) (expr.Node, error) {
	lits, err := literalArgs(fname, args, usage, "pattern")
	if err != nil {
		return nil, err
	}
	subject, err := args.Expr(0)
	if err != nil {
		return nil, err
	}
	n, err := mk(subject, lits[0])
	if err != nil {
		subject.Free()
		return nil, function.NewConstructionError(fname, err.Error()).WithUsage(usage)
	}
	return n, nil
}

// NewRegexpMatch binds regexp_match(string, pattern, negate=false). A true
// negate inverts the result, as the !~ operator does.
func NewRegexpMatch(name string, args *function.Args) (expr.Node, error) {
	negate, err := args.NamedBool("negate", false)
	if err != nil {
		var ce *function.ConstructionError
		if errors.As(err, &ce) {
			return nil, ce.WithUsage(regexpMatchUsage)
		}
		return nil, err
	}
	return bindPattern(name, args, regexpMatchUsage, func(subject expr.Node, pattern string) (expr.Node, error) {
		return expr.NewRegexpMatch(subject, pattern, negate)
	})
}

// NewRegexpSearch binds regexp_search(string, pattern).
func NewRegexpSearch(name string, args *function.Args) (expr.Node, error) {
	return bindPattern(name, args, regexpSearchUsage, func(subject expr.Node, pattern string) (expr.Node, error) {
		return expr.NewRegexpSearch(subject, pattern)
	})
}

// RegexpSubst replaces every match of a pattern in a string. The
// replacement may refer to groups as $1 or ${name}.
type RegexpSubst struct {
	function.Function
	subject     expr.Node
	pattern     *regexp.Regexp
	replacement []byte
}

// NewRegexpSubst binds regexp_subst(string, pattern, replacement). Pattern
// and replacement must be string literals.
func NewRegexpSubst(name string, args *function.Args) (expr.Node, error) {
	lits, err := literalArgs(name, args, regexpSubstUsage, "pattern", "replacement")
	if err != nil {
		return nil, err
	}
	re, err := expr.CompilePattern(lits[0])
	if err != nil {
		return nil, function.NewConstructionError(name, err.Error()).WithUsage(regexpSubstUsage)
	}
	subject, err := args.Expr(0)
	if err != nil {
		return nil, err
	}
	return &RegexpSubst{
		Function:    function.NewFunction(name),
		subject:     subject,
		pattern:     re,
		replacement: []byte(lits[1]),
	}, nil
}

func (r *RegexpSubst) Init(cfg *expr.Config) error {
	if err := r.subject.Init(cfg); err != nil {
		return err
	}
	return r.InitMethod()
}

func (r *RegexpSubst) Deinit(cfg *expr.Config) {
	r.subject.Deinit(cfg)
	r.DeinitMethod()
}

func (r *RegexpSubst) Free() {
	r.FreeMethod()
	r.subject.Free()
	r.subject = nil
}

// Evaluate returns the substituted string. A string without a match is
// returned unchanged.
func (r *RegexpSubst) Evaluate(ctx *eval.Context) object.Object {
	obj, s, ok := expr.MatchSubject(ctx, r, r.subject)
	if !ok {
		return nil
	}
	if !r.pattern.Match(s) {
		return obj
	}
	defer object.Unref(obj)
	return object.NewStringBytes(r.pattern.ReplaceAll(s, r.replacement))
}
