// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

// CompilePattern compiles a regular expression used by a regexp node.
// A pattern that does not compile is a construction failure.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, exprerr.WithKind(fmt.Errorf("failed to compile regexp pattern %q: %w", pattern, err), exprerr.KindConstruction)
	}
	return re, nil
}

// MatchSubject evaluates n and returns its value together with its string
// content. The value is owned by the caller and the content is borrowed from
// it. A value that is not a string pushes a diagnostic attributed to origin.
func MatchSubject(ctx *eval.Context, origin eval.Origin, n Node) (object.Object, []byte, bool) {
	obj := Eval(ctx, n)
	if obj == nil {
		return nil, nil, false
	}
	s, ok := object.ExtractStringBytes(obj)
	if !ok {
		ctx.PushErrorKind(exprerr.KindArgument, "Regexp matching left hand side must be string type", origin,
			"type="+object.TypeName(obj))
		object.Unref(obj)
		return nil, nil, false
	}
	return obj, s, true
}

// RegexpMatch tests a string against a pattern. It implements the =~
// operator, and !~ when negated.
type RegexpMatch struct {
	Base
	lhs     Node
	pattern *regexp.Regexp
	negate  bool
}

// NewRegexpMatch returns a node matching lhs against pattern. On success it
// takes ownership of lhs.
func NewRegexpMatch(lhs Node, pattern string, negate bool) (*RegexpMatch, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	name := "regexp_match"
	if negate {
		name = "regexp_not_match"
	}
	return &RegexpMatch{Base: NewBase(name), lhs: lhs, pattern: re, negate: negate}, nil
}

func (m *RegexpMatch) Init(cfg *Config) error {
	if err := InitAll(cfg, m.lhs); err != nil {
		return err
	}
	return m.InitMethod()
}

func (m *RegexpMatch) Deinit(cfg *Config) {
	DeinitAll(cfg, m.lhs)
	m.DeinitMethod()
}

func (m *RegexpMatch) Free() {
	m.FreeMethod()
	FreeAll(m.lhs)
}

// Evaluate returns whether the string matched.
func (m *RegexpMatch) Evaluate(ctx *eval.Context) object.Object {
	obj, s, ok := MatchSubject(ctx, m, m.lhs)
	if !ok {
		return nil
	}
	defer object.Unref(obj)
	return object.NewBoolean(m.pattern.Match(s) != m.negate)
}

// RegexpSearch collects the capture groups of the leftmost match of a
// pattern. A pattern with named groups yields a dict keyed by group name,
// unnamed groups keyed by their number. Other patterns yield a list. Groups
// that did not take part in the match are skipped, and no match yields an
// empty container.
type RegexpSearch struct {
	Base
	lhs     Node
	pattern *regexp.Regexp
	named   bool
}

// NewRegexpSearch returns a node searching lhs for pattern. On success it
// takes ownership of lhs.
func NewRegexpSearch(lhs Node, pattern string) (*RegexpSearch, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	named := slices.ContainsFunc(re.SubexpNames(), func(n string) bool { return n != "" })
	return &RegexpSearch{Base: NewBase("regexp_search"), lhs: lhs, pattern: re, named: named}, nil
}

func (s *RegexpSearch) Init(cfg *Config) error {
	if err := InitAll(cfg, s.lhs); err != nil {
		return err
	}
	return s.InitMethod()
}

func (s *RegexpSearch) Deinit(cfg *Config) {
	DeinitAll(cfg, s.lhs)
	s.DeinitMethod()
}

func (s *RegexpSearch) Free() {
	s.FreeMethod()
	FreeAll(s.lhs)
}

// Evaluate returns a new list or dict holding the groups.
func (s *RegexpSearch) Evaluate(ctx *eval.Context) object.Object {
	obj, subject, ok := MatchSubject(ctx, s, s.lhs)
	if !ok {
		return nil
	}
	defer object.Unref(obj)

	loc := s.pattern.FindSubmatchIndex(subject)
	names := s.pattern.SubexpNames()

	var (
		fillable object.Object
		store    func(group int, value object.Object) error
	)
	if s.named {
		d := object.NewDict()
		fillable = d
		store = func(group int, value object.Object) error {
			key := names[group]
			if key == "" {
				key = strconv.Itoa(group)
			}
			return d.Set(key, value)
		}
	} else {
		l := object.NewList()
		fillable = l
		store = func(_ int, value object.Object) error { return l.Append(value) }
	}

	for i := 0; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			continue
		}
		value := object.NewString(string(subject[loc[i]:loc[i+1]]))
		if err := store(i/2, value); err != nil {
			object.Unref(value)
			object.Unref(fillable)
			ctx.PushErrorf("Failed to store regexp match", s, "group=%d: %s", i/2, err)
			return nil
		}
	}
	return fillable
}
