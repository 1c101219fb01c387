// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/stacklok/filterx-core/exprerr"
)

var (
	// ErrExpressionCheck is returned when a predicate fails syntax or type checking.
	ErrExpressionCheck = exprerr.New("CEL expression check failed", exprerr.KindConstruction)

	// ErrEvaluation is returned when a predicate fails at runtime.
	ErrEvaluation = exprerr.New("CEL expression evaluation failed", exprerr.KindEvaluation)

	// ErrInvalidResult is returned when a predicate does not produce a boolean.
	ErrInvalidResult = exprerr.New("CEL expression returned invalid result type", exprerr.KindTypeCoercion)
)

// Stage names the compilation step that rejected a predicate.
type Stage string

const (
	// StageParse is the syntax step.
	StageParse Stage = "parse"
	// StageCheck is the type checking step.
	StageCheck Stage = "check"
)

// Issue is one problem found in a predicate, located in its source.
type Issue struct {
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%d:%d: %s", i.Line, i.Col, i.Msg)
}

// CompileError reports every issue found while compiling a predicate.
type CompileError struct {
	Stage  Stage   `json:"stage"`
	Source string  `json:"source"`
	Issues []Issue `json:"issues,omitempty"`
	cause  error
}

func (e *CompileError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("CEL %s error in expression %q: %s", e.Stage, e.Source, strings.Join(parts, "; "))
}

// Unwrap returns ErrExpressionCheck joined with the issues reported by cel-go.
func (e *CompileError) Unwrap() error {
	return e.cause
}

// Detail renders the error as a JSON document suitable for a diagnostic detail.
func (e *CompileError) Detail() string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}

func newCompileError(stage Stage, source string, issues *cel.Issues) *CompileError {
	e := &CompileError{
		Stage:  stage,
		Source: source,
		cause:  fmt.Errorf("%w: %w", ErrExpressionCheck, issues.Err()),
	}
	for _, err := range issues.Errors() {
		e.Issues = append(e.Issues, Issue{
			Line: err.Location.Line(),
			Col:  err.Location.Column(),
			Msg:  err.Message,
		})
	}
	return e
}
