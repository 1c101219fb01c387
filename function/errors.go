// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package function

import (
	"fmt"

	"github.com/stacklok/filterx-core/exprerr"
)

// ConstructionError reports a function call that could not be bound.
type ConstructionError struct {
	Function string
	Reason   string
	Usage    string
	kind     exprerr.Kind
}

// NewConstructionError returns a construction failure for function.
func NewConstructionError(function, reason string) *ConstructionError {
	return &ConstructionError{Function: function, Reason: reason, kind: exprerr.KindConstruction}
}

// WithUsage attaches a usage hint and returns e.
func (e *ConstructionError) WithUsage(usage string) *ConstructionError {
	e.Usage = usage
	return e
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("%s: function %s: %s", e.kind, e.Function, e.Reason)
	if e.Usage != "" {
		msg += "; " + e.Usage
	}
	return msg
}

// Kind returns the error kind.
func (e *ConstructionError) Kind() exprerr.Kind {
	return e.kind
}

// Unwrap exposes the kind to exprerr.KindOf.
func (e *ConstructionError) Unwrap() error {
	return exprerr.WithKind(fmt.Errorf("%s", e.Reason), e.kind)
}

func errFunctionNotFound(function string) *ConstructionError {
	return &ConstructionError{Function: function, Reason: "function not found", kind: exprerr.KindFunctionNotFound}
}
