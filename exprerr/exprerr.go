// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package exprerr

import (
	"errors"
)

// Kind classifies an expression error.
type Kind int

const (
	// KindEvaluation is the default kind for errors without an explicit kind.
	KindEvaluation Kind = iota
	// KindConstruction marks a compile-time failure to build a function call.
	KindConstruction
	// KindFunctionNotFound marks a call to an unregistered function.
	KindFunctionNotFound
	// KindAttribute marks a readonly violation or a failed structural assignment.
	KindAttribute
	// KindArgument marks a wrong number or type of arguments passed at runtime.
	KindArgument
	// KindTypeCoercion marks a typed extraction mismatch.
	KindTypeCoercion
	// KindAllocatorProtocol marks an out-of-order allocator restore. It is fatal.
	KindAllocatorProtocol
)

var kindNames = map[Kind]string{
	KindEvaluation:        "EvaluationError",
	KindConstruction:      "ConstructionFailure",
	KindFunctionNotFound:  "FunctionNotFound",
	KindAttribute:         "AttributeError",
	KindArgument:          "ArgumentError",
	KindTypeCoercion:      "TypeCoercionFailure",
	KindAllocatorProtocol: "AllocatorProtocolViolation",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UnknownError"
}

// Fatal reports whether errors of this kind must abort the worker.
func (k Kind) Fatal() bool {
	return k == KindAllocatorProtocol
}

// KindedError wraps an error with an expression error kind.
type KindedError struct {
	err  error
	kind Kind
}

// Error implements the error interface.
func (e *KindedError) Error() string {
	return e.err.Error()
}

// Unwrap returns the underlying error for errors.Is() and errors.As() compatibility.
func (e *KindedError) Unwrap() error {
	return e.err
}

// Kind returns the kind associated with this error.
func (e *KindedError) Kind() Kind {
	return e.kind
}

// WithKind wraps an error with a kind.
// If err is nil, WithKind returns nil.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &KindedError{err: err, kind: kind}
}

// KindOf extracts the kind from an error by unwrapping the chain.
// Errors without a kind report KindEvaluation.
func KindOf(err error) Kind {
	var kinded *KindedError
	if errors.As(err, &kinded) {
		return kinded.kind
	}
	return KindEvaluation
}

// New creates a new error with the given message and kind.
func New(message string, kind Kind) error {
	return &KindedError{err: errors.New(message), kind: kind}
}
