// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package builtin provides the functions available to every program.

Register adds them to a function registry:

	reg := function.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		return err
	}

# Functions

  - lower(s), upper(s): Unicode case mapping of a string or string-typed
    message value. The result lives in the pass's scratch memory.
  - len(v): length of a string, bytes, dict or list.
  - unset_empties(object, recursive=true): removes empty strings,
    "n/a", "-", null values and empty containers from a dict or list in
    place.
  - cel(expression): evaluates a CEL predicate against the current
    record. The expression is compiled once when the program is
    initialized.
  - protobuf(v): serializes a value into opaque protobuf wire bytes.
  - regexp_match(s, pattern, negate=false): reports whether s matches
    pattern, or does not when negate is true.
  - regexp_search(s, pattern): returns the capture groups of the first
    match, as a dict when the pattern has named groups and as a list
    otherwise.
  - regexp_subst(s, pattern, replacement): replaces every match. Pattern
    and replacement must be string literals; the pattern is compiled when
    the program is built.
*/
package builtin
