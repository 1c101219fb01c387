// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package name validates identifiers used in expression programs.

# Function Names

Function names are registered once and looked up while a program is built:

	if err := name.ValidateFunction("unset_empties"); err != nil {
		// reject the registration
	}

Valid function names must:
  - Be non-empty and at most 64 bytes long
  - Start with a lowercase letter or underscore
  - Contain only lowercase letters, digits and underscores

# Variable Names

Floating variables follow the same shape but may use uppercase letters:

	"host"
	"_tmp"
	"Parsed2"

Invalid names:

	""          // empty
	"2fast"     // leading digit
	"my-var"    // dash
	"a b"       // space
*/
package name
