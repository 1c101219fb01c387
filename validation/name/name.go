// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package name validates identifiers used in expression programs.
package name

import (
	"fmt"
	"regexp"
)

// MaxLength is the maximum length of an identifier.
const MaxLength = 64

var (
	functionNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	variableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidateFunction validates a function name: lowercase letters, digits and
// underscores, not starting with a digit.
func ValidateFunction(name string) error {
	return validate("function", name, functionNameRegex)
}

// ValidateVariable validates a floating variable name: letters, digits and
// underscores, not starting with a digit.
func ValidateVariable(name string) error {
	return validate("variable", name, variableNameRegex)
}

func validate(kind, name string, re *regexp.Regexp) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) > MaxLength {
		return fmt.Errorf("%s name exceeds maximum length of %d bytes", kind, MaxLength)
	}
	if !re.MatchString(name) {
		return fmt.Errorf("%s name can only contain letters, digits and underscores and must not start with a digit: %q", kind, name)
	}
	return nil
}
