// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package env

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=env.go -destination=mocks/mock_reader.go -package=mocks Reader

import (
	"fmt"
	"strconv"
	"strings"

	xenv "github.com/xyproto/env/v2"
)

// Reader defines an interface for environment variable access
type Reader interface {
	Getenv(key string) string
}

// OSReader implements Reader using the process environment
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key
func (*OSReader) Getenv(key string) string {
	return xenv.Str(key)
}

// Int reads key as a positive integer. An unset or blank variable reports
// ok=false without an error.
func Int(r Reader, key string) (value int, ok bool, err error) {
	raw := strings.TrimSpace(r.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("environment variable %s: %q is not a positive integer", key, raw)
	}
	return n, true, nil
}

// Bool reads key as a boolean flag. An unparsable value reads as false.
func Bool(r Reader, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.Getenv(key)))
	return err == nil && v
}
