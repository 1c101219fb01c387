// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"fmt"

	"github.com/stacklok/filterx-core/function"
)

var simpleFunctions = map[string]function.SimpleFunc{
	"lower":    Lower,
	"upper":    Upper,
	"len":      Len,
	"protobuf": Protobuf,
}

var ctors = map[string]function.Ctor{
	"unset_empties": NewUnsetEmpties,
	"cel":           NewCEL,
	"regexp_match":  NewRegexpMatch,
	"regexp_search": NewRegexpSearch,
	"regexp_subst":  NewRegexpSubst,
}

// Register adds every builtin function to reg.
func Register(reg *function.Registry) error {
	for name, fn := range simpleFunctions {
		if err := reg.RegisterSimple(name, fn); err != nil {
			return fmt.Errorf("registering %s: %w", name, err)
		}
	}
	for name, ctor := range ctors {
		if err := reg.Register(name, ctor); err != nil {
			return fmt.Errorf("registering %s: %w", name, err)
		}
	}
	return nil
}
