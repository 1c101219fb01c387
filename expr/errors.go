// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"

	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

func errSubscriptKey(msg string, key object.Object) error {
	return exprerr.WithKind(fmt.Errorf("%s, got %s", msg, object.TypeName(key)), exprerr.KindAttribute)
}
