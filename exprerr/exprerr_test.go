// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package exprerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithKind(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, WithKind(nil, KindAttribute))
	})

	t.Run("wraps and preserves message", func(t *testing.T) {
		t.Parallel()
		base := errors.New("boom")
		err := WithKind(base, KindArgument)
		require.Error(t, err)
		assert.Equal(t, "boom", err.Error())
		assert.ErrorIs(t, err, base)
		assert.Equal(t, KindArgument, KindOf(err))
	})
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain error", errors.New("x"), KindEvaluation},
		{"direct", New("x", KindConstruction), KindConstruction},
		{"wrapped with fmt", fmt.Errorf("outer: %w", New("x", KindTypeCoercion)), KindTypeCoercion},
		{"nil", nil, KindEvaluation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AttributeError", KindAttribute.String())
	assert.Equal(t, "ConstructionFailure", KindConstruction.String())
	assert.Equal(t, "UnknownError", Kind(99).String())
	assert.True(t, KindAllocatorProtocol.Fatal())
	assert.False(t, KindAttribute.Fatal())
}
