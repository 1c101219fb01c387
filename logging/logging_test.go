// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/filterx-core/eval"
)

type origin string

func (o origin) Name() string { return string(o) }

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(WithOutput(&buf))

	logger.Debug("filtered")
	assert.Empty(t, buf.String(), "DEBUG is filtered at the default level")

	logger.Info("record dropped", "worker", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "record dropped", entry["msg"])
	assert.InDelta(t, 2, entry["worker"], 0)

	ts, ok := entry["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)

	var buf bytes.Buffer
	logger := New(WithFormat(FormatText), WithLevel(&lvl), WithOutput(&buf))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	lvl.Set(slog.LevelDebug)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "json", want: FormatJSON},
		{in: "TEXT", want: FormatText},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDiagnosticAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(WithOutput(&buf))

	logger.Warn("evaluation failed", DiagnosticAttrs([]eval.ErrorEntry{
		{Message: "Attribute set failed, object is readonly", Origin: origin("setattr"), Detail: "attr=a"},
		{Message: "No such variable"},
	}))

	var entry struct {
		Diagnostics map[string]string `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, map[string]string{
		"0": "Attribute set failed, object is readonly (in setattr): attr=a",
		"1": "No such variable",
	}, entry.Diagnostics)
}

func TestReplaceAttr(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 17, 10, 30, 0, 0, time.UTC)
	result := replaceAttr(nil, slog.Time(slog.TimeKey, now))
	assert.Equal(t, "2026-02-17T10:30:00Z", result.Value.String())

	attr := slog.String("key", "value")
	assert.Equal(t, attr, replaceAttr(nil, attr))
}
