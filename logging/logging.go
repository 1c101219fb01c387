// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/stacklok/filterx-core/eval"
)

// Format represents the log output format.
type Format int

const (
	// FormatJSON produces JSON-formatted log output using [log/slog.JSONHandler].
	FormatJSON Format = iota

	// FormatText produces human-readable text output using [log/slog.TextHandler].
	FormatText
)

// ParseFormat maps a configuration value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	}
	return FormatJSON, fmt.Errorf("unknown log format %q", s)
}

// ParseLevel maps a configuration value such as "debug" onto a level.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

type config struct {
	format Format
	level  slog.Leveler
	output io.Writer
}

// Option configures the logger created by [New].
type Option func(*config)

// WithFormat sets the output format. The default is [FormatJSON].
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithLevel sets the minimum log level. The default is [log/slog.LevelInfo].
// A [*log/slog.LevelVar] allows changing the level at runtime.
func WithLevel(l slog.Leveler) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithOutput sets the destination writer. The default is [os.Stderr].
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// NewHandler returns the handler used by [New].
func NewHandler(opts ...Option) slog.Handler {
	cfg := &config{
		format: FormatJSON,
		level:  slog.LevelInfo,
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       cfg.level,
		ReplaceAttr: replaceAttr,
	}
	if cfg.format == FormatText {
		return slog.NewTextHandler(cfg.output, handlerOpts)
	}
	return slog.NewJSONHandler(cfg.output, handlerOpts)
}

// New creates a [*log/slog.Logger] with RFC3339 timestamps, writing JSON
// at INFO level to stderr unless configured otherwise.
func New(opts ...Option) *slog.Logger {
	return slog.New(NewHandler(opts...))
}

// DiagnosticAttrs renders an error stack as a group of attributes, one per
// entry, keyed by position.
func DiagnosticAttrs(entries []eval.ErrorEntry) slog.Attr {
	attrs := make([]any, 0, len(entries))
	for i, e := range entries {
		attrs = append(attrs, slog.String(fmt.Sprintf("%d", i), e.String()))
	}
	return slog.Group("diagnostics", attrs...)
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	}
	return a
}
