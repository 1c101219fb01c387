// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package logger configures the process-wide zap logger used by the filterx
// command and bridges it to the logr and slog interfaces used by libraries.
package logger

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stacklok/filterx-core/env"
	"github.com/stacklok/filterx-core/eval"
)

// Debugw logs a message at debug level with additional key-value pairs.
func Debugw(msg string, keysAndValues ...any) {
	zap.S().Debugw(msg, keysAndValues...)
}

// Infow logs a message at info level with additional key-value pairs.
func Infow(msg string, keysAndValues ...any) {
	zap.S().Infow(msg, keysAndValues...)
}

// Warnw logs a message at warning level with additional key-value pairs.
func Warnw(msg string, keysAndValues ...any) {
	zap.S().Warnw(msg, keysAndValues...)
}

// Errorw logs a message at error level with additional key-value pairs.
func Errorw(msg string, keysAndValues ...any) {
	zap.S().Errorw(msg, keysAndValues...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = zap.L().Sync()
}

// NewLogr returns a logr.Logger which uses the global zap logger
func NewLogr() logr.Logger {
	return zapr.NewLogger(zap.L())
}

// NewSlog returns a slog.Logger writing through the global zap logger.
func NewSlog() *slog.Logger {
	return slog.New(logr.ToSlogHandler(NewLogr()))
}

// Diagnostics returns a zap field listing an error stack.
func Diagnostics(entries []eval.ErrorEntry) zap.Field {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return zap.Strings("diagnostics", lines)
}

// DebugProvider reports whether debug logging was requested.
type DebugProvider interface {
	IsDebug() bool
}

// Debug is a DebugProvider backed by a flag value.
type Debug bool

// IsDebug implements DebugProvider.
func (d Debug) IsDebug() bool { return bool(d) }

// Initialize configures the global logger from the process environment.
func Initialize(debug DebugProvider) {
	InitializeWithOptions(&env.OSReader{}, debug)
}

// InitializeWithOptions configures the global logger. If UNSTRUCTURED_LOGS
// is unset or true, plain console lines with a short timestamp are written
// to stderr; otherwise JSON is written to stderr so stdout stays reserved
// for records.
func InitializeWithOptions(envReader env.Reader, debugProvider DebugProvider) {
	var config zap.Config
	if unstructuredLogsWithEnv(envReader) {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.Kitchen)
		config.DisableStacktrace = true
		config.DisableCaller = true
	} else {
		config = zap.NewProductionConfig()
	}
	config.OutputPaths = []string{"stderr"}

	if debugProvider.IsDebug() {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zap.ReplaceGlobals(zap.Must(config.Build()))
}

func unstructuredLogsWithEnv(envReader env.Reader) bool {
	unstructuredLogs, err := strconv.ParseBool(envReader.Getenv("UNSTRUCTURED_LOGS"))
	if err != nil {
		// unset or unparsable defaults to console output
		return true
	}
	return unstructuredLogs
}
