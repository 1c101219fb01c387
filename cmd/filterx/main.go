// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Command filterx filters and rewrites newline-delimited JSON records.
//
// Usage:
//
//	filterx [-config path] [-workers n] [-debug] < in.ndjson > out.ndjson
//
// Every record read from standard input is evaluated by the configured
// program. Accepted records are written to standard output in input order;
// dropped and failed records are logged.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stacklok/filterx-core/builtin"
	"github.com/stacklok/filterx-core/config"
	"github.com/stacklok/filterx-core/env"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/logger"
	"github.com/stacklok/filterx-core/logging"
	"github.com/stacklok/filterx-core/program"
	"github.com/stacklok/filterx-core/worker"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, &env.OSReader{})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, envReader env.Reader) int {
	fs := flag.NewFlagSet("filterx", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file (default: $XDG_CONFIG_HOME/"+config.DefaultFile+")")
	workers := fs.Int("workers", 0, "number of worker goroutines (overrides the configuration)")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	logger.InitializeWithOptions(envReader, logger.Debug(*debug))
	defer logger.Sync()

	path, err := config.Locate(*configPath)
	if err != nil {
		logger.Errorw("failed to locate configuration", "error", err)
		return exitFailed
	}
	cfg, err := config.Load(path, envReader)
	if err != nil {
		logger.Errorw("failed to load configuration", "path", path, "error", err)
		return exitFailed
	}
	if *workers > 0 {
		cfg.Settings.Workers = *workers
	}

	slogger, err := newLogger(cfg.Settings, *debug)
	if err != nil {
		logger.Errorw("invalid logging settings", "error", err)
		return exitFailed
	}

	reg := function.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		logger.Errorw("failed to register builtin functions", "error", err)
		return exitFailed
	}
	prog, err := program.New(cfg, reg, program.WithLogger(slogger))
	if err != nil {
		logger.Errorw("failed to compile program", "path", path, "error", err)
		return exitFailed
	}
	defer prog.Close()

	pool := worker.New(prog,
		worker.WithWorkers(cfg.Settings.Workers),
		worker.WithAreaSize(cfg.Settings.AreaSize),
		worker.WithLogger(slogger))
	logger.Infow("program loaded",
		"path", path,
		"digest", prog.Digest().String(),
		"workers", pool.Workers())

	if err := stream(ctx, pool, stdin, stdout); err != nil {
		logger.Errorw("processing stopped", "error", err)
		return exitFailed
	}

	stats := pool.Stats()
	logger.Infow("processing finished",
		"accepted", stats.Accepted,
		"dropped", stats.Dropped,
		"failed", stats.Failed)
	return exitOK
}

// newLogger builds the logger handed to the program and the worker pool.
// In debug mode it shares the zap logger so all output is interleaved.
func newLogger(s config.Settings, debug bool) (*slog.Logger, error) {
	if debug {
		return logger.NewSlog(), nil
	}
	format, err := logging.ParseFormat(s.LogFormat)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	return logging.New(
		logging.WithFormat(format),
		logging.WithLevel(level),
		logging.WithOutput(os.Stderr),
	), nil
}
