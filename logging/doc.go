// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package logging provides the [log/slog.Logger] factory handed to expression
trees and worker pools.

# Defaults

  - Format: JSON ([FormatJSON]) via [log/slog.JSONHandler]
  - Level: INFO ([log/slog.LevelInfo])
  - Output: [os.Stderr]
  - Timestamps: [time.RFC3339]

# Basic Usage

	logger := logging.New(
		logging.WithFormat(logging.FormatText),
		logging.WithLevel(slog.LevelDebug),
	)

Configuration strings are mapped with [ParseFormat] and [ParseLevel].

# Diagnostics

The error stack of a failed evaluation is logged as one attribute group:

	logger.Debug("record dropped", logging.DiagnosticAttrs(ctx.Errors()))
*/
package logging
