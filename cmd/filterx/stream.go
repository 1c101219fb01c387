// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/stacklok/filterx-core/logger"
	"github.com/stacklok/filterx-core/marshal"
	"github.com/stacklok/filterx-core/object"
	"github.com/stacklok/filterx-core/program"
	"github.com/stacklok/filterx-core/worker"
)

// maxRecordSize bounds the length of one input line.
const maxRecordSize = 4 << 20

// stream feeds the records of r to pool and writes accepted records to w.
func stream(ctx context.Context, pool *worker.Pool, r io.Reader, w io.Writer) error {
	in := make(chan worker.Record, pool.Workers()*2)
	out := make(chan worker.Outcome, pool.Workers()*2)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(in)
		return readRecords(ctx, r, in)
	})
	g.Go(func() error {
		defer close(out)
		return pool.Run(ctx, in, out)
	})
	g.Go(func() error {
		return writeOutcomes(out, w)
	})
	return g.Wait()
}

func readRecords(ctx context.Context, r io.Reader, in chan<- worker.Record) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	seq, line := 0, 0
	for sc.Scan() {
		line++
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}
		rec, err := marshal.DecodeRecord(data)
		if err != nil {
			logger.Warnw("skipping malformed record", "line", line, "error", err)
			continue
		}
		select {
		case <-ctx.Done():
			object.Unref(rec)
			return ctx.Err()
		case in <- worker.Record{Seq: seq, Data: rec}:
			seq++
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// writeOutcomes writes accepted records in input order.
func writeOutcomes(out <-chan worker.Outcome, w io.Writer) error {
	bw := bufio.NewWriter(w)
	pending := map[int]worker.Outcome{}
	next := 0

	for o := range out {
		pending[o.Seq] = o
		for {
			o, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := writeOutcome(bw, o); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writeOutcome(w *bufio.Writer, o worker.Outcome) error {
	defer object.Unref(o.Record)

	switch {
	case o.Err != nil:
		return nil
	case o.Result.Verdict == program.Failed:
		logger.Warnw("record rejected", "seq", o.Seq, logger.Diagnostics(o.Result.Errors))
		return nil
	case o.Result.Verdict != program.Accept:
		return nil
	}

	data, err := marshal.EncodeJSON(o.Record)
	if err != nil {
		logger.Warnw("failed to encode record", "seq", o.Seq, "error", err)
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return w.WriteByte('\n')
}
