// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package marshal converts expression objects to and from native Go values,
// JSON documents and protobuf wire bytes.
//
// Functions in this package report failures as Go errors. Expression nodes
// calling them go through [recovery.Boundary] so a failure surfaces as a
// single diagnostic.
//
// Dict keys keep their insertion order in JSON output. Protobuf structs have
// no key order; decoded structs are populated in sorted key order.
package marshal
