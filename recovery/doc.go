// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package recovery contains the panic and error boundaries between the
// expression runtime and code that does not follow its error protocol.
//
// # Boundary
//
// Consumers such as the marshalling layer return Go errors or panic. Boundary
// converts either outcome into exactly one diagnostic and a nil result:
//
//	return recovery.Boundary(ctx, node, "Marshal failed", func() (object.Object, error) {
//		b, err := marshal.MarshalBinary(value)
//		if err != nil {
//			return nil, err
//		}
//		return object.NewProtobuf(b), nil
//	})
//
// # Guard
//
// Guard protects a worker from a panicking evaluation. An out-of-order
// allocator restore is never recovered.
package recovery
