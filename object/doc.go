// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package object implements the reference-counted value model that expressions
evaluate to.

Every value satisfies the closed [Object] interface and carries a [Kind]
discriminant, a reference count, a readonly bit and a weak-referenceable bit.
Variants are null, boolean, integer, double, datetime, string, bytes,
protobuf (opaque binary), message value (a raw, dynamically typed record
field), [*Dict], [*List] and [*Wrapper].

# Ownership

Ownership is explicit in every signature:

  - Constructors return a new owned handle with a reference count of one.
  - [Ref] acquires an additional handle; every handle is released exactly
    once with [Unref]. The last Unref reclaims the object and releases the
    handles its containers hold.
  - Getters such as [Dict.Get] and [List.Get] return a new owned handle.
    Iteration callbacks borrow their arguments.
  - Setters such as [Dict.Set] consume the value on success. On failure the
    caller still owns it.
  - [Clone] returns a new, exclusively owned, mutable deep copy that shares
    no storage with its source.

# Readonly

A readonly object rejects every mutation with an error of kind
[exprerr.KindAttribute].

# Weak references

[NewWrapper] wraps a value so that it can be looked up through a [*WeakHandle]
without extending its lifetime.
*/
package object
