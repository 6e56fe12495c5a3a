// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package urls implements a named, namespaced URL table.
//
// A table is an ordered list of entries. A [Route] binds a chi pattern to a
// handler and a name; an [Include] groups entries under a path prefix and an
// optional namespace. Resolution walks the entries in order and returns the
// first [Match]. Names are reversed into paths with [Table.Reverse] using
// "namespace:name" notation, e.g. "library:book:detail".
//
// [Require] wraps entries so that every handler they resolve to is passed
// through a list of decorators, e.g. an authentication check applied to a
// whole subtree.
package urls
