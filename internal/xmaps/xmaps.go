// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmaps provides extended utility functions for working with maps, complementing the standard maps package.
package xmaps

import (
	"cmp"
	"maps"
	"slices"
)

// Contains reports whether key is present in m.
func Contains[Map ~map[K]V, K cmp.Ordered, V any](m Map, key K) bool {
	return slices.Contains(slices.Sorted(maps.Keys(m)), key)
}

// SortedKeys returns the keys of m in ascending order. Canonical
// serialization (configuration hashing) depends on this ordering being
// stable across processes.
func SortedKeys[Map ~map[K]V, K cmp.Ordered, V any](m Map) []K {
	return slices.Sorted(maps.Keys(m))
}
