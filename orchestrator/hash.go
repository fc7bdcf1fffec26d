// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/bytedance/sonic"

	"github.com/go-a2a/agentops/internal/xmaps"
)

// ConfigHash fingerprints an agent's configuration fields as the MD5 of
// their canonical JSON serialization: object keys sorted at every nesting
// level, no whitespace. Two observations of the same configuration hash
// identically regardless of map iteration order. MD5 is a change
// fingerprint here, not a security boundary.
func ConfigHash(config map[string]any) string {
	sum := md5.Sum(appendCanonical(nil, config))
	return hex.EncodeToString(sum[:])
}

// appendCanonical serializes v onto dst in canonical form. Maps are
// written with sorted keys, lists in their given order, scalars as
// standard JSON.
func appendCanonical(dst []byte, v any) []byte {
	switch v := v.(type) {
	case map[string]any:
		dst = append(dst, '{')
		for i, key := range xmaps.SortedKeys(v) {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendCanonical(dst, key)
			dst = append(dst, ':')
			dst = appendCanonical(dst, v[key])
		}
		return append(dst, '}')
	case []any:
		dst = append(dst, '[')
		for i, elem := range v {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendCanonical(dst, elem)
		}
		return append(dst, ']')
	default:
		data, err := sonic.ConfigFastest.Marshal(v)
		if err != nil {
			return append(dst, "null"...)
		}
		return append(dst, data...)
	}
}
