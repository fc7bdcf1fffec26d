// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// DecodeArgs converts a tools/call arguments map into a typed request
// struct by round-tripping it through JSON, so tools validate one typed
// value instead of poking at map entries.
func DecodeArgs[T any](args map[string]any) (*T, error) {
	data, err := sonic.ConfigFastest.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}
	var v T
	if err := sonic.ConfigFastest.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return &v, nil
}
