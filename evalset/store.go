// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package evalset

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/agentops/types"
)

// DefaultSuiteDir is where [DirStore] keeps suites unless told otherwise.
const DefaultSuiteDir = "eval_suites"

// suiteFileName returns the file name of a category within a suite.
func suiteFileName(category types.EvalCategory) string {
	return string(category) + ".jsonl"
}

// Store persists evaluation suites as one JSONL object-per-line file per
// category under a per-agent prefix.
type Store interface {
	// Exists reports whether a set is already stored for the agent and
	// category.
	Exists(ctx context.Context, agentID string, category types.EvalCategory) (bool, error)

	// Write stores the cases for the agent and category, replacing any
	// previous set, and returns the stored location.
	Write(ctx context.Context, agentID string, category types.EvalCategory, cases []*types.EvalCase) (string, error)

	// Read loads the stored set. Lines that fail to parse are skipped.
	Read(ctx context.Context, agentID string, category types.EvalCategory) ([]*types.EvalCase, error)

	// List returns the categories stored for the agent, in canonical
	// category order.
	List(ctx context.Context, agentID string) ([]types.EvalCategory, error)

	// Location returns where a set for the agent and category is (or
	// would be) stored.
	Location(agentID string, category types.EvalCategory) string
}

// DirStore is a [Store] over a local directory tree,
// <root>/<agent_id>/<category>.jsonl.
type DirStore struct {
	root string
}

var _ Store = (*DirStore)(nil)

// NewDirStore creates a [DirStore] rooted at root, defaulting to
// [DefaultSuiteDir].
func NewDirStore(root string) *DirStore {
	if root == "" {
		root = DefaultSuiteDir
	}
	return &DirStore{root: root}
}

// Location implements [Store].
func (s *DirStore) Location(agentID string, category types.EvalCategory) string {
	return filepath.Join(s.root, agentID, suiteFileName(category))
}

// Exists implements [Store].
func (s *DirStore) Exists(_ context.Context, agentID string, category types.EvalCategory) (bool, error) {
	_, err := os.Stat(s.Location(agentID, category))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat eval set: %w", err)
	}
}

// Write implements [Store].
func (s *DirStore) Write(_ context.Context, agentID string, category types.EvalCategory, cases []*types.EvalCase) (string, error) {
	path := s.Location(agentID, category)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create suite directory: %w", err)
	}

	var buf bytes.Buffer
	if err := encodeJSONL(&buf, cases); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write eval set: %w", err)
	}
	return path, nil
}

// Read implements [Store].
func (s *DirStore) Read(_ context.Context, agentID string, category types.EvalCategory) ([]*types.EvalCase, error) {
	f, err := os.Open(s.Location(agentID, category))
	if err != nil {
		return nil, fmt.Errorf("open eval set: %w", err)
	}
	defer f.Close()

	cases, err := decodeJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("read eval set %s/%s: %w", agentID, category, err)
	}
	return cases, nil
}

// List implements [Store].
func (s *DirStore) List(_ context.Context, agentID string) ([]types.EvalCategory, error) {
	var out []types.EvalCategory
	for _, category := range types.EvalCategories() {
		if _, err := os.Stat(s.Location(agentID, category)); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat eval set: %w", err)
		}
		out = append(out, category)
	}
	return out, nil
}

// encodeJSONL writes cases to buf, one JSON object per line.
func encodeJSONL(buf *bytes.Buffer, cases []*types.EvalCase) error {
	for _, c := range cases {
		line, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal eval case %s: %w", c.ID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return nil
}

// decodeJSONL reads one case per line, skipping blank and malformed lines.
func decodeJSONL(r io.Reader) ([]*types.EvalCase, error) {
	sc := bufio.NewScanner(r)
	// Stress cases produce lines well past the default scanner limit.
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var cases []*types.EvalCase
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var c types.EvalCase
		if err := json.Unmarshal(line, &c); err != nil {
			continue
		}
		cases = append(cases, &c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cases, nil
}
