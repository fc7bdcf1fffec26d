// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package evalset generates, stores and runs evaluation suites for agents.
//
// A suite has four categories (positive, negative, adversarial, stress)
// with default sizes 1000/600/400/1000. [Generator] synthesizes cases
// through a text model and falls back to deterministic stubs when the
// model reply is unusable. Suites persist as one JSONL file per category
// behind the [Store] interface; [DirStore] writes a local directory tree
// and [GCSStore] mirrors the same layout into a Cloud Storage bucket.
//
// [Service] adds the set-level operations (skip-if-exists generation,
// whole-suite creation for a new agent) and [Runner] replays stored cases
// against a [CaseExecutor], scoring each case against its category's
// expectation: positive and stress cases must succeed, negative and
// adversarial cases are expected to fail.
package evalset
