// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package reasoningcost implements the ReasoningCost service: it scores
// reasoning traces by depth, tool overhead and token expansion to surface
// runaway chain-of-thought before it burns budget.
//
// The score is dimensionless. A trace's token count is normalized against
// a per-unit baseline (one unit is a reasoning step or a tool call) into an
// expansion factor, then combined with the raw step and tool counts into a
// cost score bucketed as efficient, moderate or runaway. When token splits
// and a model name are supplied the estimate also carries a dollar figure
// from the [pricing] table.
package reasoningcost
