// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package tokenstats implements the TokenStats service: it counts prompt
// tokens through the Gemini API and derives output estimates, remaining
// context head-room and USD cost from them.
//
// The Gemini surface is abstracted behind [Counter] so tests can inject a
// fake; [NewCounter] adapts a [genai.Client]. Cost estimation prices cached
// context at a quarter of the input rate and switches to long-context rates
// past the model's threshold.
package tokenstats
