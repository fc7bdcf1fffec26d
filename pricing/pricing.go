// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package pricing holds the static per-model price table used to convert
// token counts into US dollars, including tiered long-context pricing and
// environment-variable overrides.
package pricing

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-a2a/agentops/internal/xmaps"
)

// DefaultModel is the row substituted when a model is not in the table.
const DefaultModel = "gemini-1.5-flash"

// Price is the USD cost per million tokens for one model. Models with a
// LongContextThreshold switch to the Long rates when the prompt exceeds
// that many input tokens.
type Price struct {
	InputPerM            float64
	OutputPerM           float64
	LongInputPerM        float64
	LongOutputPerM       float64
	LongContextThreshold int
}

// defaultPrices is the built-in table, USD per 1M tokens.
func defaultPrices() map[string]Price {
	return map[string]Price{
		"gemini-2.5-pro": {
			InputPerM:            1.25,
			OutputPerM:           10.00,
			LongInputPerM:        2.50,
			LongOutputPerM:       15.00,
			LongContextThreshold: 200_000,
		},
		"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
		"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
		"gemini-2.0-flash":      {InputPerM: 0.10, OutputPerM: 0.40},
		"gemini-1.5-pro":        {InputPerM: 3.50, OutputPerM: 10.50},
		"gemini-1.5-flash":      {InputPerM: 0.075, OutputPerM: 0.30},
		"gemini-1.0-pro":        {InputPerM: 0.50, OutputPerM: 1.50},
	}
}

// Table maps model names to prices. Tables are built once at startup and
// read-only afterwards.
type Table struct {
	prices map[string]Price
}

// NewTable returns the built-in price table.
func NewTable() *Table {
	return &Table{prices: defaultPrices()}
}

// NewTableFromEnv returns the built-in table with any
// LLM_<MODEL>_INPUT_PRICE_PER_M / LLM_<MODEL>_OUTPUT_PRICE_PER_M
// environment overrides applied. Model names are uppercased with "." and
// "-" mapped to "_", so gemini-2.5-flash reads
// LLM_GEMINI_2_5_FLASH_INPUT_PRICE_PER_M. A present but unparseable value
// is a configuration error.
func NewTableFromEnv() (*Table, error) {
	t := NewTable()
	for model, price := range t.prices {
		in, ok, err := envPrice(model, "INPUT")
		if err != nil {
			return nil, err
		}
		if ok {
			price.InputPerM = in
		}
		out, ok, err := envPrice(model, "OUTPUT")
		if err != nil {
			return nil, err
		}
		if ok {
			price.OutputPerM = out
		}
		t.prices[model] = price
	}
	return t, nil
}

// envPrice reads one price override, reporting whether it was set.
func envPrice(model, direction string) (float64, bool, error) {
	key := EnvKey(model, direction)
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s=%q: %w", key, raw, err)
	}
	return v, true, nil
}

// EnvKey returns the override variable name for a model and direction
// ("INPUT" or "OUTPUT").
func EnvKey(model, direction string) string {
	normalized := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(model))
	return "LLM_" + normalized + "_" + direction + "_PRICE_PER_M"
}

// Lookup returns the price row for model. Unknown models fall back to the
// DefaultModel row with a non-empty note; the fallback is never silent.
func (t *Table) Lookup(model string) (Price, string) {
	if p, ok := t.prices[strings.ToLower(strings.TrimSpace(model))]; ok {
		return p, ""
	}
	note := fmt.Sprintf("model '%s' not in pricing table; using %s prices", model, DefaultModel)
	return t.prices[DefaultModel], note
}

// Models returns the model names present in the table, sorted.
func (t *Table) Models() []string {
	return xmaps.SortedKeys(t.prices)
}

// Rates returns the per-million input and output prices that apply to a
// request with the given input token count, selecting the long-context
// tier when the count exceeds the model's threshold.
func (p Price) Rates(inputTokens int) (inPerM, outPerM float64) {
	if p.LongContextThreshold > 0 && inputTokens > p.LongContextThreshold {
		return p.LongInputPerM, p.LongOutputPerM
	}
	return p.InputPerM, p.OutputPerM
}

// Cost prices inputTokens and outputTokens for model, rounded to 6
// decimals, selecting the long-context tier when inputTokens exceeds the
// model's threshold. The note is non-empty when fallback pricing was used.
func (t *Table) Cost(model string, inputTokens, outputTokens int) (float64, string) {
	price, note := t.Lookup(model)

	inPerM, outPerM := price.Rates(inputTokens)
	cost := float64(inputTokens)/1e6*inPerM + float64(outputTokens)/1e6*outPerM
	return round6(cost), note
}

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
