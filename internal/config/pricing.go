package config

import "dburn/internal/model"

// PricingTier holds per-million-token rates for the four billable
// categories. Thinking tokens have no rate and are never billed.
type PricingTier struct {
	InputPerMTok      float64 `toml:"input_per_million"`
	OutputPerMTok     float64 `toml:"output_per_million"`
	CacheWritePerMTok float64 `toml:"cache_write_per_million"`
	CacheReadPerMTok  float64 `toml:"cache_read_per_million"`
}

// defaultModelPricing is the built-in per-model rate table. Config
// sources may override individual models or add new ones.
func defaultModelPricing() map[string]PricingTier {
	return map[string]PricingTier{
		"claude-opus-4-5-20251101": {
			InputPerMTok: 15.00, OutputPerMTok: 75.00,
			CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50,
		},
		"claude-sonnet-4-20250514": {
			InputPerMTok: 3.00, OutputPerMTok: 15.00,
			CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
		},
		"claude-3-5-sonnet-20241022": {
			InputPerMTok: 3.00, OutputPerMTok: 15.00,
			CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
		},
		"claude-3-opus-20240229": {
			InputPerMTok: 15.00, OutputPerMTok: 75.00,
			CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50,
		},
		"claude-3-haiku-20240307": {
			InputPerMTok: 0.25, OutputPerMTok: 1.25,
			CacheWritePerMTok: 0.30, CacheReadPerMTok: 0.03,
		},
	}
}

// Estimator resolves pricing tiers and computes session costs. Immutable
// once constructed; all methods are pure.
type Estimator struct {
	def    PricingTier
	models map[string]PricingTier
}

// NewEstimator builds an estimator from a resolved pricing config.
func NewEstimator(p PricingConfig) *Estimator {
	models := make(map[string]PricingTier, len(p.Models))
	for name, tier := range p.Models {
		models[name] = tier
	}
	return &Estimator{def: p.Default, models: models}
}

// Tier returns the pricing tier for a model identifier. Lookup is by
// exact match, falling back to the default tier for unknown models.
func (e *Estimator) Tier(model string) PricingTier {
	if tier, ok := e.models[model]; ok {
		return tier
	}
	return e.def
}

// Cost computes the estimated USD cost for a token usage under a model.
// Each billable category contributes count x rate / 1e6; thinking tokens
// are excluded.
func (e *Estimator) Cost(u model.TokenUsage, modelName string) float64 {
	t := e.Tier(modelName)
	cost := float64(u.Input) * t.InputPerMTok / 1_000_000
	cost += float64(u.Output) * t.OutputPerMTok / 1_000_000
	cost += float64(u.CacheWrite) * t.CacheWritePerMTok / 1_000_000
	cost += float64(u.CacheRead) * t.CacheReadPerMTok / 1_000_000
	return cost
}

// SessionCost is Cost applied to a session's own usage and model.
func (e *Estimator) SessionCost(s model.Session) float64 {
	return e.Cost(s.Tokens, s.Model)
}
