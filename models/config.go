package models

// AnalysisConfig parameterizes every core computation. Callers may override
// any subset of fields; zero values are replaced by the documented defaults.
type AnalysisConfig struct {
	UndervaluedThreshold  float64 `json:"undervalued_threshold"`   // price ratio at or below -> undervalued
	OvervaluedThreshold   float64 `json:"overvalued_threshold"`    // price ratio at or above -> overvalued
	AnomalyScoreThreshold float64 `json:"anomaly_score_threshold"` // minimum score to report
	ConfidenceThreshold   float64 `json:"confidence_threshold"`    // minimum confidence to report
	VolatilityThreshold   float64 `json:"volatility_threshold"`    // coefficient of variation for volatile
	StableBand            float64 `json:"stable_band"`             // +/- fraction treated as stable
	PercentageThreshold   float64 `json:"percentage_threshold"`    // % change required to alert
	AbsoluteThreshold     float64 `json:"absolute_threshold"`      // $ change required to alert
	MinSetCardCount       int     `json:"min_set_card_count"`      // smallest scannable set
	FastMoverVelocity     float64 `json:"fast_mover_velocity"`     // % change per hour
}

// DefaultAnalysisConfig returns the standard thresholds.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		UndervaluedThreshold:  0.60,
		OvervaluedThreshold:   1.80,
		AnomalyScoreThreshold: 0.70,
		ConfidenceThreshold:   0.40,
		VolatilityThreshold:   0.30,
		StableBand:            0.05,
		PercentageThreshold:   20.0,
		AbsoluteThreshold:     0.50,
		MinSetCardCount:       8,
		FastMoverVelocity:     0.25,
	}
}

// Normalized returns a copy with zero-valued fields replaced by defaults.
func (c AnalysisConfig) Normalized() AnalysisConfig {
	def := DefaultAnalysisConfig()
	if c.UndervaluedThreshold == 0 {
		c.UndervaluedThreshold = def.UndervaluedThreshold
	}
	if c.OvervaluedThreshold == 0 {
		c.OvervaluedThreshold = def.OvervaluedThreshold
	}
	if c.AnomalyScoreThreshold == 0 {
		c.AnomalyScoreThreshold = def.AnomalyScoreThreshold
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if c.VolatilityThreshold == 0 {
		c.VolatilityThreshold = def.VolatilityThreshold
	}
	if c.StableBand == 0 {
		c.StableBand = def.StableBand
	}
	if c.PercentageThreshold == 0 {
		c.PercentageThreshold = def.PercentageThreshold
	}
	if c.AbsoluteThreshold == 0 {
		c.AbsoluteThreshold = def.AbsoluteThreshold
	}
	if c.MinSetCardCount == 0 {
		c.MinSetCardCount = def.MinSetCardCount
	}
	if c.FastMoverVelocity == 0 {
		c.FastMoverVelocity = def.FastMoverVelocity
	}
	return c
}
