package anomaly

import (
	"math"

	"github.com/Alias1177/Cardwatch/models"
)

// scoreSaturation controls how fast the anomaly score approaches 1.0 as the
// price ratio moves away from 1.0. Calibrated so a 4.5x deviation scores
// about 0.72.
const scoreSaturation = 2.75

// Fixed confidence for rule-based expected prices.
const ruleBasedConfidence = 0.3

// Score compares an observed price against its expected price and produces
// a classified anomaly. A non-positive expected price is not scoreable and
// degrades to a normal classification with zero score and confidence.
func Score(observed float64, expected models.ExpectedPrice, cfg models.AnalysisConfig) models.AnomalyResult {
	cfg = cfg.Normalized()

	result := models.AnomalyResult{
		ObservedPrice:  observed,
		ExpectedPrice:  expected.Value,
		Classification: models.ClassNormal,
		Method:         expected.Method,
	}

	if expected.Value <= 0 {
		return result
	}

	ratio := observed / expected.Value
	result.Ratio = ratio

	switch {
	case ratio <= cfg.UndervaluedThreshold:
		result.Classification = models.ClassUndervalued
	case ratio >= cfg.OvervaluedThreshold:
		result.Classification = models.ClassOvervalued
	}

	// Score grows monotonically with the deviation from parity and
	// saturates toward 1.0 for extreme ratios. Deviation is measured
	// multiplicatively so a 4.5x underpricing scores the same as a 4.5x
	// overpricing.
	deviation := ratio - 1.0
	if ratio < 1.0 {
		deviation = 1.0/ratio - 1.0
	}
	result.Score = 1.0 - math.Exp(-deviation/scoreSaturation)

	result.Confidence = confidence(expected)
	return result
}

// Reportable reports whether a result clears both reporting thresholds.
// Results below threshold remain inspectable by callers.
func Reportable(result models.AnomalyResult, cfg models.AnalysisConfig) bool {
	cfg = cfg.Normalized()
	return result.Classification != models.ClassNormal &&
		result.Score >= cfg.AnomalyScoreThreshold &&
		result.Confidence >= cfg.ConfidenceThreshold
}

// confidence reflects how much the expected price can be trusted. More peer
// printings raise it; the rule-based heuristic gets a fixed low value.
func confidence(expected models.ExpectedPrice) float64 {
	if expected.Method == models.MethodRuleBased {
		return ruleBasedConfidence
	}
	return math.Min(1.0, 0.2+0.1*float64(expected.BasisCount))
}
