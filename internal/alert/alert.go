package alert

import (
	"math"

	"github.com/Alias1177/Cardwatch/models"
)

// Component calibration ceilings.
const (
	fullPercentageChange = 100.0 // % change earning the full percentage component
	fullMomentum         = 20.0  // momentum earning the full momentum component
	speedWindowHours     = 72.0  // duration at which the speed component reaches zero
)

// Component weights, summing to 100.
const (
	percentageWeight = 40.0
	momentumWeight   = 25.0
	speedWeight      = 20.0
	confidenceWeight = 15.0
)

// Priority cutoffs on the 0-100 score.
const (
	highPriorityScore   = 70
	mediumPriorityScore = 40
)

// Score converts a trend into a prioritized alert candidate. It returns
// false when the movement stays under both the percentage and the absolute
// thresholds; crossing either one is enough to alert.
func Score(t models.TrendResult, cfg models.AnalysisConfig) (*models.AlertCandidate, bool) {
	cfg = cfg.Normalized()

	if t.PctChange < cfg.PercentageThreshold && t.AbsChange < cfg.AbsoluteThreshold {
		return nil, false
	}

	score := percentageComponent(t.PctChange) +
		momentumComponent(t.Momentum) +
		speedComponent(t.Duration.Hours()) +
		confidenceComponent(t.Confidence)

	candidate := &models.AlertCandidate{
		TrendResult: t,
		Score:       int(math.Round(math.Min(score, 100))),
	}

	switch {
	case candidate.Score >= highPriorityScore:
		candidate.Priority = models.PriorityHigh
	case candidate.Score >= mediumPriorityScore:
		candidate.Priority = models.PriorityMedium
	default:
		candidate.Priority = models.PriorityLow
	}

	return candidate, true
}

func percentageComponent(pctChange float64) float64 {
	return math.Min(math.Max(pctChange, 0)/fullPercentageChange, 1.0) * percentageWeight
}

func momentumComponent(momentum float64) float64 {
	return math.Min(math.Abs(momentum)/fullMomentum, 1.0) * momentumWeight
}

// speedComponent rewards changes achieved quickly: a movement completed in
// minutes scores near the full weight, one stretched past three days scores
// nothing.
func speedComponent(durationHours float64) float64 {
	return math.Max(0, (speedWindowHours-durationHours)/speedWindowHours) * speedWeight
}

func confidenceComponent(confidence float64) float64 {
	return math.Min(math.Max(confidence, 0), 1.0) * confidenceWeight
}
