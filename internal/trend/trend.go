package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/Alias1177/Cardwatch/models"
)

// Recent points considered for the momentum calculation.
const momentumWindow = 6

// Reference windows for the confidence components.
const (
	fullSampleCount = 10              // this many points earns full density credit
	fullWeekHours   = 168.0           // recency decays to zero over a week
	maxUsefulCV     = 0.5             // coefficient of variation beyond which consistency is zero
)

// Analyze classifies an ordered price history. The sequence must be
// ascending by time and contain at least two points, otherwise
// ErrInsufficientHistory is returned. A non-positive starting price cannot
// be expressed as a percentage change and degrades to a stable trend with
// zero confidence.
func Analyze(points []models.PriceHistoryPoint, cfg models.AnalysisConfig, now time.Time) (*models.TrendResult, error) {
	cfg = cfg.Normalized()

	if len(points) < 2 {
		return nil, fmt.Errorf("%d points: %w", len(points), models.ErrInsufficientHistory)
	}

	start := points[0]
	current := points[len(points)-1]

	result := &models.TrendResult{
		StartPrice:   start.Price,
		CurrentPrice: current.Price,
		AbsChange:    current.Price - start.Price,
		Duration:     current.ObservedAt.Sub(start.ObservedAt),
		DataPoints:   len(points),
	}

	if start.Price <= 0 {
		result.TrendType = models.TrendStable
		result.Strength = models.StrengthWeak
		return result, nil
	}

	result.PctChange = (current.Price - start.Price) / start.Price * 100
	result.Volatility = coefficientOfVariation(points)
	result.Momentum = momentum(points)

	// Volatility takes precedence over net direction.
	switch {
	case result.Volatility > cfg.VolatilityThreshold:
		result.TrendType = models.TrendVolatile
	case result.PctChange > cfg.StableBand*100:
		result.TrendType = models.TrendUpward
	case result.PctChange < -cfg.StableBand*100:
		result.TrendType = models.TrendDownward
	default:
		result.TrendType = models.TrendStable
	}

	result.Strength = classifyStrength(math.Abs(result.PctChange))
	result.Confidence = confidence(result, current.ObservedAt, now)

	// A fast mover climbs quickly, not just far.
	if result.TrendType == models.TrendUpward {
		hours := result.Duration.Hours()
		if hours > 0 && result.PctChange/hours >= cfg.FastMoverVelocity {
			result.FastMover = true
		}
	}

	return result, nil
}

func classifyStrength(absPct float64) string {
	switch {
	case absPct >= 100:
		return models.StrengthExtreme
	case absPct >= 50:
		return models.StrengthStrong
	case absPct >= 25:
		return models.StrengthModerate
	default:
		return models.StrengthWeak
	}
}

// coefficientOfVariation measures relative dispersion (stdev/mean) across
// the whole series.
func coefficientOfVariation(points []models.PriceHistoryPoint) float64 {
	mean := 0.0
	for _, p := range points {
		mean += p.Price
	}
	mean /= float64(len(points))
	if mean <= 0 {
		return 0
	}

	variance := 0.0
	for _, p := range points {
		d := p.Price - mean
		variance += d * d
	}
	variance /= float64(len(points))

	return math.Sqrt(variance) / mean
}

// momentum is the percentage change per point across the most recent
// window, a proxy for recent acceleration.
func momentum(points []models.PriceHistoryPoint) float64 {
	window := len(points)
	if window > momentumWindow {
		window = momentumWindow
	}
	recent := points[len(points)-window:]

	first := recent[0].Price
	if first <= 0 {
		return 0
	}
	perPoint := (recent[len(recent)-1].Price - first) / float64(len(recent))
	return perPoint / first * 100
}

// confidence blends sample density, recency of the latest sample, and
// series consistency, capped at 1.0.
func confidence(result *models.TrendResult, lastSample, now time.Time) float64 {
	density := math.Min(float64(result.DataPoints)/fullSampleCount, 1.0)

	gapHours := now.Sub(lastSample).Hours()
	if gapHours < 0 {
		gapHours = 0
	}
	recency := math.Max(0, 1.0-gapHours/fullWeekHours)

	consistency := math.Max(0, 1.0-result.Volatility/maxUsefulCV)

	clarity := 0.5
	switch result.TrendType {
	case models.TrendUpward, models.TrendDownward:
		clarity = 1.0
	case models.TrendVolatile:
		clarity = 0.2
	}

	c := density*0.35 + recency*0.30 + consistency*0.20 + clarity*0.15
	return math.Min(c, 1.0)
}
