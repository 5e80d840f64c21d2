package anomaly

import (
	"math"
	"reflect"
	"testing"

	"github.com/Alias1177/Cardwatch/models"
)

func crossPrinting(value float64, basis int) models.ExpectedPrice {
	return models.ExpectedPrice{
		Value:      value,
		Method:     models.MethodCrossPrinting,
		BasisCount: basis,
	}
}

func TestScoreClassification(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	tests := []struct {
		name     string
		observed float64
		expected float64
		class    string
	}{
		{"half the peer floor", 0.50, 1.00, models.ClassUndervalued},
		{"exactly the threshold", 0.60, 1.00, models.ClassUndervalued},
		{"parity", 1.00, 1.00, models.ClassNormal},
		{"inside the band", 1.50, 1.00, models.ClassNormal},
		{"double the peer floor", 2.00, 1.00, models.ClassOvervalued},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.observed, crossPrinting(tt.expected, 2), cfg)
			if result.Classification != tt.class {
				t.Errorf("classification = %s, want %s", result.Classification, tt.class)
			}
		})
	}
}

func TestScoreNonPositiveExpected(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	for _, value := range []float64{0, -1.50} {
		result := Score(3.00, crossPrinting(value, 4), cfg)
		if result.Classification != models.ClassNormal {
			t.Errorf("expected %v: classification = %s, want normal", value, result.Classification)
		}
		if result.Score != 0 || result.Confidence != 0 {
			t.Errorf("expected %v: score = %v, confidence = %v, want zeros", value, result.Score, result.Confidence)
		}
	}
}

func TestScoreCalibration(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	// A 4.5x overvaluation should score around 0.72.
	result := Score(4.50, crossPrinting(1.00, 3), cfg)
	if math.Abs(result.Score-0.72) > 0.01 {
		t.Errorf("4.5x deviation score = %v, want ~0.72", result.Score)
	}

	// The same deviation on the undervalued side scores the same.
	under := Score(1.00, crossPrinting(4.50, 3), cfg)
	if math.Abs(under.Score-result.Score) > 1e-9 {
		t.Errorf("undervalued score %v differs from overvalued score %v", under.Score, result.Score)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	prev := -1.0
	for _, observed := range []float64{1.0, 1.2, 1.5, 2.0, 3.0, 5.0, 10.0, 50.0} {
		result := Score(observed, crossPrinting(1.00, 2), cfg)
		if result.Score < prev {
			t.Fatalf("score decreased at ratio %v: %v < %v", observed, result.Score, prev)
		}
		if result.Score > 1.0 {
			t.Fatalf("score exceeded 1.0 at ratio %v: %v", observed, result.Score)
		}
		prev = result.Score
	}
}

func TestScoreConfidence(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	tests := []struct {
		name     string
		expected models.ExpectedPrice
		want     float64
	}{
		{"one peer", crossPrinting(1.00, 1), 0.3},
		{"three peers", crossPrinting(1.00, 3), 0.5},
		{"capped", crossPrinting(1.00, 20), 1.0},
		{"rule based", models.ExpectedPrice{Value: 1.00, Method: models.MethodRuleBased}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(2.00, tt.expected, cfg)
			if math.Abs(result.Confidence-tt.want) > 1e-9 {
				t.Errorf("confidence = %v, want %v", result.Confidence, tt.want)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	expected := crossPrinting(2.40, 4)

	first := Score(0.90, expected, cfg)
	second := Score(0.90, expected, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated scoring diverged: %+v vs %+v", first, second)
	}
}

func TestReportable(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	// Far above the peer floor with plenty of peers: reportable.
	strong := Score(6.00, crossPrinting(1.00, 3), cfg)
	if !Reportable(strong, cfg) {
		t.Errorf("expected a 6x deviation with 3 peers to be reportable, got score %v confidence %v",
			strong.Score, strong.Confidence)
	}

	// Modest deviation: classified but under the score threshold.
	weak := Score(2.00, crossPrinting(1.00, 3), cfg)
	if weak.Classification != models.ClassOvervalued {
		t.Fatalf("expected overvalued classification, got %s", weak.Classification)
	}
	if Reportable(weak, cfg) {
		t.Errorf("2x deviation should stay under the reporting threshold, score %v", weak.Score)
	}

	// Strong deviation but only one peer: confidence too low.
	lowConf := Score(6.00, crossPrinting(1.00, 1), cfg)
	if Reportable(lowConf, cfg) {
		t.Errorf("single-peer result should fail the confidence threshold, confidence %v", lowConf.Confidence)
	}
}
