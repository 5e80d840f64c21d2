package alert

import (
	"testing"
	"time"

	"github.com/Alias1177/Cardwatch/models"
)

func upwardTrend(pctChange, absChange, momentum, confidence float64, duration time.Duration) models.TrendResult {
	return models.TrendResult{
		CardName:     "Test Card",
		SetCode:      "tst",
		TrendType:    models.TrendUpward,
		PctChange:    pctChange,
		AbsChange:    absChange,
		Momentum:     momentum,
		Confidence:   confidence,
		Duration:     duration,
		StartPrice:   1.00,
		CurrentPrice: 1.00 * (1 + pctChange/100),
	}
}

func TestScoreThresholds(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	tests := []struct {
		name      string
		trend     models.TrendResult
		wantAlert bool
	}{
		{
			name:      "both under threshold is suppressed",
			trend:     upwardTrend(10.0, 0.10, 2.0, 0.5, 24*time.Hour),
			wantAlert: false,
		},
		{
			name:      "percentage alone triggers",
			trend:     upwardTrend(25.0, 0.25, 2.0, 0.5, 24*time.Hour),
			wantAlert: true,
		},
		{
			name:      "absolute alone triggers",
			trend:     upwardTrend(10.0, 0.60, 2.0, 0.5, 24*time.Hour),
			wantAlert: true,
		},
		{
			name:      "exactly at the percentage threshold triggers",
			trend:     upwardTrend(20.0, 0.20, 2.0, 0.5, 24*time.Hour),
			wantAlert: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, ok := Score(tt.trend, cfg)
			if ok != tt.wantAlert {
				t.Fatalf("alert = %v, want %v", ok, tt.wantAlert)
			}
			if ok && candidate == nil {
				t.Fatal("got nil candidate with ok=true")
			}
		})
	}
}

func TestScoreComposition(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	// Every component maxed: 40 + 25 + 20 + 15 = 100.
	max, ok := Score(upwardTrend(100.0, 1.00, 20.0, 1.0, 0), cfg)
	if !ok {
		t.Fatal("expected an alert")
	}
	if max.Score != 100 {
		t.Errorf("maxed components score = %d, want 100", max.Score)
	}
	if max.Priority != models.PriorityHigh {
		t.Errorf("priority = %s, want high", max.Priority)
	}

	// Components are capped, not unbounded.
	over, ok := Score(upwardTrend(500.0, 5.00, 100.0, 1.0, 0), cfg)
	if !ok {
		t.Fatal("expected an alert")
	}
	if over.Score != 100 {
		t.Errorf("overdriven components score = %d, want capped 100", over.Score)
	}

	// 40 (pct) + 0 (momentum) + 0 (slow) + 7.5 (confidence) = 47.5 -> 48.
	mid, ok := Score(upwardTrend(100.0, 1.00, 0, 0.5, 72*time.Hour), cfg)
	if !ok {
		t.Fatal("expected an alert")
	}
	if mid.Score != 48 {
		t.Errorf("score = %d, want 48", mid.Score)
	}
	if mid.Priority != models.PriorityMedium {
		t.Errorf("priority = %s, want medium", mid.Priority)
	}

	// 10 (pct) + 0 + 0 + 4.5 = 14.5 -> 15, low priority.
	low, ok := Score(upwardTrend(25.0, 0.25, 0, 0.3, 72*time.Hour), cfg)
	if !ok {
		t.Fatal("expected an alert")
	}
	if low.Priority != models.PriorityLow {
		t.Errorf("priority = %s, want low (score %d)", low.Priority, low.Score)
	}
}

func TestScoreSpeedComponent(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	fast, _ := Score(upwardTrend(50.0, 0.50, 0, 0, 12*time.Hour), cfg)
	slow, _ := Score(upwardTrend(50.0, 0.50, 0, 0, 60*time.Hour), cfg)
	if fast == nil || slow == nil {
		t.Fatal("expected alerts for both trends")
	}
	if fast.Score <= slow.Score {
		t.Errorf("faster movement should score higher: fast %d, slow %d", fast.Score, slow.Score)
	}
}

func TestScorePreservesTrend(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	trend := upwardTrend(30.0, 0.30, 5.0, 0.8, 6*time.Hour)

	candidate, ok := Score(trend, cfg)
	if !ok {
		t.Fatal("expected an alert")
	}
	if candidate.CardName != trend.CardName || candidate.PctChange != trend.PctChange {
		t.Errorf("candidate should embed the trend, got %+v", candidate.TrendResult)
	}
}
