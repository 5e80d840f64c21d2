package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/Alias1177/Cardwatch/internal/database"
	"github.com/Alias1177/Cardwatch/models"
)

type fakeStore struct {
	keys      []database.PrintingKey
	histories map[string][]models.PriceHistoryPoint
	saved     []models.AlertCandidate
	cleanups  int
}

func (f *fakeStore) FindTrendingKeys(ctx context.Context, minPct, minAbs, minPrice float64, lookbackHours, maxKeys int) ([]database.PrintingKey, error) {
	return f.keys, nil
}

func (f *fakeStore) GetPriceHistory(ctx context.Context, cardName, setCode, collectorNumber string, foil bool, lookbackHours int) ([]models.PriceHistoryPoint, error) {
	return f.histories[cardName], nil
}

func (f *fakeStore) SaveAlert(ctx context.Context, alert models.AlertCandidate) error {
	f.saved = append(f.saved, alert)
	return nil
}

func (f *fakeStore) CleanupOldData(ctx context.Context, days int) error {
	f.cleanups++
	return nil
}

type fakeSink struct {
	sent []models.AlertCandidate
}

func (f *fakeSink) Send(ctx context.Context, alert models.AlertCandidate) error {
	f.sent = append(f.sent, alert)
	return nil
}

func ramp(end time.Time, prices ...float64) []models.PriceHistoryPoint {
	points := make([]models.PriceHistoryPoint, len(prices))
	duration := 24 * time.Hour
	start := end.Add(-duration)
	step := duration / time.Duration(len(prices)-1)
	for i, p := range prices {
		points[i] = models.PriceHistoryPoint{Price: p, ObservedAt: start.Add(step * time.Duration(i))}
	}
	return points
}

func TestRunCycle(t *testing.T) {
	now := time.Now()

	store := &fakeStore{
		keys: []database.PrintingKey{
			{CardName: "Riser", SetCode: "tst", CollectorNumber: "1"},
			{CardName: "Faller", SetCode: "tst", CollectorNumber: "2"},
			{CardName: "Thin", SetCode: "tst", CollectorNumber: "3"},
		},
		histories: map[string][]models.PriceHistoryPoint{
			// 50% climb in a day: upward, alertable.
			"Riser": ramp(now, 1.00, 1.10, 1.20, 1.30, 1.40, 1.50),
			// Declining: analyzed but never alerted.
			"Faller": ramp(now, 2.00, 1.90, 1.80, 1.70, 1.60, 1.50),
			// One point: quietly skipped.
			"Thin": {{Price: 1.00, ObservedAt: now}},
		},
	}
	sink := &fakeSink{}

	svc := New(store, sink, models.DefaultAnalysisConfig(), Options{})
	stats, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if stats.AlertsGenerated != 1 {
		t.Errorf("AlertsGenerated = %d, want 1", stats.AlertsGenerated)
	}
	if stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", stats.Errors)
	}

	if len(store.saved) != 1 || store.saved[0].CardName != "Riser" {
		t.Errorf("saved alerts = %+v, want single Riser alert", store.saved)
	}
	if len(sink.sent) != 1 || sink.sent[0].CardName != "Riser" {
		t.Errorf("delivered alerts = %+v, want single Riser alert", sink.sent)
	}
	if store.cleanups != 1 {
		t.Errorf("cleanups = %d, want 1", store.cleanups)
	}

	got := sink.sent[0]
	if got.TrendType != models.TrendUpward {
		t.Errorf("alert trend type = %s, want upward", got.TrendType)
	}
	if got.SetCode != "tst" || got.CollectorNumber != "1" {
		t.Errorf("alert key = %s/%s, want tst/1", got.SetCode, got.CollectorNumber)
	}
}

func TestRunCycleWithoutSink(t *testing.T) {
	now := time.Now()

	store := &fakeStore{
		keys: []database.PrintingKey{{CardName: "Riser", SetCode: "tst", CollectorNumber: "1"}},
		histories: map[string][]models.PriceHistoryPoint{
			"Riser": ramp(now, 1.00, 1.10, 1.20, 1.30, 1.40, 1.50),
		},
	}

	svc := New(store, nil, models.DefaultAnalysisConfig(), Options{})
	stats, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if stats.AlertsGenerated != 1 || len(store.saved) != 1 {
		t.Errorf("expected alert to be persisted without a sink, stats %+v", stats)
	}
}
