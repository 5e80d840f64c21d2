package scanner

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Alias1177/Cardwatch/models"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// card builds a scan entry with one-or-more peer printings at the given
// prices.
func card(name string, price float64, peerPrices ...float64) SetCard {
	sc := SetCard{
		Card:  models.Card{Name: name, SetCode: "tst", CollectorNumber: "1", Rarity: "rare"},
		Price: price,
	}
	for i, p := range peerPrices {
		sc.Peers = append(sc.Peers, models.PriceObservation{
			CardName:        name,
			SetCode:         "old",
			CollectorNumber: string(rune('a' + i)),
			Price:           p,
			ObservedAt:      testNow,
		})
	}
	return sc
}

func fillerCards(n int) []SetCard {
	cards := make([]SetCard, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, card("Filler "+string(rune('A'+i)), 1.00, 1.00))
	}
	return cards
}

func TestScanSetRejectsSmallSets(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	_, err := ScanSet("tst", fillerCards(7), cfg, testNow)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}

	if _, err := ScanSet("tst", fillerCards(8), cfg, testNow); err != nil {
		t.Errorf("8 cards should be scannable, got %v", err)
	}
}

func TestScanSetRanking(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	cards := fillerCards(6)
	// Two cards with identical 6x deviations but different peer counts:
	// equal score, tie broken by confidence.
	cards = append(cards,
		card("Beta", 6.00, 1.00),
		card("Alpha", 6.00, 1.00, 1.00, 1.00),
		// Identical score and confidence: tie broken by name.
		card("Delta", 6.00, 1.00),
		card("Gamma", 3.00, 1.00),
	)

	report, err := ScanSet("tst", cards, cfg, testNow)
	if err != nil {
		t.Fatal(err)
	}

	if !sort.SliceIsSorted(report.Results, func(i, j int) bool {
		a, b := report.Results[i], report.Results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.CardName < b.CardName
	}) {
		t.Error("results are not in ranked order")
	}

	var names []string
	for _, r := range report.Results[:3] {
		names = append(names, r.CardName)
	}
	want := []string{"Alpha", "Beta", "Delta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("top results = %v, want %v", names, want)
		}
	}
}

func TestScanSetAggregates(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()

	cards := fillerCards(7)
	cards = append(cards, card("Spike", 9.00, 1.00, 1.00, 1.00))

	report, err := ScanSet("tst", cards, cfg, testNow)
	if err != nil {
		t.Fatal(err)
	}

	if report.TotalCards != 8 {
		t.Errorf("TotalCards = %d, want 8", report.TotalCards)
	}
	if report.TotalValue != 16.00 {
		t.Errorf("TotalValue = %v, want 16.00", report.TotalValue)
	}
	if report.AverageValue != 2.00 {
		t.Errorf("AverageValue = %v, want 2.00", report.AverageValue)
	}

	// Only the 9x deviation clears both reporting thresholds.
	if len(report.Anomalies) != 1 || report.Anomalies[0].CardName != "Spike" {
		t.Errorf("Anomalies = %+v, want only Spike", report.Anomalies)
	}
	if len(report.Results) != 8 {
		t.Errorf("Results should keep every scored printing, got %d", len(report.Results))
	}
}

func TestScanSetDeterministic(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	cards := append(fillerCards(7), card("Spike", 5.00, 1.00, 2.00))

	first, err := ScanSet("tst", cards, cfg, testNow)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ScanSet("tst", cards, cfg, testNow)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.Results {
		if first.Results[i] != second.Results[i] {
			t.Fatalf("scan diverged at %d: %+v vs %+v", i, first.Results[i], second.Results[i])
		}
	}
}

func TestGroupPeers(t *testing.T) {
	target := models.Card{Name: "Shock", SetCode: "aaa", CollectorNumber: "1"}
	printings := []models.Card{
		{Name: "Shock", SetCode: "aaa", CollectorNumber: "1", PriceUSD: 0.30},  // self
		{Name: "Shock", SetCode: "bbb", CollectorNumber: "20", PriceUSD: 0.50, PriceUSDFoil: 2.00},
		{Name: "Shock", SetCode: "ccc", CollectorNumber: "31", PriceUSD: 0},    // no price
		{Name: "Bolt", SetCode: "bbb", CollectorNumber: "21", PriceUSD: 1.00},  // different card
	}

	peers := GroupPeers(target, false, printings, testNow)
	if len(peers) != 1 || peers[0].SetCode != "bbb" || peers[0].Price != 0.50 {
		t.Errorf("non-foil peers = %+v, want single bbb printing at 0.50", peers)
	}

	foilPeers := GroupPeers(target, true, printings, testNow)
	if len(foilPeers) != 1 || foilPeers[0].Price != 2.00 {
		t.Errorf("foil peers = %+v, want single printing at 2.00", foilPeers)
	}
}
