package scanner

import (
	"fmt"
	"sort"
	"time"

	"github.com/Alias1177/Cardwatch/internal/anomaly"
	"github.com/Alias1177/Cardwatch/internal/estimate"
	"github.com/Alias1177/Cardwatch/models"
)

// SetCard pairs a printing under evaluation with the observations of its
// sibling printings. Peers share the card name and foil status and are
// gathered by the caller (typically from the observation source).
type SetCard struct {
	Card  models.Card
	Foil  bool
	Price float64
	Peers []models.PriceObservation
}

// ScanSet scores every printing of a set against its peer printings and
// returns a ranked report. Sets below the configured minimum card count are
// rejected with ErrInsufficientData.
func ScanSet(setCode string, cards []SetCard, cfg models.AnalysisConfig, now time.Time) (*models.ScanReport, error) {
	cfg = cfg.Normalized()

	if len(cards) < cfg.MinSetCardCount {
		return nil, fmt.Errorf("set %s has %d cards, need at least %d: %w",
			setCode, len(cards), cfg.MinSetCardCount, models.ErrInsufficientData)
	}

	report := &models.ScanReport{
		SetCode:    setCode,
		TotalCards: len(cards),
		ScannedAt:  now,
	}

	for _, sc := range cards {
		report.TotalValue += sc.Price

		group := models.PrintingGroup{
			CardName:     sc.Card.Name,
			Foil:         sc.Foil,
			Observations: sc.Peers,
		}

		expected := estimate.Estimate(group, sc.Card, now)
		result := anomaly.Score(sc.Price, expected, cfg)
		result.CardName = sc.Card.Name
		result.SetCode = sc.Card.SetCode
		result.Foil = sc.Foil

		report.Results = append(report.Results, result)
	}

	report.AverageValue = report.TotalValue / float64(len(cards))

	// Rank descending by score, ties by confidence, then by name so the
	// output is deterministic.
	sort.SliceStable(report.Results, func(i, j int) bool {
		a, b := report.Results[i], report.Results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.CardName < b.CardName
	})

	for _, r := range report.Results {
		if anomaly.Reportable(r, cfg) {
			report.Anomalies = append(report.Anomalies, r)
		}
	}

	return report, nil
}

// GroupPeers builds the peer observation list for a target printing from all
// known printings of the card: same name, same foil status, excluding the
// target's own printing.
func GroupPeers(target models.Card, foil bool, printings []models.Card, observedAt time.Time) []models.PriceObservation {
	var peers []models.PriceObservation
	for _, p := range printings {
		if p.Name != target.Name {
			continue
		}
		if p.SetCode == target.SetCode && p.CollectorNumber == target.CollectorNumber {
			continue
		}
		price := p.PriceUSD
		if foil {
			price = p.PriceUSDFoil
		}
		if price <= 0 {
			continue
		}
		peers = append(peers, models.PriceObservation{
			CardName:        p.Name,
			SetCode:         p.SetCode,
			CollectorNumber: p.CollectorNumber,
			Foil:            foil,
			Price:           price,
			ObservedAt:      observedAt,
		})
	}
	return peers
}
