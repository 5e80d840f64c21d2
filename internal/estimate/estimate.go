package estimate

import (
	"strings"
	"time"

	"github.com/Alias1177/Cardwatch/models"
)

// Base prices by rarity in USD.
var basePrices = map[string]float64{
	"common":   0.15,
	"uncommon": 0.40,
	"rare":     1.50,
	"mythic":   4.00,
}

// Peer prices below this are treated as noise and excluded from the basis.
const minPeerPrice = 0.25

// Estimate computes the expected price for a target printing. When at least
// one peer printing with a usable price exists the expected price is the
// minimum among peers; otherwise it falls back to the rule-based heuristic.
func Estimate(group models.PrintingGroup, target models.Card, now time.Time) models.ExpectedPrice {
	if exp, ok := CrossPrinting(group, target); ok {
		return exp
	}
	return models.ExpectedPrice{
		Value:      RuleBased(target, now),
		Method:     models.MethodRuleBased,
		BasisCount: 0,
	}
}

// CrossPrinting derives the expected price from sibling printings sharing
// the same foil status, excluding the target's own set. The minimum peer
// price is used rather than an average: any printing priced below the floor
// of its peers is an arbitrage candidate.
func CrossPrinting(group models.PrintingGroup, target models.Card) (models.ExpectedPrice, bool) {
	min := 0.0
	basis := 0

	for _, obs := range group.Observations {
		if obs.SetCode == target.SetCode && obs.CollectorNumber == target.CollectorNumber {
			continue // never compare against self
		}
		if obs.Price < minPeerPrice {
			continue
		}
		if basis == 0 || obs.Price < min {
			min = obs.Price
		}
		basis++
	}

	if basis == 0 {
		return models.ExpectedPrice{}, false
	}

	return models.ExpectedPrice{
		Value:      min,
		Method:     models.MethodCrossPrinting,
		BasisCount: basis,
	}, true
}

// RuleBased estimates a price from card characteristics alone. Used when a
// card has no peer printings with known prices.
func RuleBased(card models.Card, now time.Time) float64 {
	expected, ok := basePrices[card.Rarity]
	if !ok {
		expected = 1.00
	}

	expected *= typeMultiplier(card.TypeLine)
	expected *= setMultiplier(card.SetType)
	expected *= ageMultiplier(card.ReleasedAt, now)
	expected *= manaMultiplier(card.ManaCost)

	if expected < 0.10 {
		expected = 0.10
	}
	return expected
}

func typeMultiplier(typeLine string) float64 {
	mult := 1.0
	if strings.Contains(typeLine, "Legendary") {
		mult *= 2.5
	}
	if strings.Contains(typeLine, "Planeswalker") {
		mult *= 3.0
	}
	if strings.Contains(typeLine, "Creature") {
		mult *= 1.3
	}
	if strings.Contains(typeLine, "Artifact") {
		mult *= 1.2
	}
	if strings.Contains(typeLine, "Land") {
		mult *= 1.2
	}
	return mult
}

func setMultiplier(setType string) float64 {
	switch setType {
	case "commander":
		return 1.8 // Commander products carry format demand
	case "masters":
		return 1.3 // reprint sets lean on valuable cards
	case "core":
		return 0.8
	default:
		return 1.0
	}
}

func ageMultiplier(released string, now time.Time) float64 {
	years := models.YearsSince(models.ParseReleaseDate(released), now)
	switch {
	case years >= 10:
		return 1.5
	case years >= 5:
		return 1.2
	case years >= 2:
		return 1.1
	default:
		return 1.0
	}
}

// manaMultiplier scales by the number of mana symbols in the printed cost.
// Cards without a mana cost (lands, back faces) take no adjustment.
func manaMultiplier(manaCost string) float64 {
	if manaCost == "" {
		return 1.0
	}
	symbols := strings.Count(manaCost, "{")
	switch {
	case symbols == 0:
		return 1.5
	case symbols == 1:
		return 1.3
	case symbols == 2:
		return 1.1
	case symbols >= 7:
		return 0.6
	case symbols >= 5:
		return 0.8
	default:
		return 1.0
	}
}
