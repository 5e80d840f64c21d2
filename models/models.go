package models

import (
	"time"
)

// Card represents a single printing of a card as returned by the data source.
type Card struct {
	Name            string  `json:"name"`
	SetCode         string  `json:"set"`
	SetName         string  `json:"set_name"`
	SetType         string  `json:"set_type"` // commander, masters, core, expansion, ...
	CollectorNumber string  `json:"collector_number"`
	Rarity          string  `json:"rarity"` // common, uncommon, rare, mythic
	TypeLine        string  `json:"type_line"`
	ManaCost        string  `json:"mana_cost"`
	ReleasedAt      string  `json:"released_at"` // YYYY-MM-DD
	PriceUSD        float64 `json:"price_usd"`
	PriceUSDFoil    float64 `json:"price_usd_foil"`
}

// PriceObservation is a single recorded price for a printing.
// Immutable once recorded.
type PriceObservation struct {
	CardName        string    `json:"card_name"`
	SetCode         string    `json:"set_code"`
	CollectorNumber string    `json:"collector_number"`
	Foil            bool      `json:"foil"`
	Price           float64   `json:"price"`
	ObservedAt      time.Time `json:"observed_at"`
}

// PrintingGroup holds peer observations for one card name and foil status.
type PrintingGroup struct {
	CardName     string             `json:"card_name"`
	Foil         bool               `json:"foil"`
	Observations []PriceObservation `json:"observations"`
}

// Estimation methods for ExpectedPrice.
const (
	MethodCrossPrinting = "cross_printing"
	MethodRuleBased     = "rule_based"
)

// ExpectedPrice is a derived reference price for a printing.
type ExpectedPrice struct {
	Value      float64 `json:"value"`
	Method     string  `json:"method"` // cross_printing, rule_based
	BasisCount int     `json:"basis_count"`
}

// Anomaly classifications.
const (
	ClassUndervalued = "undervalued"
	ClassOvervalued  = "overvalued"
	ClassNormal      = "normal"
)

// AnomalyResult is the outcome of comparing an observed price to its
// expected price.
type AnomalyResult struct {
	CardName       string  `json:"card_name"`
	SetCode        string  `json:"set_code"`
	Foil           bool    `json:"foil"`
	ObservedPrice  float64 `json:"observed_price"`
	ExpectedPrice  float64 `json:"expected_price"`
	Ratio          float64 `json:"ratio"`
	Classification string  `json:"classification"` // undervalued, overvalued, normal
	Score          float64 `json:"score"`          // 0-1
	Confidence     float64 `json:"confidence"`     // 0-1
	Method         string  `json:"method"`
}

// ScanReport aggregates the results of scanning an entire set.
type ScanReport struct {
	SetCode      string          `json:"set_code"`
	TotalCards   int             `json:"total_cards"`
	TotalValue   float64         `json:"total_value"`
	AverageValue float64         `json:"average_value"`
	Anomalies    []AnomalyResult `json:"anomalies"` // filtered by score and confidence thresholds
	Results      []AnomalyResult `json:"results"`   // every scored printing, ranked
	ScannedAt    time.Time       `json:"scanned_at"`
}

// PriceHistoryPoint is one sample in a time-ascending price series.
type PriceHistoryPoint struct {
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}

// Trend types.
const (
	TrendUpward   = "upward"
	TrendDownward = "downward"
	TrendStable   = "stable"
	TrendVolatile = "volatile"
)

// Trend strength classes.
const (
	StrengthWeak     = "weak"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
	StrengthExtreme  = "extreme"
)

// TrendResult is the classification of a single price history series.
type TrendResult struct {
	CardName        string        `json:"card_name"`
	SetCode         string        `json:"set_code"`
	CollectorNumber string        `json:"collector_number"`
	Foil            bool          `json:"foil"`
	TrendType       string        `json:"trend_type"` // upward, downward, stable, volatile
	Strength        string        `json:"strength"`   // weak, moderate, strong, extreme
	StartPrice      float64       `json:"start_price"`
	CurrentPrice    float64       `json:"current_price"`
	PctChange       float64       `json:"pct_change"` // percent, signed
	AbsChange       float64       `json:"abs_change"`
	Duration        time.Duration `json:"duration"`
	Confidence      float64       `json:"confidence"` // 0-1
	Volatility      float64       `json:"volatility"` // coefficient of variation
	Momentum        float64       `json:"momentum"`   // recent-window % change per point
	DataPoints      int           `json:"data_points"`
	FastMover       bool          `json:"fast_mover"`
}

// Alert priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// AlertCandidate is a trend that crossed alerting thresholds.
type AlertCandidate struct {
	TrendResult
	Score    int    `json:"score"` // 0-100
	Priority string `json:"priority"`
}

// MonitorStats tracks the outcome of one monitoring cycle.
type MonitorStats struct {
	TrendsDetected  int       `json:"trends_detected"`
	AlertsGenerated int       `json:"alerts_generated"`
	Errors          int       `json:"errors"`
	LastRun         time.Time `json:"last_run"`
}
