package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInsufficientData is returned when a set scan is requested below
	// the minimum card count.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInsufficientHistory is returned when trend analysis is requested
	// with fewer than two points.
	ErrInsufficientHistory = errors.New("insufficient price history")
)

// Validate checks that all required observation fields are present.
func (o PriceObservation) Validate() error {
	switch {
	case strings.TrimSpace(o.CardName) == "":
		return fmt.Errorf("invalid observation: card_name is required")
	case strings.TrimSpace(o.SetCode) == "":
		return fmt.Errorf("invalid observation: set_code is required")
	case o.Price < 0:
		return fmt.Errorf("invalid observation: price must not be negative, got %.2f", o.Price)
	case o.ObservedAt.IsZero():
		return fmt.Errorf("invalid observation: observed_at is required")
	}
	return nil
}
