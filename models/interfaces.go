package models

import "context"

type ObservationSource interface {
	GetSetCards(ctx context.Context, setCode string) ([]Card, error)
	GetCardPrintings(ctx context.Context, cardName string) ([]Card, error)
}

type HistorySource interface {
	GetPriceHistory(ctx context.Context, cardName, setCode, collectorNumber string, foil bool, lookbackHours int) ([]PriceHistoryPoint, error)
}

type AlertSink interface {
	Send(ctx context.Context, alert AlertCandidate) error
}
