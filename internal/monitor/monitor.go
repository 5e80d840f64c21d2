package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Cardwatch/internal/alert"
	"github.com/Alias1177/Cardwatch/internal/database"
	"github.com/Alias1177/Cardwatch/internal/trend"
	"github.com/Alias1177/Cardwatch/models"
)

// Store is the subset of the database layer the monitor needs.
type Store interface {
	FindTrendingKeys(ctx context.Context, minPctChange, minAbsChange, minPrice float64, lookbackHours, maxKeys int) ([]database.PrintingKey, error)
	GetPriceHistory(ctx context.Context, cardName, setCode, collectorNumber string, foil bool, lookbackHours int) ([]models.PriceHistoryPoint, error)
	SaveAlert(ctx context.Context, alert models.AlertCandidate) error
	CleanupOldData(ctx context.Context, days int) error
}

// Options bounds a single monitoring cycle.
type Options struct {
	LookbackHours     int
	MinPriceThreshold float64
	MaxCardsPerCycle  int
	CleanupDays       int
}

// Service runs analysis cycles over recorded price history. The service
// itself holds no timers; an external scheduler decides when a cycle runs.
type Service struct {
	store  Store
	sink   models.AlertSink
	cfg    models.AnalysisConfig
	opts   Options
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a monitoring service. The sink may be nil, in which case
// alerts are only persisted.
func New(store Store, sink models.AlertSink, cfg models.AnalysisConfig, opts Options) *Service {
	if opts.LookbackHours <= 0 {
		opts.LookbackHours = 168
	}
	if opts.MaxCardsPerCycle <= 0 {
		opts.MaxCardsPerCycle = 1000
	}
	if opts.CleanupDays <= 0 {
		opts.CleanupDays = 30
	}

	return &Service{
		store:  store,
		sink:   sink,
		cfg:    cfg.Normalized(),
		opts:   opts,
		logger: log.With().Str("component", "monitor").Logger(),
		now:    time.Now,
	}
}

// RunCycle executes one complete analysis pass: find printings that moved,
// classify their trends, score alerts, persist and deliver them, then prune
// old data. Per-card errors are counted, not fatal.
func (s *Service) RunCycle(ctx context.Context) (models.MonitorStats, error) {
	stats := models.MonitorStats{LastRun: s.now()}
	started := s.now()

	s.logger.Info().Msg("Starting analysis cycle")

	keys, err := s.store.FindTrendingKeys(ctx,
		s.cfg.PercentageThreshold, s.cfg.AbsoluteThreshold, s.opts.MinPriceThreshold,
		s.opts.LookbackHours, s.opts.MaxCardsPerCycle)
	if err != nil {
		return stats, err
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		candidate, ok, err := s.analyzeKey(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("card", key.CardName).Msg("Analysis failed")
			stats.Errors++
			continue
		}

		stats.TrendsDetected++
		if !ok {
			continue
		}

		if err := s.store.SaveAlert(ctx, *candidate); err != nil {
			s.logger.Error().Err(err).Str("card", key.CardName).Msg("Failed to persist alert")
			stats.Errors++
			continue
		}

		if s.sink != nil {
			if err := s.sink.Send(ctx, *candidate); err != nil {
				s.logger.Error().Err(err).Str("card", key.CardName).Msg("Failed to deliver alert")
				stats.Errors++
				continue
			}
		}

		stats.AlertsGenerated++
	}

	if err := s.store.CleanupOldData(ctx, s.opts.CleanupDays); err != nil {
		s.logger.Warn().Err(err).Msg("Cleanup failed")
		stats.Errors++
	}

	s.logger.Info().
		Int("trends", stats.TrendsDetected).
		Int("alerts", stats.AlertsGenerated).
		Int("errors", stats.Errors).
		Dur("duration", s.now().Sub(started)).
		Msg("Analysis cycle completed")

	return stats, nil
}

// analyzeKey classifies one printing's history and scores it for alerting.
func (s *Service) analyzeKey(ctx context.Context, key database.PrintingKey) (*models.AlertCandidate, bool, error) {
	points, err := s.store.GetPriceHistory(ctx,
		key.CardName, key.SetCode, key.CollectorNumber, key.Foil, s.opts.LookbackHours)
	if err != nil {
		return nil, false, err
	}

	result, err := trend.Analyze(points, s.cfg, s.now())
	if err != nil {
		// Keys surfaced by the trending query can still fall under two
		// points once the window is re-applied.
		if errors.Is(err, models.ErrInsufficientHistory) {
			return nil, false, nil
		}
		return nil, false, err
	}

	result.CardName = key.CardName
	result.SetCode = key.SetCode
	result.CollectorNumber = key.CollectorNumber
	result.Foil = key.Foil

	// Only rising prices are worth alerting on.
	if result.TrendType != models.TrendUpward {
		return nil, false, nil
	}

	candidate, ok := alert.Score(*result, s.cfg)
	if !ok {
		return nil, false, nil
	}

	return candidate, true, nil
}
