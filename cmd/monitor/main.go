package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Cardwatch/internal/config"
	"github.com/Alias1177/Cardwatch/internal/database"
	"github.com/Alias1177/Cardwatch/internal/monitor"
	"github.com/Alias1177/Cardwatch/internal/notify"
	"github.com/Alias1177/Cardwatch/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	var sink models.AlertSink
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		notifier, err := notify.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, notify.Options{
			QuietHoursStart:  cfg.QuietHoursStart,
			QuietHoursEnd:    cfg.QuietHoursEnd,
			MaxAlertsPerHour: cfg.MaxAlertsPerHour,
			MinAlertInterval: time.Duration(cfg.MinAlertInterval) * time.Minute,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Telegram notifier")
		}
		sink = notifier
	} else {
		log.Warn().Msg("Telegram not configured, alerts will only be persisted")
	}

	svc := monitor.New(db, sink, cfg.Analysis, monitor.Options{
		LookbackHours:     cfg.LookbackHours,
		MinPriceThreshold: cfg.MinPriceThreshold,
		MaxCardsPerCycle:  cfg.MaxCardsPerCycle,
		CleanupDays:       cfg.CleanupDays,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.MonitorIntervalHours) * time.Hour
	log.Info().Dur("interval", interval).Msg("Monitoring started")

	// Run the first cycle immediately, then on the interval
	if _, err := svc.RunCycle(ctx); err != nil {
		log.Error().Err(err).Msg("Analysis cycle failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Monitoring stopped")
			return
		case <-ticker.C:
			if _, err := svc.RunCycle(ctx); err != nil {
				log.Error().Err(err).Msg("Analysis cycle failed")
			}
		}
	}
}
