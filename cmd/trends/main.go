package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Cardwatch/internal/alert"
	"github.com/Alias1177/Cardwatch/internal/config"
	"github.com/Alias1177/Cardwatch/internal/database"
	"github.com/Alias1177/Cardwatch/internal/trend"
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

	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <card-name> <set-code> <collector-number> [foil]\n", os.Args[0])
		os.Exit(2)
	}
	cardName, setCode, collectorNumber := os.Args[1], os.Args[2], os.Args[3]
	foil := len(os.Args) > 4 && os.Args[4] == "foil"

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

	ctx := context.Background()
	points, err := db.GetPriceHistory(ctx, cardName, setCode, collectorNumber, foil, cfg.LookbackHours)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load price history")
	}

	result, err := trend.Analyze(points, cfg.Analysis, time.Now())
	if err != nil {
		log.Fatal().Err(err).Str("card", cardName).Msg("Trend analysis failed")
	}

	result.CardName = cardName
	result.SetCode = setCode
	result.CollectorNumber = collectorNumber
	result.Foil = foil

	fmt.Printf("\n===== TREND: %s (%s #%s) =====\n", cardName, setCode, collectorNumber)
	fmt.Printf("Type: %s (%s)\n", result.TrendType, result.Strength)
	fmt.Printf("Price: $%.2f -> $%.2f (%+.1f%%, $%+.2f)\n",
		result.StartPrice, result.CurrentPrice, result.PctChange, result.AbsChange)
	fmt.Printf("Window: %s over %d samples\n", result.Duration, result.DataPoints)
	fmt.Printf("Volatility: %.3f, momentum: %.2f, confidence: %.2f\n",
		result.Volatility, result.Momentum, result.Confidence)
	if result.FastMover {
		fmt.Println("Fast mover: yes")
	}

	if candidate, ok := alert.Score(*result, cfg.Analysis); ok {
		fmt.Printf("Alert score: %d (%s priority)\n", candidate.Score, candidate.Priority)
	} else {
		fmt.Println("Below alerting thresholds")
	}
}
