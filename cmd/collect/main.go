package main

import (
	"context"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Cardwatch/internal/api/scryfall"
	"github.com/Alias1177/Cardwatch/internal/config"
	"github.com/Alias1177/Cardwatch/internal/database"
	"github.com/Alias1177/Cardwatch/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

// Snapshots current prices for the given sets into the price history store.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: collect <set-code> [set-code ...]")
	}

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
	client := scryfall.NewClient(time.Duration(cfg.RequestTimeout) * time.Second)
	observedAt := time.Now()

	for _, setCode := range os.Args[1:] {
		cards, err := client.GetSetCards(ctx, setCode)
		if err != nil {
			log.Error().Err(err).Str("set", setCode).Msg("Failed to fetch set")
			continue
		}

		recorded := 0
		for _, card := range cards {
			for _, v := range []struct {
				foil  bool
				price float64
			}{
				{false, card.PriceUSD},
				{true, card.PriceUSDFoil},
			} {
				if v.price < cfg.MinPriceThreshold {
					continue
				}
				obs := models.PriceObservation{
					CardName:        card.Name,
					SetCode:         card.SetCode,
					CollectorNumber: card.CollectorNumber,
					Foil:            v.foil,
					Price:           v.price,
					ObservedAt:      observedAt,
				}
				if err := db.RecordObservation(ctx, obs); err != nil {
					log.Warn().Err(err).Str("card", card.Name).Msg("Failed to record observation")
					continue
				}
				recorded++
			}
		}

		log.Info().Str("set", setCode).Int("observations", recorded).Msg("Snapshot recorded")
	}
}
