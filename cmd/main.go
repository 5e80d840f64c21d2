package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Cardwatch/internal/api/scryfall"
	"github.com/Alias1177/Cardwatch/internal/config"
	"github.com/Alias1177/Cardwatch/internal/scanner"
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

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <set-code>\n", os.Args[0])
		os.Exit(2)
	}
	setCode := os.Args[1]

	ctx := context.Background()
	now := time.Now()
	client := scryfall.NewClient(time.Duration(cfg.RequestTimeout) * time.Second)

	// 1) Fetch every printing in the set
	cards, err := client.GetSetCards(ctx, setCode)
	if err != nil {
		log.Fatal().Err(err).Str("set", setCode).Msg("Failed to fetch set cards")
	}

	// 2) Gather peer printings for each card with a usable price
	var scanCards []scanner.SetCard
	printingsByName := make(map[string][]models.Card)

	for _, card := range cards {
		foil := false
		price := card.PriceUSD
		if price < cfg.MinPriceThreshold {
			// Fall back to the foil price when the non-foil one is
			// missing or negligible
			if card.PriceUSDFoil < cfg.MinPriceThreshold {
				continue
			}
			foil = true
			price = card.PriceUSDFoil
		}

		printings, ok := printingsByName[card.Name]
		if !ok {
			printings, err = client.GetCardPrintings(ctx, card.Name)
			if err != nil {
				log.Warn().Err(err).Str("card", card.Name).Msg("Skipping card")
				continue
			}
			printingsByName[card.Name] = printings
		}

		scanCards = append(scanCards, scanner.SetCard{
			Card:  card,
			Foil:  foil,
			Price: price,
			Peers: scanner.GroupPeers(card, foil, printings, now),
		})
	}

	// 3) Score the whole set
	report, err := scanner.ScanSet(setCode, scanCards, cfg.Analysis, now)
	if err != nil {
		log.Fatal().Err(err).Str("set", setCode).Msg("Scan failed")
	}

	printReport(report)
}

func printReport(report *models.ScanReport) {
	fmt.Printf("\n===== SET SCAN: %s =====\n", report.SetCode)
	fmt.Printf("Cards scanned: %d\n", report.TotalCards)
	fmt.Printf("Total value: $%.2f\n", report.TotalValue)
	fmt.Printf("Average value: $%.2f\n", report.AverageValue)
	fmt.Printf("Anomalies found: %d\n", len(report.Anomalies))

	if len(report.Anomalies) == 0 {
		return
	}

	fmt.Println("\nRanked anomalies:")
	for i, a := range report.Anomalies {
		foilText := ""
		if a.Foil {
			foilText = " (foil)"
		}
		fmt.Printf("%2d. %s%s [%s]: $%.2f vs expected $%.2f (%.1fx, score %.2f, confidence %.2f)\n",
			i+1, a.CardName, foilText, a.Classification,
			a.ObservedPrice, a.ExpectedPrice, a.Ratio, a.Score, a.Confidence)
	}
}
