package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Alias1177/Cardwatch/models"
)

const baseURL = "https://api.scryfall.com"

// Set types considered worth scanning for anomalies.
var scannableSetTypes = map[string]bool{
	"expansion":        true,
	"core":             true,
	"masters":          true,
	"draft_innovation": true,
	"commander":        true,
	"arsenal":          true,
	"premium":          true,
	"duel_deck":        true,
}

// Client is a Scryfall API client with rate limiting and retries.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Set describes a card set as listed by the API.
type Set struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	SetType    string `json:"set_type"`
	CardCount  int    `json:"card_count"`
	Digital    bool   `json:"digital"`
	ReleasedAt string `json:"released_at"`
}

type apiCard struct {
	Name            string `json:"name"`
	Set             string `json:"set"`
	SetName         string `json:"set_name"`
	SetType         string `json:"set_type"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`
	TypeLine        string `json:"type_line"`
	ManaCost        string `json:"mana_cost"`
	ReleasedAt      string `json:"released_at"`
	Prices          struct {
		USD     string `json:"usd"`
		USDFoil string `json:"usd_foil"`
	} `json:"prices"`
}

type searchResponse struct {
	TotalCards int       `json:"total_cards"`
	HasMore    bool      `json:"has_more"`
	NextPage   string    `json:"next_page"`
	Data       []apiCard `json:"data"`
}

type setListResponse struct {
	Data []Set `json:"data"`
}

// NewClient creates a new Scryfall client. Scryfall asks integrators to stay
// under 10 requests per second.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(110*time.Millisecond), 1),
		logger:     log.With().Str("component", "scryfall").Logger(),
	}
}

// GetSets returns all scannable sets: physical sets of a scannable type with
// enough cards for a meaningful scan, sorted by name.
func (c *Client) GetSets(ctx context.Context, minCardCount int) ([]Set, error) {
	body, err := c.get(ctx, baseURL+"/sets")
	if err != nil {
		return nil, fmt.Errorf("fetching sets: %w", err)
	}

	var resp setListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing sets: %w", err)
	}

	var sets []Set
	for _, s := range resp.Data {
		if s.Digital || !scannableSetTypes[s.SetType] || s.CardCount < minCardCount {
			continue
		}
		sets = append(sets, s)
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })

	c.logger.Debug().Int("count", len(sets)).Msg("Fetched scannable sets")
	return sets, nil
}

// GetSetCards returns every printing in a set, following pagination.
func (c *Client) GetSetCards(ctx context.Context, setCode string) ([]models.Card, error) {
	query := fmt.Sprintf("e:%s", setCode)
	cards, err := c.searchCards(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching cards for set %s: %w", setCode, err)
	}
	c.logger.Info().Str("set", setCode).Int("count", len(cards)).Msg("Fetched set cards")
	return cards, nil
}

// GetCardPrintings returns all printings of a card by exact name across
// every set.
func (c *Client) GetCardPrintings(ctx context.Context, cardName string) ([]models.Card, error) {
	query := fmt.Sprintf("!%q", cardName)
	cards, err := c.searchCards(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching printings of %q: %w", cardName, err)
	}
	return cards, nil
}

func (c *Client) searchCards(ctx context.Context, query string) ([]models.Card, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("unique", "prints")
	params.Set("order", "set")

	next := baseURL + "/cards/search?" + params.Encode()

	var cards []models.Card
	for next != "" {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		var page searchResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing search page: %w", err)
		}

		for _, ac := range page.Data {
			cards = append(cards, convertCard(ac))
		}

		next = ""
		if page.HasMore {
			next = page.NextPage
		}
	}

	return cards, nil
}

// get performs a rate-limited GET with exponential backoff. A 404 from the
// search endpoint means no matches and is returned as an empty result.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var body []byte
	operation := func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			body = []byte(`{"data":[]}`)
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("non-200 status code: %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		c.logger.Error().Err(err).Str("url", rawURL).Msg("Scryfall request failed")
		return nil, fmt.Errorf("after retries: %w", err)
	}

	return body, nil
}

func convertCard(ac apiCard) models.Card {
	return models.Card{
		Name:            ac.Name,
		SetCode:         ac.Set,
		SetName:         ac.SetName,
		SetType:         ac.SetType,
		CollectorNumber: ac.CollectorNumber,
		Rarity:          ac.Rarity,
		TypeLine:        ac.TypeLine,
		ManaCost:        ac.ManaCost,
		ReleasedAt:      ac.ReleasedAt,
		PriceUSD:        parsePrice(ac.Prices.USD),
		PriceUSDFoil:    parsePrice(ac.Prices.USDFoil),
	}
}

// parsePrice converts Scryfall's string prices; missing prices come through
// as zero.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
