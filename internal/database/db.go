package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Alias1177/Cardwatch/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PrintingKey identifies one tracked printing.
type PrintingKey struct {
	CardName        string
	SetCode         string
	CollectorNumber string
	Foil            bool
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS price_history (
			id BIGSERIAL PRIMARY KEY,
			card_name TEXT NOT NULL,
			set_code TEXT NOT NULL,
			collector_number TEXT NOT NULL,
			foil BOOLEAN NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			observed_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_price_history_key
		ON price_history (card_name, set_code, collector_number, foil, observed_at)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trend_alerts (
			id BIGSERIAL PRIMARY KEY,
			card_name TEXT NOT NULL,
			set_code TEXT NOT NULL,
			collector_number TEXT NOT NULL,
			foil BOOLEAN NOT NULL,
			trend_type TEXT NOT NULL,
			strength TEXT NOT NULL,
			start_price NUMERIC(10,2) NOT NULL,
			current_price NUMERIC(10,2) NOT NULL,
			pct_change NUMERIC(10,2) NOT NULL,
			abs_change NUMERIC(10,2) NOT NULL,
			score INT NOT NULL,
			priority TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS app_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)

	return err
}

// RecordObservation stores a validated price observation.
func (db *DB) RecordObservation(ctx context.Context, obs models.PriceObservation) error {
	if err := obs.Validate(); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO price_history (card_name, set_code, collector_number, foil, price, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, obs.CardName, obs.SetCode, obs.CollectorNumber, obs.Foil, obs.Price, obs.ObservedAt)

	return err
}

// GetPriceHistory returns the time-ascending price series for a printing
// within the lookback window.
func (db *DB) GetPriceHistory(ctx context.Context, cardName, setCode, collectorNumber string, foil bool, lookbackHours int) ([]models.PriceHistoryPoint, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT price, observed_at
		FROM price_history
		WHERE card_name = $1 AND set_code = $2 AND collector_number = $3 AND foil = $4
		  AND observed_at >= NOW() - make_interval(hours => $5)
		ORDER BY observed_at ASC
	`, cardName, setCode, collectorNumber, foil, lookbackHours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.PriceHistoryPoint
	for rows.Next() {
		var p models.PriceHistoryPoint
		if err := rows.Scan(&p.Price, &p.ObservedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// FindTrendingKeys returns printings whose earliest and latest prices in the
// window moved by at least the percentage or absolute threshold. Results are
// capped to keep a single cycle bounded.
func (db *DB) FindTrendingKeys(ctx context.Context, minPctChange, minAbsChange, minPrice float64, lookbackHours, maxKeys int) ([]PrintingKey, error) {
	rows, err := db.QueryContext(ctx, `
		WITH windowed AS (
			SELECT card_name, set_code, collector_number, foil,
			       (ARRAY_AGG(price ORDER BY observed_at ASC))[1]  AS first_price,
			       (ARRAY_AGG(price ORDER BY observed_at DESC))[1] AS last_price,
			       COUNT(*) AS samples
			FROM price_history
			WHERE observed_at >= NOW() - make_interval(hours => $4)
			GROUP BY card_name, set_code, collector_number, foil
		)
		SELECT card_name, set_code, collector_number, foil
		FROM windowed
		WHERE samples >= 2
		  AND first_price > 0
		  AND last_price >= $3
		  AND (
			(last_price - first_price) / first_price * 100 >= $1
			OR last_price - first_price >= $2
		  )
		ORDER BY (last_price - first_price) / first_price DESC
		LIMIT $5
	`, minPctChange, minAbsChange, minPrice, lookbackHours, maxKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []PrintingKey
	for rows.Next() {
		var k PrintingKey
		if err := rows.Scan(&k.CardName, &k.SetCode, &k.CollectorNumber, &k.Foil); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// SaveAlert persists a generated alert record.
func (db *DB) SaveAlert(ctx context.Context, alert models.AlertCandidate) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO trend_alerts (
			card_name, set_code, collector_number, foil,
			trend_type, strength, start_price, current_price,
			pct_change, abs_change, score, priority, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`,
		alert.CardName, alert.SetCode, alert.CollectorNumber, alert.Foil,
		alert.TrendType, alert.Strength, alert.StartPrice, alert.CurrentPrice,
		alert.PctChange, alert.AbsChange, alert.Score, alert.Priority)

	return err
}

// LastAlertTime returns when a printing last triggered an alert, or the zero
// time if it never has.
func (db *DB) LastAlertTime(ctx context.Context, key PrintingKey) (time.Time, error) {
	var created time.Time

	err := db.QueryRowContext(ctx, `
		SELECT created_at
		FROM trend_alerts
		WHERE card_name = $1 AND set_code = $2 AND collector_number = $3 AND foil = $4
		ORDER BY created_at DESC
		LIMIT 1
	`, key.CardName, key.SetCode, key.CollectorNumber, key.Foil).Scan(&created)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	return created, nil
}

// CleanupOldData removes observations and alerts older than the retention
// window.
func (db *DB) CleanupOldData(ctx context.Context, days int) error {
	if _, err := db.ExecContext(ctx, `
		DELETE FROM price_history
		WHERE observed_at < NOW() - make_interval(days => $1)
	`, days); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, `
		DELETE FROM trend_alerts
		WHERE created_at < NOW() - make_interval(days => $1)
	`, days)

	return err
}

// GetConfigValue reads a persisted configuration value; missing keys return
// an empty string.
func (db *DB) GetConfigValue(ctx context.Context, key string) (string, error) {
	var value string

	err := db.QueryRowContext(ctx, `
		SELECT value FROM app_config WHERE key = $1
	`, key).Scan(&value)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return value, nil
}

// SetConfigValue persists a configuration value.
func (db *DB) SetConfigValue(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO app_config (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value
	`, key, value)

	return err
}
