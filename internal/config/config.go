package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Cardwatch/models"
)

// Config holds all application configuration
type Config struct {
	// Persistence
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"cardwatch"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"-"`
	DBName     string `env:"DB_NAME" envDefault:"cardwatch"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Alert delivery
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN" envDefault:"-"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID" envDefault:"0"`
	QuietHoursStart  int    `env:"QUIET_HOURS_START" envDefault:"22"`
	QuietHoursEnd    int    `env:"QUIET_HOURS_END" envDefault:"8"`
	MaxAlertsPerHour int    `env:"MAX_ALERTS_PER_HOUR" envDefault:"10"`
	MinAlertInterval int    `env:"MIN_ALERT_INTERVAL_MINUTES" envDefault:"15"`

	// Monitoring
	MonitorIntervalHours int     `env:"MONITOR_INTERVAL_HOURS" envDefault:"6"`
	LookbackHours        int     `env:"LOOKBACK_HOURS" envDefault:"168"`
	MinPriceThreshold    float64 `env:"MIN_PRICE_THRESHOLD" envDefault:"0.50"`
	MaxCardsPerCycle     int     `env:"MAX_CARDS_PER_CYCLE" envDefault:"1000"`
	CleanupDays          int     `env:"CLEANUP_DAYS" envDefault:"30"`

	// HTTP
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	// Analysis thresholds
	Analysis models.AnalysisConfig
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.DBHost = getEnvWithDefault("DB_HOST", "localhost")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = getEnvWithDefault("DB_USER", "cardwatch")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "cardwatch")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)
	cfg.QuietHoursStart = getEnvIntWithDefault("QUIET_HOURS_START", 22)
	cfg.QuietHoursEnd = getEnvIntWithDefault("QUIET_HOURS_END", 8)
	cfg.MaxAlertsPerHour = getEnvIntWithDefault("MAX_ALERTS_PER_HOUR", 10)
	cfg.MinAlertInterval = getEnvIntWithDefault("MIN_ALERT_INTERVAL_MINUTES", 15)

	cfg.MonitorIntervalHours = getEnvIntWithDefault("MONITOR_INTERVAL_HOURS", 6)
	cfg.LookbackHours = getEnvIntWithDefault("LOOKBACK_HOURS", 168)
	cfg.MinPriceThreshold = getEnvFloatWithDefault("MIN_PRICE_THRESHOLD", 0.50)
	cfg.MaxCardsPerCycle = getEnvIntWithDefault("MAX_CARDS_PER_CYCLE", 1000)
	cfg.CleanupDays = getEnvIntWithDefault("CLEANUP_DAYS", 30)

	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	def := models.DefaultAnalysisConfig()
	cfg.Analysis = models.AnalysisConfig{
		UndervaluedThreshold:  getEnvFloatWithDefault("UNDERVALUED_THRESHOLD", def.UndervaluedThreshold),
		OvervaluedThreshold:   getEnvFloatWithDefault("OVERVALUED_THRESHOLD", def.OvervaluedThreshold),
		AnomalyScoreThreshold: getEnvFloatWithDefault("ANOMALY_SCORE_THRESHOLD", def.AnomalyScoreThreshold),
		ConfidenceThreshold:   getEnvFloatWithDefault("CONFIDENCE_THRESHOLD", def.ConfidenceThreshold),
		VolatilityThreshold:   getEnvFloatWithDefault("VOLATILITY_THRESHOLD", def.VolatilityThreshold),
		StableBand:            getEnvFloatWithDefault("STABLE_BAND", def.StableBand),
		PercentageThreshold:   getEnvFloatWithDefault("PERCENTAGE_THRESHOLD", def.PercentageThreshold),
		AbsoluteThreshold:     getEnvFloatWithDefault("ABSOLUTE_THRESHOLD", def.AbsoluteThreshold),
		MinSetCardCount:       getEnvIntWithDefault("MIN_SET_CARD_COUNT", def.MinSetCardCount),
		FastMoverVelocity:     getEnvFloatWithDefault("FAST_MOVER_VELOCITY", def.FastMoverVelocity),
	}

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
