package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/dsokolov/newslens/pkg/models"
)

// Config represents application configuration
type Config struct {
	News     NewsConfig
	Market   MarketConfig
	AI       AIConfig
	Analysis AnalysisConfig
	Telegram TelegramConfig
	Logging  LoggingConfig
}

// NewsConfig represents news source configuration
type NewsConfig struct {
	APIKey  string `envconfig:"NEWS_API_KEY" required:"false"`
	BaseURL string `envconfig:"NEWS_BASE_URL" default:"https://api.marketaux.com/v1"`
	Limit   int    `envconfig:"NEWS_LIMIT" default:"20"`
}

// MarketConfig represents market data configuration
type MarketConfig struct {
	Timeout time.Duration `envconfig:"MARKET_TIMEOUT" default:"30s"`
}

// AIConfig represents the structured-analysis provider configuration
type AIConfig struct {
	APIKey       string        `envconfig:"AI_API_KEY" required:"false"`
	BaseURL      string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	Model        string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	Timeout      time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
	MaxRetries   int           `envconfig:"AI_MAX_RETRIES" default:"2"`
	RetryBackoff time.Duration `envconfig:"AI_RETRY_BACKOFF" default:"500ms"`
}

// AnalysisConfig represents pattern detection and correlation parameters
type AnalysisConfig struct {
	MoveWindow            int           `envconfig:"ANALYSIS_MOVE_WINDOW" default:"5"`
	MoveThreshold         float64       `envconfig:"ANALYSIS_MOVE_THRESHOLD" default:"0.05"`
	BreakoutWindow        int           `envconfig:"ANALYSIS_BREAKOUT_WINDOW" default:"10"`
	BreakoutThreshold     float64       `envconfig:"ANALYSIS_BREAKOUT_THRESHOLD" default:"0.02"`
	ReversalRunLength     int           `envconfig:"ANALYSIS_REVERSAL_RUN_LENGTH" default:"3"`
	ReversalThreshold     float64       `envconfig:"ANALYSIS_REVERSAL_THRESHOLD" default:"0.02"`
	CorrelationWindowDays int           `envconfig:"ANALYSIS_CORRELATION_WINDOW_DAYS" default:"3"`
	ConfidenceFloor       float64       `envconfig:"ANALYSIS_CONFIDENCE_FLOOR" default:"0.25"`
	ExtractionWorkers     int           `envconfig:"ANALYSIS_EXTRACTION_WORKERS" default:"4"`
	RunTimeout            time.Duration `envconfig:"ANALYSIS_RUN_TIMEOUT" default:"5m"`
}

// TelegramConfig represents the optional telegram report sink
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks window and threshold values. Invalid values fail fast
// before any pipeline stage executes.
func (c *Config) Validate() error {
	a := c.Analysis

	if a.MoveWindow < 1 {
		return &models.ConfigurationError{Field: "ANALYSIS_MOVE_WINDOW", Reason: "must be at least 1 day"}
	}
	if a.MoveThreshold <= 0 {
		return &models.ConfigurationError{Field: "ANALYSIS_MOVE_THRESHOLD", Reason: "must be positive"}
	}
	if a.BreakoutWindow < 2 {
		return &models.ConfigurationError{Field: "ANALYSIS_BREAKOUT_WINDOW", Reason: "must be at least 2 days"}
	}
	if a.BreakoutThreshold <= 0 {
		return &models.ConfigurationError{Field: "ANALYSIS_BREAKOUT_THRESHOLD", Reason: "must be positive"}
	}
	if a.ReversalRunLength < 2 {
		return &models.ConfigurationError{Field: "ANALYSIS_REVERSAL_RUN_LENGTH", Reason: "must be at least 2 days"}
	}
	if a.ReversalThreshold <= 0 {
		return &models.ConfigurationError{Field: "ANALYSIS_REVERSAL_THRESHOLD", Reason: "must be positive"}
	}
	if a.CorrelationWindowDays < 0 {
		return &models.ConfigurationError{Field: "ANALYSIS_CORRELATION_WINDOW_DAYS", Reason: "must not be negative"}
	}
	if a.ConfidenceFloor < 0 || a.ConfidenceFloor > 1 {
		return &models.ConfigurationError{Field: "ANALYSIS_CONFIDENCE_FLOOR", Reason: "must be within [0, 1]"}
	}
	if a.ExtractionWorkers < 1 {
		return &models.ConfigurationError{Field: "ANALYSIS_EXTRACTION_WORKERS", Reason: "must be at least 1"}
	}
	if a.RunTimeout <= 0 {
		return &models.ConfigurationError{Field: "ANALYSIS_RUN_TIMEOUT", Reason: "must be positive"}
	}
	if c.AI.MaxRetries < 0 {
		return &models.ConfigurationError{Field: "AI_MAX_RETRIES", Reason: "must not be negative"}
	}
	if c.News.Limit < 1 {
		return &models.ConfigurationError{Field: "NEWS_LIMIT", Reason: "must be at least 1"}
	}

	return nil
}
