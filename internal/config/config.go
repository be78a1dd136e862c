package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	GeminiAPIKey   string   `mapstructure:"GEMINI_API_KEY"`
	GeminiModel    string   `mapstructure:"GEMINI_MODEL"`
	GeminiTimeout  int      `mapstructure:"GEMINI_TIMEOUT_SECONDS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	MaxBodySize    string   `mapstructure:"MAX_BODY_SIZE"`
	MaxUploadSize  string   `mapstructure:"MAX_UPLOAD_SIZE"`
	SeedDemoData   bool     `mapstructure:"SEED_DEMO_DATA"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_TIMEOUT_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("MAX_BODY_SIZE", "1M")
	v.SetDefault("MAX_UPLOAD_SIZE", "20M")
	v.SetDefault("SEED_DEMO_DATA", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("GEMINI_MODEL")
	v.BindEnv("GEMINI_TIMEOUT_SECONDS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("MAX_BODY_SIZE")
	v.BindEnv("MAX_UPLOAD_SIZE")
	v.BindEnv("SEED_DEMO_DATA")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ExtractionEnabled reports whether a Gemini API key is configured. Without a
// key the server runs the built-in heuristic extractor, which is only suitable
// for demos.
func (c *Config) ExtractionEnabled() bool {
	return c.GeminiAPIKey != ""
}

// GeminiRequestTimeout returns the configured model-call timeout.
func (c *Config) GeminiRequestTimeout() time.Duration {
	if c.GeminiTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.GeminiTimeout) * time.Second
}

// Validate checks that the configuration is safe to run. In production a real
// extraction backend must be configured; the heuristic fallback is demo-only.
func (c *Config) Validate() error {
	if c.IsProduction() && !c.ExtractionEnabled() {
		return fmt.Errorf("GEMINI_API_KEY is required in production; " +
			"the heuristic fallback extractor is not suitable for live intake")
	}
	if c.DBMaxConns < c.DBMinConns {
		return fmt.Errorf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", c.DBMaxConns, c.DBMinConns)
	}
	return nil
}
