package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	DatabaseURL      string   `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32    `mapstructure:"DB_MIN_CONNS"`
	DefaultTenant    string   `mapstructure:"DEFAULT_TENANT"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
	JWTSigningKey    string   `mapstructure:"JWT_SIGNING_KEY"`
	ThresholdsFile   string   `mapstructure:"THRESHOLDS_FILE"`
	CoefficientsFile string   `mapstructure:"COEFFICIENTS_FILE"`
	ClinicalTZ       string   `mapstructure:"CLINICAL_TZ"`
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
	v.SetDefault("DEFAULT_TENANT", "default")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("CLINICAL_TZ", "Asia/Tokyo")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("DEFAULT_TENANT")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("THRESHOLDS_FILE")
	v.BindEnv("COEFFICIENTS_FILE")
	v.BindEnv("CLINICAL_TZ")

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

// ClinicalLocation resolves CLINICAL_TZ. Every calendar-date comparison
// (follow-up due lists) happens in this one zone.
func (c *Config) ClinicalLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ClinicalTZ)
	if err != nil {
		return nil, fmt.Errorf("CLINICAL_TZ %q: %w", c.ClinicalTZ, err)
	}
	return loc, nil
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT signing key is required so tenant claims are actually verified.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required when ENV is not development")
	}
	if _, err := c.ClinicalLocation(); err != nil {
		return err
	}
	return nil
}
