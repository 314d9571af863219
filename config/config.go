// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	ME       MEConfig       `mapstructure:"me"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Data     DataConfig     `mapstructure:"data"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type CacheConfig struct {
	// RefreshDays is the cache freshness window in whole days. Zero treats
	// every cached record as stale and refreshes on every lookup.
	RefreshDays int `mapstructure:"refresh_days"`
}

type MEConfig struct {
	APIURL string `mapstructure:"api_url"`
	SID    string `mapstructure:"sid"`
	Token  string `mapstructure:"token"`
}

type SyncConfig struct {
	APIURL string `mapstructure:"api_url"`
	Token  string `mapstructure:"token"`
}

type DataConfig struct {
	NicknamesPath string `mapstructure:"nicknames_path"`
	NamesPath     string `mapstructure:"names_path"`
}

// ScoringConfig drives the match scoring engine. Every knob ships with the
// standard defaults; deployments rarely need to change them.
type ScoringConfig struct {
	MatchScores        MatchScores     `mapstructure:"match_scores"`
	FuzzyThresholds    FuzzyThresholds `mapstructure:"fuzzy_thresholds"`
	Weights            Weights         `mapstructure:"weights"`
	RiskTiers          []RiskTier      `mapstructure:"risk_tiers"`
	ExactBothBonus     float64         `mapstructure:"exact_both_bonus"`
	AgreementBonus     float64         `mapstructure:"agreement_bonus"`
	SurnameMissPenalty float64         `mapstructure:"surname_miss_penalty"`
}

type MatchScores struct {
	Exact                    float64 `mapstructure:"exact"`
	Nickname                 float64 `mapstructure:"nickname"`
	TransliterationExact     float64 `mapstructure:"transliteration_exact"`
	TransliterationFuzzyHigh float64 `mapstructure:"transliteration_fuzzy_high"`
	FuzzyHigh                float64 `mapstructure:"fuzzy_high"`
	FuzzyMedium              float64 `mapstructure:"fuzzy_medium"`
	FuzzyLow                 float64 `mapstructure:"fuzzy_low"`
}

type FuzzyThresholds struct {
	High   int `mapstructure:"high"`
	Medium int `mapstructure:"medium"`
	Low    int `mapstructure:"low"`
}

type Weights struct {
	LastName  float64 `mapstructure:"last_name"`
	FirstName float64 `mapstructure:"first_name"`
}

// RiskTier maps a minimum final score to a tier label. Tiers are evaluated
// highest minimum first.
type RiskTier struct {
	Min   float64 `mapstructure:"min"`
	Label string  `mapstructure:"label"`
}

// Load reads configuration from config.yaml and PHONEINFO_* environment
// variables. A missing config file is fine; defaults and environment cover
// everything.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PHONEINFO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if len(cfg.Scoring.RiskTiers) == 0 {
		cfg.Scoring.RiskTiers = defaultRiskTiers()
	}
	sort.Slice(cfg.Scoring.RiskTiers, func(i, j int) bool {
		return cfg.Scoring.RiskTiers[i].Min > cfg.Scoring.RiskTiers[j].Min
	})

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.path", "phoneinfo.db")
	v.SetDefault("cache.refresh_days", 30)

	v.SetDefault("me.api_url", "")
	v.SetDefault("me.sid", "")
	v.SetDefault("me.token", "")
	v.SetDefault("sync.api_url", "")
	v.SetDefault("sync.token", "")

	v.SetDefault("data.nicknames_path", "data/nicknames.json")
	v.SetDefault("data.names_path", "data/names.json")

	v.SetDefault("scoring.match_scores.exact", 100.0)
	v.SetDefault("scoring.match_scores.nickname", 90.0)
	v.SetDefault("scoring.match_scores.transliteration_exact", 95.0)
	v.SetDefault("scoring.match_scores.transliteration_fuzzy_high", 80.0)
	v.SetDefault("scoring.match_scores.fuzzy_high", 75.0)
	v.SetDefault("scoring.match_scores.fuzzy_medium", 50.0)
	v.SetDefault("scoring.match_scores.fuzzy_low", 25.0)

	v.SetDefault("scoring.fuzzy_thresholds.high", 85)
	v.SetDefault("scoring.fuzzy_thresholds.medium", 65)
	v.SetDefault("scoring.fuzzy_thresholds.low", 45)

	v.SetDefault("scoring.weights.last_name", 0.65)
	v.SetDefault("scoring.weights.first_name", 0.35)

	v.SetDefault("scoring.exact_both_bonus", 5.0)
	v.SetDefault("scoring.agreement_bonus", 5.0)
	v.SetDefault("scoring.surname_miss_penalty", 10.0)
}

func defaultRiskTiers() []RiskTier {
	return []RiskTier{
		{Min: 85, Label: "HIGH"},
		{Min: 60, Label: "MEDIUM"},
		{Min: 35, Label: "LOW"},
		{Min: 0, Label: "VERY LOW"},
	}
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Cache.RefreshDays < 0 {
		return fmt.Errorf("cache refresh_days cannot be negative")
	}
	if c.Scoring.Weights.FirstName < 0 || c.Scoring.Weights.LastName < 0 {
		return fmt.Errorf("scoring weights cannot be negative")
	}
	sum := c.Scoring.Weights.FirstName + c.Scoring.Weights.LastName
	if sum <= 0 {
		return fmt.Errorf("scoring weights must sum to a positive value")
	}
	return nil
}
