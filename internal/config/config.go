package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "oppcli/internal/errors"
)

// Config represents the complete application configuration. It is built once
// in main and passed explicitly into every stage; there is no module-level
// mutable state.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Currency CurrencyConfig `yaml:"currency" envconfig:"CURRENCY"`
	Buckets  BucketsConfig  `yaml:"buckets" envconfig:"BUCKETS"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	KeyZones int            `yaml:"key_zones" envconfig:"KEY_ZONES" validate:"min=1"`
}

// LoggingConfig contains logging configuration. Defaults live in Default(),
// not in struct tags, so the env overlay never clobbers a file value.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// CurrencyConfig contains the fixed conversion rule: every supported source
// currency has an explicit rate into the reporting currency. Codes missing
// from the table fail loudly per record, never silently.
type CurrencyConfig struct {
	Reporting  string             `yaml:"reporting" envconfig:"REPORTING" validate:"len=3"`
	Rates      map[string]float64 `yaml:"rates" validate:"required,dive,gt=0"`
	USDDivisor float64            `yaml:"usd_divisor" envconfig:"USD_DIVISOR" validate:"gt=0"`
	EURDivisor float64            `yaml:"eur_divisor" envconfig:"EUR_DIVISOR" validate:"gt=0"`
}

// BucketsConfig contains the amount-range thresholds in reporting currency.
// Each threshold is the inclusive lower bound of its bucket; the top bucket
// is unbounded above.
type BucketsConfig struct {
	Medio   float64 `yaml:"medio" envconfig:"MEDIO" validate:"gt=0"`
	Alto    float64 `yaml:"alto" envconfig:"ALTO" validate:"gt=0"`
	MuyAlto float64 `yaml:"muy_alto" envconfig:"MUY_ALTO" validate:"gt=0"`
}

// CleaningConfig contains the cleaner's imputation policy.
type CleaningConfig struct {
	DefaultZone string `yaml:"default_zone" envconfig:"DEFAULT_ZONE" validate:"required"`
}

// Load loads configuration from an optional YAML file and environment
// variables, then validates it. The YAML overlay is applied first, so
// environment variables take precedence over the file, and both over the
// built-in defaults.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err)
		}
	}

	if err := envconfig.Process("OPP", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if _, ok := c.Currency.Rates[c.Currency.Reporting]; !ok {
		return fmt.Errorf("rate table must include the reporting currency %s", c.Currency.Reporting)
	}
	if c.Currency.Rates[c.Currency.Reporting] != 1.0 {
		return fmt.Errorf("reporting currency %s must have rate 1.0", c.Currency.Reporting)
	}

	thresholds := []float64{c.Buckets.Medio, c.Buckets.Alto, c.Buckets.MuyAlto}
	if !sort.Float64sAreSorted(thresholds) || c.Buckets.Medio == c.Buckets.Alto || c.Buckets.Alto == c.Buckets.MuyAlto {
		return fmt.Errorf("bucket thresholds must be strictly ascending: %v", thresholds)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration. The rate table matches the rates
// the finance team fixed for the 2023-2024 export.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/oppcli.log",
		},
		Currency: CurrencyConfig{
			Reporting: "MXN",
			Rates: map[string]float64{
				"MXN": 1.0,
				"USD": 20.0,
				"EUR": 22.0,
				"GBP": 25.0,
			},
			USDDivisor: 20.0,
			EURDivisor: 22.0,
		},
		Buckets: BucketsConfig{
			Medio:   217000,
			Alto:    537000,
			MuyAlto: 34000000,
		},
		Cleaning: CleaningConfig{
			DefaultZone: "Zona 6",
		},
		KeyZones: 3,
	}
}
