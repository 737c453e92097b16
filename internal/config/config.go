// Package config loads CLI configuration with viper and bootstraps the zap logger.
package config

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CatalogConfig selects where the product catalog is loaded from.
type CatalogConfig struct {
	Source      string `yaml:"source" mapstructure:"source"` // csv, xlsx, sqlite, postgres
	Path        string `yaml:"path" mapstructure:"path"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	Table       string `yaml:"table" mapstructure:"table"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Watch       bool   `yaml:"watch" mapstructure:"watch"`
	Delimiter   string `yaml:"delimiter" mapstructure:"delimiter"` // csv only
	// LoadAttempts bounds retries of transient read failures.
	LoadAttempts int `yaml:"load_attempts" mapstructure:"load_attempts"`
}

// WeightsConfig holds the default 0-100 scoring weights.
type WeightsConfig struct {
	Fit   int `yaml:"fit" mapstructure:"fit"`
	Ratio int `yaml:"ratio" mapstructure:"ratio"`
	Cash  int `yaml:"cash" mapstructure:"cash"`
	IRR   int `yaml:"irr" mapstructure:"irr"`
}

// ScoringConfig tunes the recommendation pipeline.
type ScoringConfig struct {
	Weights         WeightsConfig `yaml:"weights" mapstructure:"weights"`
	BudgetTolerance float64       `yaml:"budget_tolerance" mapstructure:"budget_tolerance"`
	IRRScaleMin     float64       `yaml:"irr_scale_min" mapstructure:"irr_scale_min"`
	IRRScaleMax     float64       `yaml:"irr_scale_max" mapstructure:"irr_scale_max"`
	FitCap          int           `yaml:"fit_cap" mapstructure:"fit_cap"`
	VocabularyPath  string        `yaml:"vocabulary_path" mapstructure:"vocabulary_path"`
	TopN            int           `yaml:"top_n" mapstructure:"top_n"`
	ReportRows      int           `yaml:"report_rows" mapstructure:"report_rows"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Catalog sources understood by the loader.
const (
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Load reads configuration from file and environment. An empty path looks
// for an optional config.yaml in the working directory; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrap(err, "config: read file")
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("POLICY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.source", SourceCSV)
	v.SetDefault("catalog.path", "products.csv")
	v.SetDefault("catalog.table", "products")
	v.SetDefault("catalog.watch", true)
	v.SetDefault("catalog.delimiter", ",")
	v.SetDefault("catalog.load_attempts", 3)
	v.SetDefault("scoring.weights.fit", 30)
	v.SetDefault("scoring.weights.ratio", 25)
	v.SetDefault("scoring.weights.cash", 25)
	v.SetDefault("scoring.weights.irr", 20)
	v.SetDefault("scoring.budget_tolerance", 1.10)
	v.SetDefault("scoring.irr_scale_min", -5.0)
	v.SetDefault("scoring.irr_scale_max", 15.0)
	v.SetDefault("scoring.fit_cap", 5)
	v.SetDefault("scoring.top_n", 3)
	v.SetDefault("scoring.report_rows", 6)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it runs.
// Mode is one of "recommend", "catalog", or "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "recommend", "catalog":
		errs = append(errs, c.validateCatalog()...)
	case "serve":
		errs = append(errs, c.validateCatalog()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
			errs = append(errs, "server.rate_burst must be > 0 when rate limiting is enabled")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateCatalog() []string {
	var errs []string
	switch c.Catalog.Source {
	case SourceCSV, SourceXLSX, SourceSQLite:
		if c.Catalog.Path == "" {
			errs = append(errs, "catalog.path is required for source "+c.Catalog.Source)
		}
		if c.Catalog.Source == SourceCSV && utf8.RuneCountInString(c.Catalog.Delimiter) > 1 {
			errs = append(errs, "catalog.delimiter must be a single character")
		}
	case SourcePostgres:
		if c.Catalog.DatabaseURL == "" {
			errs = append(errs, "catalog.database_url is required for source postgres")
		}
	default:
		errs = append(errs, "catalog.source must be one of csv, xlsx, sqlite, postgres")
	}
	if (c.Catalog.Source == SourceSQLite || c.Catalog.Source == SourcePostgres) && c.Catalog.Table == "" {
		errs = append(errs, "catalog.table is required for database sources")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
