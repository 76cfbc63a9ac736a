package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultIndexURL is the canonical editor-layer-index imagery document.
const DefaultIndexURL = "https://osmlab.github.io/editor-layer-index/imagery.geojson"

// Config holds the full application configuration.
type Config struct {
	Imagery ImageryConfig `yaml:"imagery" mapstructure:"imagery"`
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ImageryConfig configures the fetch/filter/write pipeline.
// Input is only read when URL is empty.
type ImageryConfig struct {
	URL       string `yaml:"url" mapstructure:"url"`
	Output    string `yaml:"output" mapstructure:"output"`
	Input     string `yaml:"input" mapstructure:"input"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	Strict    bool   `yaml:"strict" mapstructure:"strict"`
}

// SourcesConfig configures the tile-source catalog export.
type SourcesConfig struct {
	Output string `yaml:"output" mapstructure:"output"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the catalog HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// StoreConfig configures the run ledger backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment. Empty values count so IMAGERY_IMAGERY_URL="" selects the local input.
	v.SetEnvPrefix("IMAGERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("imagery.url", DefaultIndexURL)
	v.SetDefault("imagery.output", "src/assets/filtered.json")
	v.SetDefault("imagery.input", "src/assets/imagery.geojson")
	v.SetDefault("imagery.user_agent", "imagery-cli/1.0")
	v.SetDefault("imagery.strict", false)
	v.SetDefault("sources.output", "src/assets/sources.json")
	v.SetDefault("sources.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// Validate checks that the fields required by the given command mode are set.
// Valid modes: "filter", "sources", "serve", "runs".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "filter":
		if c.Imagery.URL == "" && c.Imagery.Input == "" {
			errs = append(errs, "imagery.url or imagery.input is required")
		}
		if c.Imagery.Output == "" {
			errs = append(errs, "imagery.output is required")
		}
	case "sources":
		if c.Imagery.Output == "" {
			errs = append(errs, "imagery.output is required")
		}
		if c.Sources.Output == "" {
			errs = append(errs, "sources.output is required")
		}
		if c.Sources.Format != "json" && c.Sources.Format != "yaml" {
			errs = append(errs, "sources.format must be json or yaml")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Imagery.Output == "" {
			errs = append(errs, "imagery.output is required")
		}
	case "runs":
		if c.Store.Driver == "" || c.Store.Driver == "none" {
			errs = append(errs, "store.driver must be sqlite or postgres")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
