package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces every environment variable read by Load.
const envPrefix = "ADMITPULSE"

// Config is the complete application configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine" envconfig:"ENGINE"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// EngineConfig tunes the analytics engine.
type EngineConfig struct {
	// DefaultNeighbors is the similarity lookup size when the caller
	// does not specify one.
	DefaultNeighbors int `yaml:"default_neighbors" envconfig:"DEFAULT_NEIGHBORS" default:"15"`
	// DefaultPeerGroupSize bounds top-N and similar peer groups when
	// the caller does not specify a size.
	DefaultPeerGroupSize int `yaml:"default_peer_group_size" envconfig:"DEFAULT_PEER_GROUP_SIZE" default:"25"`

	// Goal-seek realism caps.
	MaxRateLiftPP         float64 `yaml:"max_rate_lift_pp" envconfig:"MAX_RATE_LIFT_PP" default:"10"`
	MaxApplicantGrowthPct float64 `yaml:"max_applicant_growth_pct" envconfig:"MAX_APPLICANT_GROWTH_PCT" default:"30"`

	// Insight rule bands and output cap.
	DeclineAlertPct float64 `yaml:"decline_alert_pct" envconfig:"DECLINE_ALERT_PCT" default:"-5"`
	GrowthAlertPct  float64 `yaml:"growth_alert_pct" envconfig:"GROWTH_ALERT_PCT" default:"10"`
	MaxInsights     int     `yaml:"max_insights" envconfig:"MAX_INSIGHTS" default:"6"`

	// MaxConcurrency bounds parallel per-institution work in batch
	// operations.
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"4"`

	// Confidence is the level for admit and yield rate intervals.
	// Supported values: 0.90, 0.95, 0.99.
	Confidence float64 `yaml:"confidence" envconfig:"CONFIDENCE" default:"0.95"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/admitpulse.log"`
}

// Load builds the configuration from environment variables, then lets
// an optional YAML file fill fields the environment left at their
// defaults. Path may be empty.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// applyFile overlays values from a YAML file. Fields absent from the
// file keep their current values.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	e := c.Engine
	if e.DefaultNeighbors <= 0 {
		return fmt.Errorf("default_neighbors must be positive, got %d", e.DefaultNeighbors)
	}
	if e.DefaultPeerGroupSize <= 0 {
		return fmt.Errorf("default_peer_group_size must be positive, got %d", e.DefaultPeerGroupSize)
	}
	if e.MaxRateLiftPP <= 0 || e.MaxRateLiftPP > 100 {
		return fmt.Errorf("max_rate_lift_pp out of range (0, 100], got %g", e.MaxRateLiftPP)
	}
	if e.MaxApplicantGrowthPct <= 0 {
		return fmt.Errorf("max_applicant_growth_pct must be positive, got %g", e.MaxApplicantGrowthPct)
	}
	if e.DeclineAlertPct >= 0 {
		return fmt.Errorf("decline_alert_pct must be negative, got %g", e.DeclineAlertPct)
	}
	if e.GrowthAlertPct <= 0 {
		return fmt.Errorf("growth_alert_pct must be positive, got %g", e.GrowthAlertPct)
	}
	if e.MaxInsights <= 0 {
		return fmt.Errorf("max_insights must be positive, got %d", e.MaxInsights)
	}
	if e.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", e.MaxConcurrency)
	}
	switch e.Confidence {
	case 0.90, 0.95, 0.99:
	default:
		return fmt.Errorf("confidence must be 0.90, 0.95, or 0.99, got %g", e.Confidence)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultNeighbors:      15,
			DefaultPeerGroupSize:  25,
			MaxRateLiftPP:         10,
			MaxApplicantGrowthPct: 30,
			DeclineAlertPct:       -5,
			GrowthAlertPct:        10,
			MaxInsights:           6,
			MaxConcurrency:        4,
			Confidence:            0.95,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/admitpulse.log",
		},
	}
}
