// Package config loads pipeline configuration from environment
// variables (SENTRADE_ prefix) with an optional YAML file underneath.
// Environment values win over file values, and the merged result is
// validated before use.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the two input snapshots and names the instrument
// the loader filters for.
type InputConfig struct {
	TradesFile    string `yaml:"trades_file" envconfig:"TRADES_FILE" default:"datasets/historical_data.csv" validate:"required"`
	SentimentFile string `yaml:"sentiment_file" envconfig:"SENTIMENT_FILE" default:"datasets/fear_greed_index.csv" validate:"required"`
	Instrument    string `yaml:"instrument" envconfig:"INSTRUMENT" default:"BTC" validate:"required"`
}

// AnalysisConfig tunes the aggregation engine and insight thresholds.
type AnalysisConfig struct {
	TopK            int     `yaml:"top_k" envconfig:"TOP_K" default:"1" validate:"min=1"`
	HighWinRate     float64 `yaml:"high_win_rate" envconfig:"HIGH_WIN_RATE" default:"0.55" validate:"gt=0,lt=1"`
	LowWinRate      float64 `yaml:"low_win_rate" envconfig:"LOW_WIN_RATE" default:"0.45" validate:"gt=0,lt=1"`
	DirectionBias   float64 `yaml:"direction_bias" envconfig:"DIRECTION_BIAS" default:"70" validate:"gt=50,lt=100"`
	DirectionEdge   float64 `yaml:"direction_edge" envconfig:"DIRECTION_EDGE" default:"0.1" validate:"gt=0,lt=1"`
	OvertradeFactor float64 `yaml:"overtrade_factor" envconfig:"OVERTRADE_FACTOR" default:"2" validate:"gt=1"`
}

// OutputConfig controls where run artifacts land.
type OutputConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR" default:"data/reports" validate:"required"`
	WriteMerged bool   `yaml:"write_merged" envconfig:"WRITE_MERGED" default:"true"`
}

// ServerConfig contains HTTP server configuration for the results API.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/sentrade.log"`
}

// Default returns the built-in defaults without consulting the
// environment or any config file. Tests and tools that need a known
// baseline start here and override fields directly.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			TradesFile:    "datasets/historical_data.csv",
			SentimentFile: "datasets/fear_greed_index.csv",
			Instrument:    "BTC",
		},
		Analysis: AnalysisConfig{
			TopK:            1,
			HighWinRate:     0.55,
			LowWinRate:      0.45,
			DirectionBias:   70,
			DirectionEdge:   0.1,
			OvertradeFactor: 2,
		},
		Output: OutputConfig{
			Dir:         "data/reports",
			WriteMerged: true,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/sentrade.log",
		},
	}
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFromFile(configFilePath())
}

// LoadFromFile loads configuration, merging an explicit YAML file (if it
// exists) underneath the environment.
func LoadFromFile(configFile string) (*Config, error) {
	var cfg Config

	// Environment first so env values can be told apart from defaults.
	if err := envconfig.Process("SENTRADE", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileCfg, cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags plus the
// cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Analysis.LowWinRate >= c.Analysis.HighWinRate {
		return fmt.Errorf("analysis.low_win_rate (%.2f) must be below analysis.high_win_rate (%.2f)",
			c.Analysis.LowWinRate, c.Analysis.HighWinRate)
	}
	return nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays env-provided values on top of the file config.
// A zero value in the env config means "not set", so the file value
// survives; anything else wins.
func mergeConfigs(file, env Config) Config {
	merged := file

	if env.Input.TradesFile != "" {
		merged.Input.TradesFile = env.Input.TradesFile
	}
	if env.Input.SentimentFile != "" {
		merged.Input.SentimentFile = env.Input.SentimentFile
	}
	if env.Input.Instrument != "" {
		merged.Input.Instrument = env.Input.Instrument
	}

	if env.Analysis.TopK != 0 {
		merged.Analysis.TopK = env.Analysis.TopK
	}
	if env.Analysis.HighWinRate != 0 {
		merged.Analysis.HighWinRate = env.Analysis.HighWinRate
	}
	if env.Analysis.LowWinRate != 0 {
		merged.Analysis.LowWinRate = env.Analysis.LowWinRate
	}
	if env.Analysis.DirectionBias != 0 {
		merged.Analysis.DirectionBias = env.Analysis.DirectionBias
	}
	if env.Analysis.DirectionEdge != 0 {
		merged.Analysis.DirectionEdge = env.Analysis.DirectionEdge
	}
	if env.Analysis.OvertradeFactor != 0 {
		merged.Analysis.OvertradeFactor = env.Analysis.OvertradeFactor
	}

	if env.Output.Dir != "" {
		merged.Output.Dir = env.Output.Dir
	}
	merged.Output.WriteMerged = env.Output.WriteMerged

	if env.Server.Port != 0 {
		merged.Server.Port = env.Server.Port
	}
	if env.Server.ReadTimeout != 0 {
		merged.Server.ReadTimeout = env.Server.ReadTimeout
	}
	if env.Server.WriteTimeout != 0 {
		merged.Server.WriteTimeout = env.Server.WriteTimeout
	}
	if env.Server.IdleTimeout != 0 {
		merged.Server.IdleTimeout = env.Server.IdleTimeout
	}
	if env.Server.ShutdownTimeout != 0 {
		merged.Server.ShutdownTimeout = env.Server.ShutdownTimeout
	}
	merged.Server.RateLimit.Enabled = env.Server.RateLimit.Enabled
	if env.Server.RateLimit.RPS != 0 {
		merged.Server.RateLimit.RPS = env.Server.RateLimit.RPS
	}
	if env.Server.RateLimit.Burst != 0 {
		merged.Server.RateLimit.Burst = env.Server.RateLimit.Burst
	}

	if env.Logging.Level != "" {
		merged.Logging.Level = env.Logging.Level
	}
	if env.Logging.Format != "" {
		merged.Logging.Format = env.Logging.Format
	}
	if env.Logging.Output != "" {
		merged.Logging.Output = env.Logging.Output
	}
	if env.Logging.FilePath != "" {
		merged.Logging.FilePath = env.Logging.FilePath
	}

	return merged
}

// configFilePath returns the default config file location next to the
// working directory, overridable via SENTRADE_CONFIG_FILE.
func configFilePath() string {
	if p := os.Getenv("SENTRADE_CONFIG_FILE"); p != "" {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return "sentrade.yaml"
	}
	return filepath.Join(wd, "sentrade.yaml")
}
