package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// Config holds all configuration for the application
type Config struct {
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Batch       BatchConfig       `mapstructure:"batch"`
	Capture     CaptureConfig     `mapstructure:"capture"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// SimulationConfig holds the fire model constants
type SimulationConfig struct {
	GridSize          int        `mapstructure:"grid_size"`
	SpreadProbability float64    `mapstructure:"spread_probability"`
	FireLifetime      int        `mapstructure:"fire_lifetime"`
	SuppressionBox    int        `mapstructure:"suppression_box"`
	MaxSteps          int        `mapstructure:"max_steps"`
	Wind              WindConfig `mapstructure:"wind"`
	Rain              RainConfig `mapstructure:"rain"`
}

// WindConfig holds wind settings
type WindConfig struct {
	Direction string  `mapstructure:"direction"`
	Strength  float64 `mapstructure:"strength"`
}

// RainConfig holds rain settings
type RainConfig struct {
	Probability float64 `mapstructure:"probability"`
	Dampening   float64 `mapstructure:"dampening"`
}

// BatchConfig holds batch runner settings
type BatchConfig struct {
	Workers          int           `mapstructure:"workers"`
	AgentCounts      []int         `mapstructure:"agent_counts"`
	Repetitions      int           `mapstructure:"repetitions"`
	Seed             int64         `mapstructure:"seed"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
}

// CaptureConfig holds training frame capture settings
type CaptureConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Capacity int  `mapstructure:"capacity"`
}

// StorageConfig holds result store settings
type StorageConfig struct {
	// Path of the SQLite file; empty disables storage.
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	LogEvents      bool `mapstructure:"log_events"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	d := core.DefaultParams()

	// Simulation defaults
	v.SetDefault("simulation.grid_size", d.GridSize)
	v.SetDefault("simulation.spread_probability", d.SpreadProbability)
	v.SetDefault("simulation.fire_lifetime", d.FireLifetime)
	v.SetDefault("simulation.suppression_box", d.SuppressionBox)
	v.SetDefault("simulation.max_steps", d.MaxSteps)
	v.SetDefault("simulation.wind.direction", string(d.Wind.Direction))
	v.SetDefault("simulation.wind.strength", d.Wind.Strength)
	v.SetDefault("simulation.rain.probability", d.Rain.Probability)
	v.SetDefault("simulation.rain.dampening", d.Rain.Dampening)

	// Batch defaults
	v.SetDefault("batch.workers", 0)
	v.SetDefault("batch.agent_counts", []int{5, 10, 15, 20})
	v.SetDefault("batch.repetitions", 100)
	v.SetDefault("batch.seed", 1)
	v.SetDefault("batch.progress_interval", 5*time.Second)

	// Capture defaults
	v.SetDefault("capture.enabled", false)
	v.SetDefault("capture.capacity", 10000)

	v.SetDefault("storage.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.log_events", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("firesim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("FIRESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	cfg = c
	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Set allows runtime config updates, such as command-line overrides
func Set(key string, value interface{}) error {
	v.Set(key, value)
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = c
	return nil
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// Params converts the simulation section into model parameters.
func (s SimulationConfig) Params() (core.Params, error) {
	dir, err := core.ParseWindDirection(s.Wind.Direction)
	if err != nil {
		return core.Params{}, err
	}
	p := core.Params{
		GridSize:          s.GridSize,
		SpreadProbability: s.SpreadProbability,
		FireLifetime:      s.FireLifetime,
		SuppressionBox:    s.SuppressionBox,
		MaxSteps:          s.MaxSteps,
		Wind:              core.Wind{Direction: dir, Strength: s.Wind.Strength},
		Rain:              core.Rain{Probability: s.Rain.Probability, Dampening: s.Rain.Dampening},
	}
	return p, p.Validate()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if _, err := c.Simulation.Params(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be non-negative")
	}
	if c.Batch.Repetitions <= 0 {
		return fmt.Errorf("batch.repetitions must be positive")
	}
	if len(c.Batch.AgentCounts) == 0 {
		return fmt.Errorf("batch.agent_counts must not be empty")
	}
	if c.Batch.ProgressInterval < 0 {
		return fmt.Errorf("batch.progress_interval must be non-negative")
	}

	if c.Capture.Capacity <= 0 {
		return fmt.Errorf("capture.capacity must be positive")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}
