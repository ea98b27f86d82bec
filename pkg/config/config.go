package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Sim       SimConfig       `yaml:"sim"`
}

// SerialConfig contains serial sampler-board configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// SchedulerConfig contains scheduler timing parameters.
type SchedulerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"` // Hardware tick period
}

// SamplingConfig contains sampling pipeline parameters.
type SamplingConfig struct {
	PeriodMs  uint32 `yaml:"period_ms"`  // Milliseconds between conversions
	Window    int    `yaml:"window"`     // Rolling average depth
	FullScale uint32 `yaml:"full_scale"` // Exclusive raw count ceiling
	MaxUnit   uint8  `yaml:"max_unit"`   // Engineering-unit ceiling
	Channel   uint32 `yaml:"channel"`    // Default input channel
}

// SimConfig contains simulated source configuration.
type SimConfig struct {
	Bias       uint16        `yaml:"bias"`        // Center level (raw counts)
	Drift      uint16        `yaml:"drift"`       // Sinusoidal drift amplitude (raw counts)
	DriftCycle int           `yaml:"drift_cycle"` // Acquisitions per drift period
	Noise      uint16        `yaml:"noise"`       // Peak noise amplitude (raw counts)
	Latency    time.Duration `yaml:"latency"`     // Simulated conversion time
	Seed       int64         `yaml:"seed"`        // 0 seeds from the clock
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			Baud: 115200,
		},
		Scheduler: SchedulerConfig{
			TickInterval: time.Millisecond,
		},
		Sampling: SamplingConfig{
			PeriodMs:  20,
			Window:    5,
			FullScale: 4096,
			MaxUnit:   40,
			Channel:   0,
		},
		Sim: SimConfig{
			Bias:       2048,
			Drift:      1024,
			DriftCycle: 256,
			Noise:      8,
			Latency:    0,
			Seed:       0,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}

	if c.Scheduler.TickInterval == 0 {
		c.Scheduler.TickInterval = def.Scheduler.TickInterval
	}

	if c.Sampling.PeriodMs == 0 {
		c.Sampling.PeriodMs = def.Sampling.PeriodMs
	}
	if c.Sampling.Window == 0 {
		c.Sampling.Window = def.Sampling.Window
	}
	if c.Sampling.FullScale == 0 {
		c.Sampling.FullScale = def.Sampling.FullScale
	}
	if c.Sampling.MaxUnit == 0 {
		c.Sampling.MaxUnit = def.Sampling.MaxUnit
	}

	if c.Sim.DriftCycle == 0 {
		c.Sim.DriftCycle = def.Sim.DriftCycle
	}
}
