// Package config loads the optional YAML config file and applies environment
// overrides on top of it.
package config

import (
	"os"
	"time"

	"github.com/jsphweid/pianov/constants"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr     string         `yaml:"addr"`
	MediaDir string         `yaml:"media_dir"`
	LogLevel string         `yaml:"log_level"`
	Clock    ClockConfig    `yaml:"clock"`
	Keyboard KeyboardConfig `yaml:"keyboard"`
	Metadata MetadataConfig `yaml:"metadata"`
}

type ClockConfig struct {
	Step     float64       `yaml:"step"`
	Interval time.Duration `yaml:"interval"`
}

type KeyboardConfig struct {
	Low  uint8 `yaml:"low"`
	High uint8 `yaml:"high"`
}

// MetadataConfig points at the DynamoDB table holding song titles. Lookups
// are off when Endpoint is empty.
type MetadataConfig struct {
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		MediaDir: constants.GetMediaDir(),
		LogLevel: "info",
		Clock: ClockConfig{
			Step:     constants.TickStep,
			Interval: constants.TickInterval,
		},
		Keyboard: KeyboardConfig{
			Low:  constants.KeyboardLow,
			High: constants.KeyboardHigh,
		},
		Metadata: MetadataConfig{
			Region: "localhost",
			Table:  constants.MetadataTable,
		},
	}
}

// Load reads path over the defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "could not read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "config file %s is malformed", path)
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PIANOV_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("MEDIA_PATH"); v != "" {
		cfg.MediaDir = v
	}
	if v := os.Getenv("PIANOV_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PIANOV_METADATA_ENDPOINT"); v != "" {
		cfg.Metadata.Endpoint = v
	}
}

func (c Config) Validate() error {
	if c.Clock.Step <= 0 {
		return errors.Errorf("clock step must be positive, got %v", c.Clock.Step)
	}
	if c.Clock.Interval <= 0 {
		return errors.Errorf("clock interval must be positive, got %v", c.Clock.Interval)
	}
	if c.Keyboard.High < c.Keyboard.Low || c.Keyboard.High > 127 {
		return errors.Errorf("bad keyboard range %d..%d", c.Keyboard.Low, c.Keyboard.High)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "bad log level")
	}
	return nil
}

// SetupLogging applies the configured level to the standard logrus logger.
func (c Config) SetupLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
