// Package config loads the YAML settings shared by the steg CLI and its HTTP server.
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/zedseven/steg/v2"
)

const (
	defaultListen      = "localhost:8080"
	defaultMaxUploadMB = 32
)

type Config struct {
	Engine       string  `yaml:"engine"`
	AudioOffset  int     `yaml:"audioOffset"`
	DCTDelta     float64 `yaml:"dctDelta"`
	DCTBitBudget int     `yaml:"dctBitBudget"`
	Workers      int     `yaml:"workers"`
	Verbosity    string  `yaml:"verbosity"`
	Listen       string  `yaml:"listen"`
	MaxUploadMB  int64   `yaml:"maxUploadMB"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var config Config
	config.fillDefaults()
	return config
}

// Load reads the YAML file at path. Unset fields keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var config Config
	if err = yaml.UnmarshalStrict(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	config.fillDefaults()
	return config, nil
}

func (c *Config) fillDefaults() {
	if c.Engine == "" {
		c.Engine = "lsb"
	}
	if c.Verbosity == "" {
		c.Verbosity = "steps"
	}
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = defaultMaxUploadMB
	}
}

// Options converts the configuration into library options, validating the names it holds.
func (c Config) Options() (*steg.Options, error) {
	engine, err := steg.ParseEngine(c.Engine)
	if err != nil {
		return nil, err
	}
	level, err := steg.StringToOutputLevel(c.Verbosity)
	if err != nil {
		return nil, err
	}
	return &steg.Options{
		Engine:       engine,
		AudioOffset:  c.AudioOffset,
		DCTDelta:     c.DCTDelta,
		DCTBitBudget: c.DCTBitBudget,
		Workers:      c.Workers,
		OutputLevel:  level,
	}, nil
}

// Logger returns a logger at the configured verbosity.
func (c Config) Logger() (*logrus.Logger, error) {
	level, err := steg.StringToOutputLevel(c.Verbosity)
	if err != nil {
		return nil, err
	}
	return steg.NewLogger(level), nil
}

// MaxUploadBytes is the request body limit of the HTTP server.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
