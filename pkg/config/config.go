package config

import (
	"os"
	"path/filepath"
	"time"

	"alert-risk/pkg/alert"
	"alert-risk/pkg/model"
	"alert-risk/pkg/scoring"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "alert-risk.yaml"

type Config struct {
	Scoring  ScoringConfig  `yaml:"scoring"`
	Model    model.Config   `yaml:"model"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Generate GenerateConfig `yaml:"generate"`
}

type ScoringConfig struct {
	Weights    scoring.Weights      `yaml:"weights"`
	Thresholds scoring.Thresholds   `yaml:"thresholds"`
	Blend      scoring.BlendWeights `yaml:"blend"`
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
	NoColor bool `yaml:"no_color"`
}

type GenerateConfig struct {
	Rows           int     `yaml:"rows"`
	Seed           int64   `yaml:"seed"`
	Span           string  `yaml:"span"`
	MaliciousRatio float64 `yaml:"malicious_ratio"`
	Out            string  `yaml:"out"`
}

func (g GenerateConfig) GetSpan() time.Duration {
	if g.Span == "" {
		return 7 * 24 * time.Hour
	}
	d, err := alert.ParseSpan(g.Span)
	if err != nil || d <= 0 {
		return 7 * 24 * time.Hour
	}
	return d
}

func (g GenerateConfig) GetRows() int {
	if g.Rows <= 0 {
		return 1000
	}
	return g.Rows
}

func (g GenerateConfig) GetMaliciousRatio() float64 {
	if g.MaliciousRatio <= 0 || g.MaliciousRatio >= 1 {
		return 0.1
	}
	return g.MaliciousRatio
}

func (o OutputConfig) GetPath() string {
	if o.Path == "" {
		return "results.csv"
	}
	return o.Path
}

// Scorer builds a scorer from the scoring section.
func (c *Config) Scorer() *scoring.Scorer {
	return &scoring.Scorer{
		Weights:    c.Scoring.Weights,
		Thresholds: c.Scoring.Thresholds,
		Blend:      c.Scoring.Blend,
	}
}

var cfg *Config

// Load reads a YAML file over the defaults, so fields the file leaves out
// keep their default values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigFile
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}

	if c.Output.Path != "" && !filepath.IsAbs(c.Output.Path) {
		absPath, _ := filepath.Abs(c.Output.Path)
		c.Output.Path = absPath
	}

	cfg = c
	return c, nil
}

func Get() *Config {
	if cfg == nil {
		SetDefault()
	}
	return cfg
}

func SetDefault() {
	cfg = Default()
}

func Default() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights:    scoring.DefaultWeights(),
			Thresholds: scoring.DefaultThresholds(),
			Blend:      scoring.DefaultBlendWeights(),
		},
		Model: model.DefaultConfig(),
		Output: OutputConfig{
			Path: "results.csv",
		},
		Generate: GenerateConfig{
			Rows:           1000,
			Seed:           42,
			Span:           "7d",
			MaliciousRatio: 0.1,
			Out:            "synthetic_alerts.csv",
		},
	}
}
