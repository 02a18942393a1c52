package config

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v2"

	"github.com/rg0now/rfm-segments/pkg/models"
	"github.com/rg0now/rfm-segments/pkg/report"
)

// Config is the application configuration.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Database DatabaseConfig `yaml:"database"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Report   ReportConfig   `yaml:"report"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type InputConfig struct {
	IDColumn  string `yaml:"id_column"`
	Delimiter string `yaml:"delimiter"`
}

type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Query string `yaml:"query"`
}

type RankingConfig struct {
	Buckets int `yaml:"buckets"`
}

type ReportConfig struct {
	TopN          int               `yaml:"top_n"`
	ClusterColumn string            `yaml:"cluster_column"`
	ClusterNames  map[string]string `yaml:"cluster_names"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Input.IDColumn == "" {
		c.Input.IDColumn = models.ColumnCustomerID
	}
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv("DATABASE_URL")
	}
	if c.Ranking.Buckets == 0 {
		c.Ranking.Buckets = models.DefaultBuckets
	}
	if c.Report.TopN == 0 {
		c.Report.TopN = 10
	}
	if c.Report.ClusterColumn == "" {
		c.Report.ClusterColumn = models.ColumnCluster
	}
	if len(c.Report.ClusterNames) == 0 {
		c.Report.ClusterNames = maps.Clone(report.DefaultClusterNames)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Ranking.Buckets < 1 || c.Ranking.Buckets > len(models.AscendingOrder) {
		return fmt.Errorf("ranking.buckets must be between 1 and %d, got %d", len(models.AscendingOrder), c.Ranking.Buckets)
	}
	if c.Report.TopN < 0 {
		return fmt.Errorf("report.top_n must not be negative, got %d", c.Report.TopN)
	}
	if _, err := c.Input.DelimiterRune(); err != nil {
		return err
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the level name: debug, info, warn or error, with an
// optional offset such as "warn+2". Empty means info.
func (c LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// DelimiterRune returns the CSV delimiter, or 0 for the default comma.
// "\t" and "tab" select a tab.
func (c InputConfig) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("input.delimiter must be a single character, got %q", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r, nil
}
