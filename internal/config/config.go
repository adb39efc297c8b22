package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scoring ScoringConfig `yaml:"scoring"`
	Lookup  LookupConfig  `yaml:"lookup"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type ScoringConfig struct {
	Content         float64 `yaml:"content"`
	Engagement      float64 `yaml:"engagement"`
	MaxFeatures     int     `yaml:"max_features"`
	NGramMax        int     `yaml:"ngram_max"`
	MinDF           int     `yaml:"min_df"`
	MaxDF           float64 `yaml:"max_df"`
	FlattenRichText bool    `yaml:"flatten_rich_text"`
	PageSize        int     `yaml:"page_size"`
	MaxPageSize     int     `yaml:"max_page_size"`
	MaxCorpus       int     `yaml:"max_corpus"`
}

type LookupConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	Author         string `yaml:"author"`
}

type ServerConfig struct {
	Addr              string `yaml:"addr"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Content:     0.8,
			Engagement:  0.2,
			MaxFeatures: 1000,
			NGramMax:    2,
			MinDF:       1,
			// 0.8 prunes every term shared by a two-document corpus, so content would always be 0
			MaxDF:       1.0,
			PageSize:    10,
			MaxPageSize: 100,
		},
		Lookup: LookupConfig{
			Concurrency: 8,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
			UserAgent:      "blogrank/1.0",
			Author:         "feed",
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			RequestsPerMinute: 300,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func Dir() string {
	if dir := os.Getenv("BLOGRANK_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".blogrank")
}

func DBPath() string {
	return filepath.Join(Dir(), "blogrank.db")
}

func configPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if level := os.Getenv("BLOGRANK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath(), data, 0644)
}
