package main

import (
	"fmt"
	"os"
	"time"

	"github.com/puckpool/livesync/go/internal/scoring"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Sync struct {
		TickIntervalSec int `yaml:"tick_interval_sec"`
		LockTTLSec      int `yaml:"lock_ttl_sec"`
		FetchBudgetSec  int `yaml:"fetch_budget_sec"`
		Workers         int `yaml:"workers"`
	} `yaml:"sync"`
	Scoring   scoring.Weights `yaml:"scoring"`
	StatsFeed struct {
		BaseURL     string `yaml:"base_url"`
		TimeoutSec  int    `yaml:"timeout_sec"`
		MaxAttempts int    `yaml:"max_attempts"`
		BackoffSec  int    `yaml:"backoff_sec"`
	} `yaml:"stats_feed"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Sync.TickIntervalSec <= 0 {
		c.Sync.TickIntervalSec = 30
	}
	if c.Sync.LockTTLSec <= 0 {
		c.Sync.LockTTLSec = 90
	}
	if c.Sync.FetchBudgetSec <= 0 {
		c.Sync.FetchBudgetSec = 25
	}
	if c.Sync.Workers <= 0 {
		c.Sync.Workers = 4
	}
	if c.Scoring == (scoring.Weights{}) {
		c.Scoring = scoring.DefaultWeights()
	}
	if c.StatsFeed.TimeoutSec <= 0 {
		c.StatsFeed.TimeoutSec = 15
	}
	if c.StatsFeed.MaxAttempts <= 0 {
		c.StatsFeed.MaxAttempts = 3
	}
	if c.StatsFeed.BackoffSec <= 0 {
		c.StatsFeed.BackoffSec = 2
	}
}

func (c *Config) tickInterval() time.Duration { return time.Duration(c.Sync.TickIntervalSec) * time.Second }
func (c *Config) lockTTL() time.Duration      { return time.Duration(c.Sync.LockTTLSec) * time.Second }
func (c *Config) fetchBudget() time.Duration  { return time.Duration(c.Sync.FetchBudgetSec) * time.Second }
func (c *Config) feedTimeout() time.Duration  { return time.Duration(c.StatsFeed.TimeoutSec) * time.Second }
func (c *Config) feedBackoff() time.Duration  { return time.Duration(c.StatsFeed.BackoffSec) * time.Second }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
