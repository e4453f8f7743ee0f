//-------------------------------------------------------------------------
//
// delivery-facts
//
// Copyright (c) 2025 - 2026, ShopLens Analytics
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for delivery-facts.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for delivery-facts.
type Config struct {
	// RawDir is the directory holding the seven raw CSV tables.
	RawDir string `mapstructure:"raw_dir"`

	// ProcessedDir is the directory holding the cached fact table artifact.
	ProcessedDir string `mapstructure:"processed_dir"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Build holds configuration for the build subcommand.
	Build BuildConfig `mapstructure:"build"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`

	// Export holds configuration for the export subcommand.
	Export ExportConfig `mapstructure:"export"`
}

// BuildConfig holds configuration for fact table builds.
type BuildConfig struct {
	// Rebuild ignores an existing cache artifact and rebuilds from raw CSVs.
	Rebuild bool `mapstructure:"rebuild"`
}

// SeedConfig holds configuration for synthetic dataset generation.
type SeedConfig struct {
	// Orders is the number of synthetic orders to generate.
	Orders int `mapstructure:"orders"`

	// RandomSeed makes generation reproducible when non-zero.
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// ExportConfig holds configuration for exporting the fact table to Postgres.
type ExportConfig struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// Table is the destination table name.
	Table string `mapstructure:"table"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		RawDir:       filepath.Join("data", "raw"),
		ProcessedDir: filepath.Join("data", "processed"),
		LogLevel:     "info",
		Build: BuildConfig{
			Rebuild: false,
		},
		Seed: SeedConfig{
			Orders: 1000,
		},
		Export: ExportConfig{
			Table: "fact_orders",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./delivery-facts.yaml
// 3. ~/.config/delivery-facts/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("delivery-facts")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "delivery-facts"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.RawDir == "" {
		return fmt.Errorf("raw data directory is required")
	}
	if c.ProcessedDir == "" {
		return fmt.Errorf("processed data directory is required")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.RawDir == "" {
		return fmt.Errorf("raw data directory is required")
	}
	if c.Seed.Orders < 1 {
		return fmt.Errorf("seed orders must be at least 1")
	}
	return nil
}

// ValidateExport checks configuration required for the export command.
func (c *Config) ValidateExport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Export.Connection == "" {
		return fmt.Errorf("connection string is required for export")
	}
	if c.Export.Table == "" {
		return fmt.Errorf("destination table is required for export")
	}
	return nil
}
