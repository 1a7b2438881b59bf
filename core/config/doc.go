// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	type NotifyConfig struct {
//		PollInterval time.Duration `env:"NOTIFY_POLL_INTERVAL" envDefault:"60s"`
//	}
//
//	var cfg NotifyConfig
//	config.MustLoad(&cfg)
package config
