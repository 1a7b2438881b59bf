// Package logger provides structured logging built on the standard slog package:
// a factory with environment presets and nil-safe attribute helpers.
//
// Basic usage:
//
//	log := logger.New(logger.WithProduction("clientcore"))
//	log.Info("session restored", logger.UserID(id), logger.Component("session"))
//
// Background components that should stay quiet by default can use
// logger.Discard().
package logger
