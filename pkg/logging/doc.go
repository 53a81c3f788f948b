// Package logging builds the structured loggers used across langconv.
//
// It wraps log/slog so the CLI, the mock server and the resource clients
// share one level/format vocabulary:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel(cfg.LogLevel),
//	    Format: logging.ParseFormat(cfg.LogFormat),
//	})
//	logger.Info("mock backend listening", "addr", addr)
//
// Structured logs are for operators. The short status lines shown to users
// live in package messages.
//
// Components accept a *slog.Logger in their constructor or via an option.
// If none is provided they fall back to Nop.
package logging
