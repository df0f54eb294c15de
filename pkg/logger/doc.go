// Package logger provides the structured logging interface used across xmedia.
//
// It wraps zerolog with a small Logger interface supporting levels, fields,
// coloured console output on stderr and an optional append-only log file.
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("username", "nasa").Info("Collect started")
//	logger.WithError(err).Error("Run failed")
//
// Tests use NewNopLogger or NewTestLogger, which captures messages for
// assertions.
package logger
