package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// LogDownload logs a single image download outcome. The failure cause is
// logged by the fetcher itself.
func LogDownload(username, imageID, url string, success bool) {
	logger := GetLogger().WithFields(map[string]interface{}{
		"username": username,
		"image_id": imageID,
		"url":      url,
		"success":  success,
	})

	if success {
		logger.Info("Download completed")
	} else {
		logger.Warn("Download failed")
	}
}

// LogScrollProgress logs the ledger totals after a scroll iteration
func LogScrollProgress(username string, iteration, maxIterations, images, downloaded, videos int) {
	GetLogger().WithFields(map[string]interface{}{
		"username":   username,
		"iteration":  iteration,
		"max":        maxIterations,
		"images":     images,
		"downloaded": downloaded,
		"videos":     videos,
	}).Info("Scroll progress")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	logger := GetLogger().WithField("component", component)

	if len(config) > 0 {
		logger = logger.WithFields(config)
	}

	logger.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// LogMetrics logs run metrics
func LogMetrics(operation string, metrics map[string]interface{}) {
	fields := map[string]interface{}{
		"operation": operation,
		"type":      "metrics",
	}

	for k, v := range metrics {
		fields[k] = v
	}

	GetLogger().InfoWithFields("Run metrics", fields)
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
