package scraper

import (
	"context"
	"time"

	"xmedia/pkg/models"
)

// ImageFetcher downloads one image into a folder and reports success
type ImageFetcher interface {
	Fetch(ctx context.Context, url, dir string) bool
}

// VideoHandoff passes the collected video page URLs to the external downloader
type VideoHandoff interface {
	Run(ctx context.Context, username string, videoURLs []string) (*models.HandoffReport, error)
}

// PauseFunc blocks for d or until ctx is done
type PauseFunc func(ctx context.Context, d time.Duration, reason string) error

// Observer receives progress events from a run
type Observer interface {
	ImageSaved(url string)
	ImageFailed(url string)
	VideoFound(url string)
	IterationDone(iteration, maxIterations int)
}
