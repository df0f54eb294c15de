// Package fetcher downloads single images over HTTP into a folder.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	errs "xmedia/pkg/errors"
	"xmedia/pkg/logger"
	"xmedia/pkg/media"
	"xmedia/pkg/storage"
)

// Fetcher performs one streaming GET per image
type Fetcher struct {
	httpClient *http.Client
	headers    map[string]string
	extension  string
	logger     logger.Logger

	mu     sync.Mutex
	stores map[string]*storage.Manager
}

// New creates a fetcher. extension is appended to the image id to form the
// file name (".jpg").
func New(timeout time.Duration, userAgent, extension string, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}

	headers := map[string]string{
		"Accept":          "image/avif,image/webp,image/apng,image/*,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
	if userAgent != "" {
		headers["User-Agent"] = userAgent
	}

	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		headers:    headers,
		extension:  extension,
		logger:     log,
		stores:     make(map[string]*storage.Manager),
	}
}

func (f *Fetcher) store(dir string) (*storage.Manager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.stores[dir]; ok {
		return m, nil
	}
	m, err := storage.NewManager(dir, f.extension)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeFilesystem, "failed to prepare destination folder", err)
	}
	f.stores[dir] = m
	return m, nil
}

// Download fetches url into dir and returns the written path.
// Nothing is written unless the server answers 2xx.
func (f *Fetcher) Download(ctx context.Context, url, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeNetwork, "failed to build request", err)
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	f.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if !errs.IsSuccessStatus(resp.StatusCode) {
		return "", errs.HTTPStatus(resp.StatusCode, url)
	}

	store, err := f.store(dir)
	if err != nil {
		return "", err
	}

	path, err := store.Save(resp.Body, media.ImageID(url))
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeFilesystem, fmt.Sprintf("failed to save %s", url), err)
	}

	return path, nil
}

// Fetch is Download with failures logged and reported as false
func (f *Fetcher) Fetch(ctx context.Context, url, dir string) bool {
	path, err := f.Download(ctx, url, dir)
	if err != nil {
		f.logger.WithError(err).WithField("url", url).Warn("Image download failed")
		return false
	}

	f.logger.WithFields(map[string]interface{}{
		"url":  url,
		"path": path,
	}).Debug("Image saved")
	return true
}
