package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xmedia/pkg/browser"
	"xmedia/pkg/config"
	errs "xmedia/pkg/errors"
	"xmedia/pkg/logger"
	"xmedia/pkg/models"
)

type mockFetcher struct {
	mu    sync.Mutex
	calls []string
	dirs  []string
	fail  map[string]bool
}

func (m *mockFetcher) Fetch(ctx context.Context, url, dir string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, url)
	m.dirs = append(m.dirs, dir)
	return !m.fail[url]
}

type mockHandoff struct {
	calls    int
	username string
	urls     []string
	err      error
}

func (m *mockHandoff) Run(ctx context.Context, username string, videoURLs []string) (*models.HandoffReport, error) {
	m.calls++
	m.username = username
	m.urls = videoURLs
	return &models.HandoffReport{URLCount: len(videoURLs)}, m.err
}

type pauseRecorder struct {
	reasons []string
}

func (p *pauseRecorder) pause(ctx context.Context, d time.Duration, reason string) error {
	p.reasons = append(p.reasons, reason)
	return ctx.Err()
}

func (p *pauseRecorder) count(reason string) int {
	n := 0
	for _, r := range p.reasons {
		if r == reason {
			n++
		}
	}
	return n
}

func testConfig(t *testing.T, maxIterations int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scroll.MaxIterations = maxIterations
	cfg.Output.BaseDirectory = t.TempDir()
	return cfg
}

func page(images []string, videoHrefs []string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, src := range images {
		fmt.Fprintf(&b, `<img src="%s">`, src)
	}
	for _, href := range videoHrefs {
		fmt.Fprintf(&b, `<a href="%s">v</a>`, href)
	}
	b.WriteString("</body></html>")
	return b.String()
}

type harness struct {
	scraper *Scraper
	page    *browser.SnapshotPage
	fetcher *mockFetcher
	handoff *mockHandoff
	pauses  *pauseRecorder
}

func newHarness(t *testing.T, cfg *config.Config, frames ...string) *harness {
	t.Helper()

	p, err := browser.NewSnapshotPageFromHTML(frames...)
	require.NoError(t, err)

	h := &harness{
		page:    p,
		fetcher: &mockFetcher{fail: map[string]bool{}},
		handoff: &mockHandoff{},
		pauses:  &pauseRecorder{},
	}
	h.scraper = New(cfg, p, h.fetcher, h.handoff, logger.NewNopLogger())
	h.scraper.SetPauseFunc(h.pauses.pause)
	return h
}

func TestCollectThreeImagesOneIteration(t *testing.T) {
	cfg := testConfig(t, 1)
	h := newHarness(t, cfg, page([]string{
		"https://pbs.twimg.com/media/A?format=png&name=small",
		"https://pbs.twimg.com/media/B",
		"https://pbs.twimg.com/media/C?format=webp",
	}, nil))

	result, err := h.scraper.Collect(context.Background(), "nasa")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://pbs.twimg.com/media/A?format=jpg&name=large",
		"https://pbs.twimg.com/media/B?format=jpg&name=large",
		"https://pbs.twimg.com/media/C?format=jpg&name=large",
	}, h.fetcher.calls)
	assert.Equal(t, 3, h.scraper.Ledger().ImageCount())
	assert.Equal(t, 3, result.ImagesFound)
	assert.Equal(t, 3, result.ImagesDownloaded)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, cfg.MediaDir("nasa"), h.fetcher.dirs[0])
	assert.Equal(t, StateDone, h.scraper.State())
}

func TestCollectDeduplicatesAcrossIterations(t *testing.T) {
	frame := page([]string{
		"https://pbs.twimg.com/media/A?format=png&name=small",
		"https://pbs.twimg.com/media/B",
	}, nil)
	shifted := page([]string{
		"https://pbs.twimg.com/media/A?format=webp&name=360x360",
		"https://pbs.twimg.com/media/B",
		"https://pbs.twimg.com/media/D",
	}, nil)

	h := newHarness(t, testConfig(t, 3), frame, shifted)

	result, err := h.scraper.Collect(context.Background(), "nasa")
	require.NoError(t, err)

	assert.Len(t, h.fetcher.calls, 3)
	assert.ElementsMatch(t, []string{
		"https://pbs.twimg.com/media/A?format=jpg&name=large",
		"https://pbs.twimg.com/media/B?format=jpg&name=large",
		"https://pbs.twimg.com/media/D?format=jpg&name=large",
	}, h.fetcher.calls)
	assert.Equal(t, 3, result.Iterations)
}

func TestCollectSkipsThumbnails(t *testing.T) {
	h := newHarness(t, testConfig(t, 1), page([]string{
		"https://pbs.twimg.com/media/video_thumb/X.jpg",
		"https://pbs.twimg.com/media/Y",
		"https://abs.twimg.com/emoji/v2/1f600.png",
	}, nil))

	_, err := h.scraper.Collect(context.Background(), "nasa")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://pbs.twimg.com/media/Y?format=jpg&name=large"}, h.fetcher.calls)
}

func TestCollectFailedFetchIsNotRetried(t *testing.T) {
	prev := logger.GetLogger()
	tl := logger.NewTestLogger()
	logger.SetLogger(tl)
	t.Cleanup(func() { logger.SetLogger(prev) })

	h := newHarness(t, testConfig(t, 2), page([]string{"https://pbs.twimg.com/media/A"}, nil))
	h.fetcher.fail["https://pbs.twimg.com/media/A?format=jpg&name=large"] = true

	result, err := h.scraper.Collect(context.Background(), "nasa")
	require.NoError(t, err)

	assert.Len(t, h.fetcher.calls, 1)
	assert.Equal(t, 1, result.ImagesFound)
	assert.Equal(t, 0, result.ImagesDownloaded)
	assert.Equal(t, 1, result.ImageFailures)

	require.True(t, tl.HasMessage("Download failed"))
	for _, msg := range tl.GetMessages() {
		if msg.Message == "Download failed" {
			assert.Equal(t, "WARN", msg.Level)
			assert.Equal(t, "A", msg.Fields["image_id"])
			assert.Equal(t, false, msg.Fields["success"])
		}
	}
}

func TestCollectIterationBound(t *testing.T) {
	cfg := testConfig(t, 4)
	h := newHarness(t, cfg, page(nil, nil))

	result, err := h.scraper.Collect(context.Background(), "nasa")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Iterations)
	scripts := h.page.Scripts()
	assert.Len(t, scripts, 4*cfg.Scroll.StepsPerIteration)
	assert.Equal(t, "window.scrollBy(0, 800)", scripts[0])
	assert.Equal(t, 1, h.pauses.count("Waiting for page load"))
	assert.Equal(t, 4*cfg.Scroll.StepsPerIteration, h.pauses.count("Loading more media"))
	assert.Equal(t, 1, h.handoff.calls)
}

func TestCollectZeroIterations(t *testing.T) {
	h := newHarness(t, testConfig(t, 0), page([]string{"https://pbs.twimg.com/media/A"}, nil))

	result, err := h.scraper.Collect(context.Background(), "nasa")
	require.NoError(t, err)

	assert.Empty(t, h.fetcher.calls)
	assert.Empty(t, h.page.Scripts())
	assert.Equal(t, 0, result.Iterations)
	assert.Equal(t, 1, h.handoff.calls)
	assert.Empty(t, h.handoff.urls)
}

func TestCollectVideosHandedOffOnce(t *testing.T) {
	h := newHarness(t, testConfig(t, 2),
		page(nil, []string{"/nasa/status/2/video/1", "/nasa/status/1/video/1"}),
		page(nil, []string{"/nasa/status/1/video/1", "https://x.com/nasa/status/3/video/1", "/nasa/status/4/photo/1"}),
	)

	result, err := h.scraper.Collect(context.Background(), "nasa")
	require.NoError(t, err)

	want := []string{
		"https://x.com/nasa/status/2/video/1",
		"https://x.com/nasa/status/1/video/1",
		"https://x.com/nasa/status/3/video/1",
	}
	assert.Equal(t, 1, h.handoff.calls)
	assert.Equal(t, "nasa", h.handoff.username)
	assert.Equal(t, want, h.handoff.urls)
	assert.Equal(t, want, result.VideoURLs)
	require.NotNil(t, result.Handoff)
	assert.Equal(t, 3, result.Handoff.URLCount)
}

func TestCollectHandoffError(t *testing.T) {
	h := newHarness(t, testConfig(t, 1), page(nil, []string{"/nasa/status/1/video/1"}))
	h.handoff.err = errors.New("disk full")

	result, err := h.scraper.Collect(context.Background(), "nasa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video handoff failed")
	assert.NotNil(t, result)
}

// driftingPage moves the tab away from the timeline after the first scroll step
type driftingPage struct {
	*browser.SnapshotPage
	drifted bool
}

func (d *driftingPage) Evaluate(ctx context.Context, script string) error {
	if err := d.SnapshotPage.Evaluate(ctx, script); err != nil {
		return err
	}
	if !d.drifted {
		d.drifted = true
		d.SetLocation("https://x.com/nasa/status/1/photo/1")
	}
	return nil
}

func TestCollectRenavigatesOnDrift(t *testing.T) {
	snap, err := browser.NewSnapshotPageFromHTML(page([]string{"https://pbs.twimg.com/media/A"}, nil))
	require.NoError(t, err)

	p := &driftingPage{SnapshotPage: snap}
	fetcher := &mockFetcher{fail: map[string]bool{}}
	pauses := &pauseRecorder{}
	s := New(testConfig(t, 2), p, fetcher, &mockHandoff{}, logger.NewNopLogger())
	s.SetPauseFunc(pauses.pause)

	_, err = s.Collect(context.Background(), "nasa")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://x.com/nasa/media", "https://x.com/nasa/media"}, snap.Navigations())
	assert.Equal(t, 1, pauses.count("Returning to timeline"))
	assert.Len(t, fetcher.calls, 1)
}

type failingPage struct {
	*browser.SnapshotPage
}

func (f *failingPage) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	return nil, errors.New("target closed")
}

func TestCollectAbortsOnBrowserError(t *testing.T) {
	snap, err := browser.NewSnapshotPageFromHTML(page(nil, nil))
	require.NoError(t, err)

	handoff := &mockHandoff{}
	s := New(testConfig(t, 3), &failingPage{snap}, &mockFetcher{}, handoff, logger.NewNopLogger())
	s.SetPauseFunc((&pauseRecorder{}).pause)

	_, err = s.Collect(context.Background(), "nasa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target closed")
	assert.Equal(t, 0, handoff.calls)
}

func TestCollectCancelled(t *testing.T) {
	h := newHarness(t, testConfig(t, 5), page(nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.scraper.Collect(ctx, "nasa")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, h.handoff.calls)
}

func TestCollectRequiresUsername(t *testing.T) {
	h := newHarness(t, testConfig(t, 1), page(nil, nil))

	_, err := h.scraper.Collect(context.Background(), "  ")
	assert.Error(t, err)
}

func TestCollectRejectsPathUsernames(t *testing.T) {
	for _, username := range []string{"../x", "a/b", `a\b`, "@.."} {
		t.Run(username, func(t *testing.T) {
			h := newHarness(t, testConfig(t, 1), page(nil, nil))

			_, err := h.scraper.Collect(context.Background(), username)

			var typed *errs.Error
			require.ErrorAs(t, err, &typed)
			assert.Equal(t, errs.ErrorTypeConfig, typed.Type)
			assert.Empty(t, h.page.Navigations())
			assert.Equal(t, 0, h.handoff.calls)
		})
	}
}

type recordingObserver struct {
	saved, failed, videos []string
	iterations            []int
}

func (r *recordingObserver) ImageSaved(url string)  { r.saved = append(r.saved, url) }
func (r *recordingObserver) ImageFailed(url string) { r.failed = append(r.failed, url) }
func (r *recordingObserver) VideoFound(url string)  { r.videos = append(r.videos, url) }
func (r *recordingObserver) IterationDone(iteration, maxIterations int) {
	r.iterations = append(r.iterations, iteration)
}

func TestCollectNotifiesObserver(t *testing.T) {
	h := newHarness(t, testConfig(t, 2), page(
		[]string{"https://pbs.twimg.com/media/A", "https://pbs.twimg.com/media/B"},
		[]string{"/nasa/status/1/video/1"},
	))
	h.fetcher.fail["https://pbs.twimg.com/media/B?format=jpg&name=large"] = true

	obs := &recordingObserver{}
	h.scraper.SetObserver(obs)

	_, err := h.scraper.Collect(context.Background(), "@nasa")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://pbs.twimg.com/media/A?format=jpg&name=large"}, obs.saved)
	assert.Equal(t, []string{"https://pbs.twimg.com/media/B?format=jpg&name=large"}, obs.failed)
	assert.Equal(t, []string{"https://x.com/nasa/status/1/video/1"}, obs.videos)
	assert.Equal(t, []int{1, 2}, obs.iterations)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "collecting", StateCollecting.String())
	assert.Equal(t, "scrolling", StateScrolling.String())
	assert.Equal(t, "done", StateDone.String())
}
