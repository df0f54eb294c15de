package ui

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"xmedia/pkg/models"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetNoColor(false)
	})
	return &buf
}

func TestProgressDisplay(t *testing.T) {
	buf := captureOutput(t)
	p := NewProgressDisplay("nasa", 4, false)

	p.ImageSaved("https://pbs.twimg.com/media/ABC?format=jpg&name=large")
	p.ImageFailed("https://pbs.twimg.com/media/DEF?format=jpg&name=large")
	p.VideoFound("https://x.com/nasa/status/1/video/1")
	p.IterationDone(2, 4)

	out := buf.String()
	assert.Contains(t, out, "scroll 2/4 • 1 images • 1 videos")
	assert.Contains(t, out, "ABC")
	assert.Contains(t, out, "1 failed")
}

func TestProgressDisplayComplete(t *testing.T) {
	buf := captureOutput(t)
	p := NewProgressDisplay("nasa", 1, false)

	p.Complete(&models.Result{
		Username:         "nasa",
		ImagesDownloaded: 3,
		MediaDir:         "nasa_media",
		VideoURLs:        []string{"https://x.com/nasa/status/1/video/1"},
		Handoff: &models.HandoffReport{
			BatchFile:     "nasa_videos.txt",
			ManualCommand: "./dlp -a nasa_videos.txt",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "3 images downloaded to nasa_media")
	assert.Contains(t, out, "1 video links collected")
	assert.Contains(t, out, "./dlp -a nasa_videos.txt")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", FormatDuration(42*time.Second))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h1m", FormatDuration(61*time.Minute))
}

type recordingSender struct {
	titles []string
	err    error
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	return r.err
}

func TestNotifier(t *testing.T) {
	sender := &recordingSender{err: errors.New("no notification daemon")}
	n := NewNotifierWithSender(sender)

	n.SendSuccess("xmedia", "done")
	n.SendError("xmedia", "failed")
	assert.Equal(t, []string{"xmedia", "xmedia"}, sender.titles)

	disabled := &Notifier{sender: sender, enabled: false}
	disabled.SendSuccess("xmedia", "ignored")
	assert.Len(t, sender.titles, 2)
}
