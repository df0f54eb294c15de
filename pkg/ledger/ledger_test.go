package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageSets(t *testing.T) {
	l := New()
	u := "https://pbs.twimg.com/media/A?format=jpg&name=large"

	assert.False(t, l.SeenImage(u))
	l.MarkImageSeen(u)
	assert.True(t, l.SeenImage(u))
	assert.False(t, l.Downloaded(u))

	l.MarkImageSeen(u)
	assert.Equal(t, 1, l.ImageCount())
	assert.Equal(t, 0, l.DownloadedCount())
}

func TestDownloadedImpliesSeen(t *testing.T) {
	l := New()
	u := "https://pbs.twimg.com/media/B?format=jpg&name=large"

	l.MarkImageDownloaded(u)

	assert.True(t, l.Downloaded(u))
	assert.True(t, l.SeenImage(u))
	assert.Equal(t, 1, l.ImageCount())
	assert.Equal(t, 1, l.DownloadedCount())
}

func TestVideoOrder(t *testing.T) {
	l := New()
	l.MarkVideoSeen("https://x.com/a/status/2/video/1")
	l.MarkVideoSeen("https://x.com/a/status/1/video/1")
	l.MarkVideoSeen("https://x.com/a/status/2/video/1")

	assert.Equal(t, 2, l.VideoCount())
	assert.Equal(t, []string{
		"https://x.com/a/status/2/video/1",
		"https://x.com/a/status/1/video/1",
	}, l.VideoURLs())

	urls := l.VideoURLs()
	urls[0] = "mutated"
	assert.Equal(t, "https://x.com/a/status/2/video/1", l.VideoURLs()[0])
}
