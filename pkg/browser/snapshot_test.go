package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firstFrame = `<html><body>
<img src="https://pbs.twimg.com/media/A?format=png&name=small">
<img src="https://abs.twimg.com/emoji/1.png">
<a href="/nasa/status/1/video/1">video</a>
</body></html>`

const secondFrame = `<html><body>
<img src="https://pbs.twimg.com/media/B">
</body></html>`

func srcs(t *testing.T, els []Element) []string {
	t.Helper()
	var out []string
	for _, el := range els {
		v, ok := el.Attribute("src")
		require.True(t, ok)
		out = append(out, v)
	}
	return out
}

func TestSnapshotPageQueryAll(t *testing.T) {
	ctx := context.Background()
	page, err := NewSnapshotPageFromHTML(firstFrame, secondFrame)
	require.NoError(t, err)

	imgs, err := page.QueryAll(ctx, `img[src*="pbs.twimg.com/media/"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://pbs.twimg.com/media/A?format=png&name=small"}, srcs(t, imgs))

	links, err := page.QueryAll(ctx, `a[href*="/video/"]`)
	require.NoError(t, err)
	require.Len(t, links, 1)
	href, ok := links[0].Attribute("href")
	assert.True(t, ok)
	assert.Equal(t, "/nasa/status/1/video/1", href)

	_, ok = links[0].Attribute("data-missing")
	assert.False(t, ok)
}

func TestSnapshotPageScrollAdvancesAndClamps(t *testing.T) {
	ctx := context.Background()
	page, err := NewSnapshotPageFromHTML(firstFrame, secondFrame)
	require.NoError(t, err)

	require.NoError(t, page.Evaluate(ctx, "window.scrollBy(0, 800)"))
	require.NoError(t, page.Evaluate(ctx, "window.scrollBy(0, 800)"))

	imgs, err := page.QueryAll(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://pbs.twimg.com/media/B"}, srcs(t, imgs))
	assert.Len(t, page.Scripts(), 2)

	require.NoError(t, page.Navigate(ctx, "https://x.com/nasa/media"))
	imgs, err = page.QueryAll(ctx, "img")
	require.NoError(t, err)
	assert.Len(t, imgs, 2)
}

func TestSnapshotPageOneDocumentPerScrollBatch(t *testing.T) {
	ctx := context.Background()
	thirdFrame := `<html><body><img src="https://pbs.twimg.com/media/C"></body></html>`
	page, err := NewSnapshotPageFromHTML(firstFrame, secondFrame, thirdFrame)
	require.NoError(t, err)

	scrollBatch := func() {
		for i := 0; i < 3; i++ {
			require.NoError(t, page.Evaluate(ctx, "window.scrollBy(0, 800)"))
		}
	}

	var seen [][]string
	for i := 0; i < 3; i++ {
		imgs, err := page.QueryAll(ctx, `img[src*="pbs.twimg.com/media/"]`)
		require.NoError(t, err)
		// A second query in the same iteration stays on the same document
		again, err := page.QueryAll(ctx, `img[src*="pbs.twimg.com/media/"]`)
		require.NoError(t, err)
		assert.Equal(t, srcs(t, imgs), srcs(t, again))

		seen = append(seen, srcs(t, imgs))
		scrollBatch()
	}

	assert.Equal(t, [][]string{
		{"https://pbs.twimg.com/media/A?format=png&name=small"},
		{"https://pbs.twimg.com/media/B"},
		{"https://pbs.twimg.com/media/C"},
	}, seen)
}

func TestSnapshotPageLocation(t *testing.T) {
	ctx := context.Background()
	page, err := NewSnapshotPageFromHTML(firstFrame)
	require.NoError(t, err)

	loc, err := page.Location(ctx)
	require.NoError(t, err)
	assert.Equal(t, "about:blank", loc)

	require.NoError(t, page.Navigate(ctx, "https://x.com/nasa/media"))
	page.SetLocation("https://x.com/home")
	loc, err = page.Location(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/home", loc)
	assert.Equal(t, []string{"https://x.com/nasa/media"}, page.Navigations())
}

func TestSnapshotPageCancelledContext(t *testing.T) {
	page, err := NewSnapshotPageFromHTML(firstFrame)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = page.QueryAll(ctx, "img")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, page.Navigate(ctx, "https://x.com"), context.Canceled)
}

func TestLoadSnapshotFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "1.html")
	p2 := filepath.Join(dir, "2.html")
	require.NoError(t, os.WriteFile(p1, []byte(firstFrame), 0644))
	require.NoError(t, os.WriteFile(p2, []byte(secondFrame), 0644))

	page, err := LoadSnapshotFiles([]string{p1, p2})
	require.NoError(t, err)
	assert.Len(t, page.frames, 2)

	_, err = LoadSnapshotFiles([]string{filepath.Join(dir, "missing.html")})
	assert.Error(t, err)

	_, err = NewSnapshotPage()
	assert.Error(t, err)
}
