// Package ledger tracks which media URLs a run has already handled.
//
// All sets live for a single run of a single profile. Entries are never
// removed, so a URL is evaluated at most once.
package ledger

// Ledger holds the seen and downloaded image sets and the seen video set
type Ledger struct {
	images     map[string]struct{}
	downloaded map[string]struct{}
	videos     map[string]struct{}
	videoOrder []string
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		images:     make(map[string]struct{}),
		downloaded: make(map[string]struct{}),
		videos:     make(map[string]struct{}),
	}
}

// SeenImage reports whether a canonical image URL was already seen
func (l *Ledger) SeenImage(canonical string) bool {
	_, ok := l.images[canonical]
	return ok
}

// MarkImageSeen records a canonical image URL
func (l *Ledger) MarkImageSeen(canonical string) {
	l.images[canonical] = struct{}{}
}

// MarkImageDownloaded records a completed fetch; the URL is also marked seen
func (l *Ledger) MarkImageDownloaded(canonical string) {
	l.images[canonical] = struct{}{}
	l.downloaded[canonical] = struct{}{}
}

// Downloaded reports whether a canonical image URL was fetched
func (l *Ledger) Downloaded(canonical string) bool {
	_, ok := l.downloaded[canonical]
	return ok
}

// SeenVideo reports whether a video page URL was already seen
func (l *Ledger) SeenVideo(absolute string) bool {
	_, ok := l.videos[absolute]
	return ok
}

// MarkVideoSeen records a video page URL, keeping first-seen order
func (l *Ledger) MarkVideoSeen(absolute string) {
	if l.SeenVideo(absolute) {
		return
	}
	l.videos[absolute] = struct{}{}
	l.videoOrder = append(l.videoOrder, absolute)
}

// VideoURLs returns the seen video page URLs in first-seen order
func (l *Ledger) VideoURLs() []string {
	out := make([]string, len(l.videoOrder))
	copy(out, l.videoOrder)
	return out
}

func (l *Ledger) ImageCount() int      { return len(l.images) }
func (l *Ledger) DownloadedCount() int { return len(l.downloaded) }
func (l *Ledger) VideoCount() int      { return len(l.videoOrder) }
