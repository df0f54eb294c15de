package browser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	errs "xmedia/pkg/errors"
)

// SnapshotPage serves saved HTML documents as if they were a live page.
// Each document stands for one scroll iteration: the first query after any
// number of script evaluations moves to the next document, and after the
// last one the page stays put. Navigation returns to the first.
type SnapshotPage struct {
	mu          sync.Mutex
	frames      []*goquery.Document
	current     int
	scrolled    bool
	location    string
	navigations []string
	scripts     []string
}

// NewSnapshotPage parses one HTML document per reader
func NewSnapshotPage(frames ...io.Reader) (*SnapshotPage, error) {
	if len(frames) == 0 {
		return nil, errs.New(errs.ErrorTypeBrowser, "at least one snapshot is required")
	}

	page := &SnapshotPage{location: "about:blank"}
	for i, r := range frames {
		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			return nil, errs.Wrap(errs.ErrorTypeBrowser, fmt.Sprintf("failed to parse snapshot %d", i+1), err)
		}
		page.frames = append(page.frames, doc)
	}
	return page, nil
}

// NewSnapshotPageFromHTML is a convenience for inline documents
func NewSnapshotPageFromHTML(frames ...string) (*SnapshotPage, error) {
	readers := make([]io.Reader, 0, len(frames))
	for _, f := range frames {
		readers = append(readers, strings.NewReader(f))
	}
	return NewSnapshotPage(readers...)
}

// LoadSnapshotFiles reads saved page files in scroll order
func LoadSnapshotFiles(paths []string) (*SnapshotPage, error) {
	readers := make([]io.Reader, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, errs.Wrap(errs.ErrorTypeFilesystem, "failed to open snapshot", err)
		}
		defer f.Close()
		readers = append(readers, f)
	}
	return NewSnapshotPage(readers...)
}

func (s *SnapshotPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.location = url
	s.current = 0
	s.scrolled = false
	s.navigations = append(s.navigations, url)
	return nil
}

func (s *SnapshotPage) Location(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location, nil
}

func (s *SnapshotPage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.scrolled {
		s.scrolled = false
		if s.current < len(s.frames)-1 {
			s.current++
		}
	}
	doc := s.frames[s.current]
	s.mu.Unlock()

	var elements []Element
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, snapshotElement{sel: sel})
	})
	return elements, nil
}

func (s *SnapshotPage) Evaluate(ctx context.Context, script string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scripts = append(s.scripts, script)
	s.scrolled = true
	return nil
}

// SetLocation simulates the user or the site moving the tab elsewhere
func (s *SnapshotPage) SetLocation(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = url
}

// Navigations returns every URL passed to Navigate
func (s *SnapshotPage) Navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigations...)
}

// Scripts returns every evaluated script
func (s *SnapshotPage) Scripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scripts...)
}

type snapshotElement struct {
	sel *goquery.Selection
}

func (e snapshotElement) Attribute(name string) (string, bool) {
	return e.sel.Attr(name)
}
