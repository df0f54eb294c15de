// Package media canonicalises media URLs discovered in the timeline DOM.
package media

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"xmedia/pkg/models"
)

// LargeJPEGQuery selects the largest JPEG rendition of a media image
const LargeJPEGQuery = "format=jpg&name=large"

// Normalize rewrites an image URL to its largest JPEG variant.
// URLs that already carry a format parameter lose their whole query; all
// other URLs get the query appended unchanged.
func Normalize(raw string) string {
	if strings.Contains(raw, "format=") {
		base, _, _ := strings.Cut(raw, "?")
		return base + "?" + LargeJPEGQuery
	}
	return raw + "?" + LargeJPEGQuery
}

// NewMediaURL pairs a discovered source with its canonical form
func NewMediaURL(raw string) models.MediaURL {
	return models.MediaURL{Raw: raw, Canonical: Normalize(raw)}
}

// Resolve turns an href found on the page into an absolute URL
func Resolve(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// NewVideoPageURL resolves a video link against the site base
func NewVideoPageURL(base, href string) (models.VideoPageURL, error) {
	abs, err := Resolve(base, href)
	if err != nil {
		return models.VideoPageURL{}, err
	}
	return models.VideoPageURL{Href: href, Absolute: abs}, nil
}

// ImageID returns the last path segment of the URL with the query removed
func ImageID(rawURL string) string {
	withoutQuery, _, _ := strings.Cut(rawURL, "?")
	withoutQuery, _, _ = strings.Cut(withoutQuery, "#")
	return path.Base(strings.TrimRight(withoutQuery, "/"))
}

// IsTimelinePath reports whether a location path is the media listing of username
func IsTimelinePath(locationPath, username string) bool {
	p := strings.TrimRight(locationPath, "/")
	return strings.EqualFold(p, "/"+username+"/media")
}

// ValidUsername reports whether username is safe to use as a URL segment and
// in file names: no path separators and no "..".
func ValidUsername(username string) bool {
	return username != "" &&
		!strings.ContainsAny(username, `/\`) &&
		!strings.Contains(username, "..")
}

// TimelineURL builds the media listing URL for a profile
func TimelineURL(base, username string) string {
	return strings.TrimRight(base, "/") + "/" + username + "/media"
}
