// Package browser abstracts the page the collector drives.
//
// ChromePage controls a tab of an already running Chrome over the DevTools
// protocol. SnapshotPage replays saved HTML documents and is used by the
// replay command and by tests.
package browser

import "context"

// Element is a handle to a DOM element returned by QueryAll
type Element interface {
	Attribute(name string) (string, bool)
}

// Page is the browser capability the collector needs
type Page interface {
	Navigate(ctx context.Context, url string) error
	// Location returns the current document URL
	Location(ctx context.Context) (string, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	Evaluate(ctx context.Context, script string) error
}
