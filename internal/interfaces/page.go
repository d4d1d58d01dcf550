package interfaces

import (
	"context"
	"errors"
)

// ErrElementNotFound is returned by PageFiller implementations when the
// target element id does not exist on the page.
var ErrElementNotFound = errors.New("element not found")

// PageSnapshot is a captured page: its URL and the HTML to extract from
type PageSnapshot struct {
	URL  string
	HTML string
}

// PageSource retrieves a page for extraction, either by plain HTTP fetch or
// through a live browser tab.
type PageSource interface {
	// Fetch retrieves the page at url and returns its HTML
	Fetch(ctx context.Context, url string) (*PageSnapshot, error)
}

// PageFiller applies values to page controls. Implementations set the
// element value and fire a bubbling synthetic input event so framework
// listeners observe the change.
type PageFiller interface {
	// SetFieldValue fills the element with the given id. Returns
	// ErrElementNotFound when no element has that id.
	SetFieldValue(ctx context.Context, elementID, value string) error
}
