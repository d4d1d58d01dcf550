package page

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/formfill/internal/interfaces"
)

// SnapshotFiller applies a field map against a parsed HTML snapshot. With
// no live browser attached nothing real is filled; the filler verifies the
// target elements exist so the caller can report what would have happened.
type SnapshotFiller struct {
	doc *goquery.Document
}

// NewSnapshotFiller parses the snapshot HTML for fill verification
func NewSnapshotFiller(html string) (*SnapshotFiller, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot HTML: %w", err)
	}
	return &SnapshotFiller{doc: doc}, nil
}

// SetFieldValue records the value on the snapshot element with the given id.
// An attribute selector is used instead of #id so ids containing selector
// metacharacters (dots, brackets, React's ":r1:") still resolve, matching
// getElementById lookup in a real page.
func (f *SnapshotFiller) SetFieldValue(ctx context.Context, elementID, value string) error {
	sel := f.doc.Find(fmt.Sprintf("[id=%s]", strconv.Quote(elementID))).First()
	if sel.Length() == 0 {
		return interfaces.ErrElementNotFound
	}
	sel.SetAttr("value", value)
	return nil
}
