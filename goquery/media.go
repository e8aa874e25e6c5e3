package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/datescrub"
)

// Ensure MediaScanner implements datescrub.MediaScanner at compile time.
var _ datescrub.MediaScanner = (*MediaScanner)(nil)

// MediaScanner collects the local media assets referenced by a document.
type MediaScanner struct {
	selector string
	ignored  map[string]struct{}
}

// NewMediaScanner creates a MediaScanner reading the src attribute of the
// given element names and skipping the ignored placeholder paths.
func NewMediaScanner(tags []string, ignored []string) *MediaScanner {
	set := make(map[string]struct{}, len(ignored))
	for _, p := range ignored {
		set[p] = struct{}{}
	}
	return &MediaScanner{
		selector: strings.Join(tags, ", "),
		ignored:  set,
	}
}

// ScanMedia returns the unique asset paths referenced by media elements in
// document order. Inline data URIs, remote http(s) URLs, ignored
// placeholder paths and empty or missing sources are skipped.
func (s *MediaScanner) ScanMedia(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, datescrub.Errorf(datescrub.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var srcs []string
	doc.Find(s.selector).Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if s.skip(src) {
			return
		}
		if _, ok := seen[src]; ok {
			return
		}
		seen[src] = struct{}{}
		srcs = append(srcs, src)
	})
	return srcs, nil
}

func (s *MediaScanner) skip(src string) bool {
	if src == "" {
		return true
	}
	if _, ok := s.ignored[src]; ok {
		return true
	}
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://")
}
