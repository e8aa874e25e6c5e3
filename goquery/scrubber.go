package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/datescrub"
)

// excerptLength is the number of runes of entry text kept in a DiscardedEntry.
const excerptLength = 80

// Ensure Scrubber implements datescrub.Scrubber at compile time.
var _ datescrub.Scrubber = (*Scrubber)(nil)

// Scrubber removes out-of-window entries from HTML documents.
type Scrubber struct {
	locator *Locator
	filter  *Filter
}

// NewScrubber creates a Scrubber from a locator and a filter.
func NewScrubber(locator *Locator, filter *Filter) *Scrubber {
	return &Scrubber{locator: locator, filter: filter}
}

// Scrub parses html, removes every entry the filter discards and returns
// the re-serialized document.
//
// All entries are located and evaluated before any is removed, so removal
// never disturbs the traversal.
//
// The HTML parser refuses markup with more than 512 nested open elements;
// such a document is EINVALID.
func (s *Scrubber) Scrub(html string, w datescrub.Window) (*datescrub.ScrubResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, datescrub.Errorf(datescrub.EINVALID, "empty HTML input")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, datescrub.Errorf(datescrub.EINVALID, "failed to parse HTML: %v", err)
	}

	entries := s.locator.FindEntries(doc)
	result := &datescrub.ScrubResult{Entries: len(entries)}

	var discarded []Entry
	for _, e := range entries {
		ev := s.filter.Evaluate(e, w)
		if ev.Verdict != datescrub.Discard {
			continue
		}
		discarded = append(discarded, e)
		result.Discards = append(result.Discards, datescrub.DiscardedEntry{
			Span:       ev.Span,
			Candidates: ev.Candidates,
			Excerpt:    excerpt(e.Text(), excerptLength),
		})
	}

	for _, e := range discarded {
		e.Remove()
	}

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return nil, err
	}
	result.HTML = out
	return result, nil
}

// excerpt collapses whitespace in s and shortens it to at most n runes.
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
