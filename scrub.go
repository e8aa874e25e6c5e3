package datescrub

// DiscardedEntry describes an entry removed from a document.
type DiscardedEntry struct {
	Span       Span   `json:"span"`
	Candidates int    `json:"candidates"`
	Excerpt    string `json:"excerpt"`
}

// ScrubResult holds a cleaned document and what was removed from it.
type ScrubResult struct {
	// HTML is the serialized document after all discards were applied.
	HTML string

	// Entries is the number of entries located before filtering.
	Entries int

	// Discards lists removed entries in document order.
	Discards []DiscardedEntry
}

// Kept returns the number of entries that survived filtering.
func (r *ScrubResult) Kept() int {
	return r.Entries - len(r.Discards)
}

// Scrubber removes out-of-window entries from an HTML document.
type Scrubber interface {
	// Scrub parses html, discards every entry whose time span lies outside
	// the window and returns the re-serialized document.
	// Returns EINVALID for empty input.
	Scrub(html string, window Window) (*ScrubResult, error)
}

// MediaScanner collects the media assets a document still references.
type MediaScanner interface {
	// ScanMedia returns the unique asset paths referenced by media
	// elements in html, in document order. Inline data URIs, remote
	// http(s) URLs, ignored placeholder paths and empty sources are skipped.
	ScanMedia(html string) ([]string, error)
}
