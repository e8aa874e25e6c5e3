package datescrub

import "context"

// DocumentResult summarizes the scrubbing of one markup member.
type DocumentResult struct {
	Name      string `json:"name"`
	Entries   int    `json:"entries"`
	Discarded int    `json:"discarded"`

	// Content fingerprints of the markup before and after scrubbing.
	InputHash  string `json:"inputHash"`
	OutputHash string `json:"outputHash"`
}

// CleanResult holds the outcome of cleaning a whole archive.
type CleanResult struct {
	InputPath    string
	OutputPath   string
	InputDigest  string
	OutputDigest string
	Documents    []DocumentResult
	Assets       []string
}

// Discarded returns the total number of entries removed across documents.
func (r *CleanResult) Discarded() int {
	n := 0
	for _, d := range r.Documents {
		n += d.Discarded
	}
	return n
}

// CleanProgressKind identifies the step a progress event reports.
type CleanProgressKind string

// Progress event kinds.
const (
	ProgressDocument CleanProgressKind = "document"
	ProgressAsset    CleanProgressKind = "asset"
)

// CleanProgress reports progress while an archive is cleaned.
type CleanProgress struct {
	Kind CleanProgressKind
	Name string

	// Result is set for document events once the document is written.
	Result *DocumentResult
}

// CleanProgressFunc is called as archive members are processed.
type CleanProgressFunc func(CleanProgress)

// Cleaner produces a cleaned copy of an export archive.
type Cleaner interface {
	// Clean reads the archive at inPath and writes the cleaned archive to
	// outPath. The output appears only if cleaning succeeds.
	// Returns EINVALID if inPath is not an archive and ENOTFOUND if a
	// surviving document references a missing asset.
	Clean(ctx context.Context, inPath, outPath string, window Window, progress CleanProgressFunc) (*CleanResult, error)
}

// Digester computes whole-file content digests for audit logging.
type Digester interface {
	DigestFile(path string) (string, error)
}
