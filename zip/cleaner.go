// Package zip reads export archives and writes their cleaned copies.
package zip

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/datescrub"
	"github.com/fwojciec/datescrub/fs"
	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"
)

// Ensure Cleaner implements datescrub.Cleaner at compile time.
var _ datescrub.Cleaner = (*Cleaner)(nil)

// Cleaner copies an export archive, scrubbing every markup member and
// carrying over only the media the surviving markup still references.
type Cleaner struct {
	scrubber   datescrub.Scrubber
	media      datescrub.MediaScanner
	digester   datescrub.Digester
	extensions map[string]struct{}
}

// NewCleaner creates a Cleaner. Members whose extension is in extensions
// are treated as markup.
func NewCleaner(scrubber datescrub.Scrubber, media datescrub.MediaScanner, digester datescrub.Digester, extensions []string) *Cleaner {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return &Cleaner{
		scrubber:   scrubber,
		media:      media,
		digester:   digester,
		extensions: set,
	}
}

// Clean writes the cleaned copy of the archive at inPath to outPath.
// The input digest is computed while the archive is being cleaned.
func (c *Cleaner) Clean(ctx context.Context, inPath, outPath string, w datescrub.Window, progress datescrub.CleanProgressFunc) (_ *datescrub.CleanResult, err error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(datescrub.CleanProgress) {}
	}

	r, err := zip.OpenReader(inPath)
	if err != nil {
		return nil, datescrub.Errorf(datescrub.EINVALID, "%s is not a valid zip archive: %v", inPath, err)
	}
	defer r.Close()

	out, err := fs.CreateAtomic(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = out.Abort()
		}
	}()

	result := &datescrub.CleanResult{
		InputPath:  inPath,
		OutputPath: outPath,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		digest, err := c.digester.DigestFile(inPath)
		if err != nil {
			return fmt.Errorf("failed to digest input: %w", err)
		}
		result.InputDigest = digest
		return nil
	})
	g.Go(func() error {
		return c.cleanArchive(gctx, &r.Reader, out, w, progress, result)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := out.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit output: %w", err)
	}

	result.OutputDigest, err = c.digester.DigestFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to digest output: %w", err)
	}
	return result, nil
}

// cleanArchive streams the cleaned archive into dst. Members are handled
// one at a time in archive order.
func (c *Cleaner) cleanArchive(ctx context.Context, r *zip.Reader, dst io.Writer, w datescrub.Window, progress datescrub.CleanProgressFunc, result *datescrub.CleanResult) error {
	a := &archive{
		members: indexMembers(r.File),
		zw:      zip.NewWriter(dst),
		copied:  make(map[string]struct{}),
	}

	done := make(map[string]struct{})
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !c.isMarkup(f.Name) {
			continue
		}
		if _, ok := done[f.Name]; ok {
			continue
		}
		done[f.Name] = struct{}{}

		doc, err := c.cleanDocument(a, f, w, progress, result)
		if err != nil {
			return err
		}
		result.Documents = append(result.Documents, *doc)
		progress(datescrub.CleanProgress{Kind: datescrub.ProgressDocument, Name: f.Name, Result: doc})
	}

	if err := a.zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func (c *Cleaner) cleanDocument(a *archive, f *zip.File, w datescrub.Window, progress datescrub.CleanProgressFunc, result *datescrub.CleanResult) (*datescrub.DocumentResult, error) {
	data, err := readMember(f)
	if err != nil {
		return nil, err
	}
	doc := &datescrub.DocumentResult{
		Name:      f.Name,
		InputHash: fingerprint(data),
	}

	// Blank members have nothing to scrub and are written back untouched.
	html := string(data)
	if strings.TrimSpace(html) != "" {
		scrubbed, err := c.scrubber.Scrub(html, w)
		if err != nil {
			return nil, fmt.Errorf("failed to scrub %s: %w", f.Name, err)
		}
		html = scrubbed.HTML
		doc.Entries = scrubbed.Entries
		doc.Discarded = len(scrubbed.Discards)

		srcs, err := c.media.ScanMedia(html)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media in %s: %w", f.Name, err)
		}
		for _, src := range srcs {
			name, copied, err := a.copyAsset(src)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			if !copied {
				continue
			}
			result.Assets = append(result.Assets, name)
			progress(datescrub.CleanProgress{Kind: datescrub.ProgressAsset, Name: name})
		}
	}

	out, err := a.zw.CreateHeader(header(f))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", f.Name, err)
	}
	if _, err := io.WriteString(out, html); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	doc.OutputHash = fingerprint([]byte(html))
	return doc, nil
}

func (c *Cleaner) isMarkup(name string) bool {
	if strings.HasSuffix(name, "/") {
		return false
	}
	_, ok := c.extensions[strings.ToLower(path.Ext(name))]
	return ok
}

// archive is the state shared by all documents of one cleaning pass.
type archive struct {
	members map[string]*zip.File
	zw      *zip.Writer
	copied  map[string]struct{}
}

// copyAsset copies the member referenced by src into the output unless it
// was copied before. It returns the member name and whether it was copied
// by this call. Returns ENOTFOUND if no member matches src.
func (a *archive) copyAsset(src string) (string, bool, error) {
	f, ok := a.lookup(src)
	if !ok {
		return "", false, datescrub.Errorf(datescrub.ENOTFOUND, "referenced asset %q not found in archive", src)
	}
	if _, ok := a.copied[f.Name]; ok {
		return f.Name, false, nil
	}

	rc, err := f.Open()
	if err != nil {
		return "", false, fmt.Errorf("failed to open asset %s: %w", f.Name, err)
	}
	defer rc.Close()

	w, err := a.zw.CreateHeader(header(f))
	if err != nil {
		return "", false, fmt.Errorf("failed to create asset %s: %w", f.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return "", false, fmt.Errorf("failed to copy asset %s: %w", f.Name, err)
	}
	a.copied[f.Name] = struct{}{}
	return f.Name, true, nil
}

// lookup resolves src to a member by its raw value first, then by its
// percent-decoded form.
func (a *archive) lookup(src string) (*zip.File, bool) {
	if f, ok := a.members[src]; ok {
		return f, true
	}
	decoded, err := url.PathUnescape(src)
	if err != nil || decoded == src {
		return nil, false
	}
	f, ok := a.members[decoded]
	return f, ok
}

// indexMembers maps member names to members. The first of several members
// sharing a name wins.
func indexMembers(files []*zip.File) map[string]*zip.File {
	m := make(map[string]*zip.File, len(files))
	for _, f := range files {
		if _, ok := m[f.Name]; !ok {
			m[f.Name] = f
		}
	}
	return m
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return data, nil
}

// header returns a fresh header for writing a copy of f.
func header(f *zip.File) *zip.FileHeader {
	return &zip.FileHeader{
		Name:     f.Name,
		Comment:  f.Comment,
		Method:   f.Method,
		Modified: f.Modified,
	}
}

func fingerprint(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
