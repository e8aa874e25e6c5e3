// Package fs provides file system helpers for reading exports and writing
// cleaned archives.
package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/fwojciec/datescrub"
)

// Ensure Digester implements datescrub.Digester at compile time.
var _ datescrub.Digester = (*Digester)(nil)

// Digester computes SHA-256 digests of whole files.
type Digester struct{}

// NewDigester creates a new Digester.
func NewDigester() *Digester {
	return &Digester{}
}

// DigestFile returns the lowercase hex SHA-256 digest of the file at path.
func (d *Digester) DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
