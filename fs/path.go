package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// OutputPath resolves where the cleaned archive for input is written.
//
// An empty out places the file next to input with suffix inserted before
// the extension: export.zip → export_CLEANED.zip. An out naming an existing
// directory places that file name inside it. Any other out is used as is.
func OutputPath(input, out, suffix string) string {
	name := withSuffix(filepath.Base(input), suffix)
	if out == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}

// LogPath returns the path of the discard log kept alongside an output file.
func LogPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".log"
}

func withSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + suffix + ext
}
