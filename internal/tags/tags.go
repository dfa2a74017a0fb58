// package tags reads embedded metadata from user-supplied audio files.
//
// Extraction is best-effort: files with no tags, or tags the parser cannot
// understand, yield an error that callers absorb into empty Tags. A file with
// no readable tags is still eligible for filename-based matching.
package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Tags holds the embedded fields relevant to attachment matching.
// Fields are empty strings when absent or unreadable.
type Tags struct {
	Title  string
	Artist string
	ISRC   string
}

// Extractor reads embedded tags from an audio file on disk.
type Extractor interface {
	// Read extracts tags from the file at path. Callers treat any error as a
	// soft failure and proceed with zero-value Tags.
	Read(path string) (Tags, error)

	// CanRead reports whether the file extension is a supported audio format.
	CanRead(path string) bool
}

// Reader implements Extractor using dhowden/tag.
type Reader struct {
	supported map[string]bool
}

// NewReader creates a Reader accepting the given extensions (without dots).
// With no extensions a default audio set is used.
func NewReader(extensions []string) *Reader {
	if len(extensions) == 0 {
		extensions = []string{"mp3", "flac", "m4a", "ogg", "wav", "aac", "opus"}
	}

	supported := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		supported[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	return &Reader{supported: supported}
}

// CanRead reports whether the file extension is in the supported set.
func (r *Reader) CanRead(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return r.supported[ext]
}

// Read extracts title, artist, and ISRC tags from the file at path.
func (r *Reader) Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read tags: %w", err)
	}

	return Tags{
		Title:  strings.TrimSpace(meta.Title()),
		Artist: strings.TrimSpace(meta.Artist()),
		ISRC:   isrcFrom(meta),
	}, nil
}

// isrcFrom digs the ISRC out of the raw frame map. ID3v2 stores it in the
// TSRC frame; other containers use an ISRC field directly.
func isrcFrom(meta tag.Metadata) string {
	raw := meta.Raw()
	for _, key := range []string{"TSRC", "ISRC", "isrc"} {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
