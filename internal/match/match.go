// package match implements deterministic batch-matching of local audio files
// against an ordered remote track listing.
//
// The matcher is a pure function over immutable snapshots: given the same
// tracks, candidates, and mode it produces the same assignment every run.
// Matching is greedy first-match with no backtracking, a deliberate trade-off
// for interactively reviewed batches where the user corrects misses by hand.
package match

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/Cazrath/Heart/internal/tags"
	"golang.org/x/text/unicode/norm"
)

// Mode selects which signals the matcher compares.
type Mode string

const (
	// ModeFilename matches the normalized filename against track name or artists.
	ModeFilename Mode = "filename"

	// ModeTags matches embedded title/artist tags against track name or artists.
	ModeTags Mode = "tags"

	// ModeISRC matches lowercased ISRC codes; both sides must carry one.
	ModeISRC Mode = "isrc"

	// ModeBoth tries filename containment first, then tags.
	ModeBoth Mode = "both"
)

// String returns the mode's wire token.
func (m Mode) String() string {
	return string(m)
}

// ParseMode validates a mode token. Unrecognized tokens are rejected rather
// than silently defaulted.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFilename, ModeTags, ModeISRC, ModeBoth:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q (must be filename, tags, isrc, or both)", shared.ErrInvalidMatchMode, s)
	}
}

// Candidate is a user-supplied file plus best-effort extracted tags, enriched
// with comparison keys computed once at construction.
type Candidate struct {
	Path     string
	Filename string
	Tags     tags.Tags

	normFilename string
	normTitle    string
	normArtist   string
	isrc         string
}

// NewCandidate builds a Candidate for the file at path with the given
// extracted tags. Tag fields may be empty; the candidate remains eligible for
// filename-based matching.
func NewCandidate(path string, t tags.Tags) Candidate {
	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	return Candidate{
		Path:         path,
		Filename:     filename,
		Tags:         t,
		normFilename: Normalize(stem),
		normTitle:    Normalize(t.Title),
		normArtist:   Normalize(t.Artist),
		isrc:         strings.ToLower(t.ISRC),
	}
}

// Entry pairs a track with the candidate chosen for it.
type Entry struct {
	Track     models.Track
	Candidate Candidate
}

// Assignment is the result of one match run: chosen pairs in track order,
// tracks that found no candidate, and the residual unconsumed candidates in
// supply order. A candidate appears in at most one entry.
type Assignment struct {
	Entries         []Entry
	UnmatchedTracks []models.Track
	Residual        []Candidate
}

// Lookup returns the candidate assigned to the given track ID.
func (a *Assignment) Lookup(trackID string) (Candidate, bool) {
	for _, e := range a.Entries {
		if e.Track.ID == trackID {
			return e.Candidate, true
		}
	}
	return Candidate{}, false
}

// Normalize strips a string down to lowercase ASCII letters and digits after
// NFKD decomposition, making comparisons diacritic- and punctuation-insensitive.
// ISRC codes are compared as lowercased raw strings, never normalized.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// Match reconciles an unordered pool of candidates against an ordered track
// listing. Inputs are not mutated. For each track, in caller order, the first
// candidate in supply order satisfying the mode's predicate is consumed;
// consumed candidates are never offered to later tracks.
func Match(tracks []models.Track, candidates []Candidate, mode Mode) (*Assignment, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	consumed := make([]bool, len(candidates))
	result := &Assignment{}

	for _, track := range tracks {
		name := Normalize(track.Name)
		artist := Normalize(track.Artists)
		isrc := strings.ToLower(track.ISRC)

		found := -1

		if mode == ModeFilename || mode == ModeBoth {
			found = pick(candidates, consumed, func(c Candidate) bool {
				return strings.Contains(c.normFilename, name) || strings.Contains(c.normFilename, artist)
			})
		}

		if found < 0 && (mode == ModeTags || mode == ModeBoth) {
			found = pick(candidates, consumed, func(c Candidate) bool {
				return strings.Contains(c.normTitle, name) || strings.Contains(c.normArtist, artist)
			})
		}

		if found < 0 && mode == ModeISRC && isrc != "" {
			found = pick(candidates, consumed, func(c Candidate) bool {
				return c.isrc != "" && strings.Contains(c.isrc, isrc)
			})
		}

		if found < 0 {
			result.UnmatchedTracks = append(result.UnmatchedTracks, track)
			continue
		}

		consumed[found] = true
		result.Entries = append(result.Entries, Entry{Track: track, Candidate: candidates[found]})
	}

	for i, c := range candidates {
		if !consumed[i] {
			result.Residual = append(result.Residual, c)
		}
	}

	return result, nil
}

// pick returns the index of the first unconsumed candidate satisfying the
// predicate, or -1.
func pick(candidates []Candidate, consumed []bool, pred func(Candidate) bool) int {
	for i, c := range candidates {
		if consumed[i] {
			continue
		}
		if pred(c) {
			return i
		}
	}
	return -1
}
