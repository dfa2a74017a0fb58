package match

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/Cazrath/Heart/internal/tags"
)

func TestNormalize(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase passthrough", in: "bluemonday", want: "bluemonday"},
		{name: "case folding", in: "Blue Monday", want: "bluemonday"},
		{name: "punctuation stripped", in: "01 - blue monday!", want: "01bluemonday"},
		{name: "diacritics decomposed", in: "Café Déjà-Vu", want: "cafedejavu"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeInsensitivity(t *testing.T) {
	if Normalize("Café Déjà-Vu") != Normalize("cafe dejavu") {
		t.Errorf("expected %q and %q to normalize identically", "Café Déjà-Vu", "cafe dejavu")
	}
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"filename", "tags", "isrc", "both"} {
		if _, err := ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q) unexpected error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "fuzzy", "FILENAME", "isrc "} {
		_, err := ParseMode(invalid)
		if err == nil {
			t.Errorf("ParseMode(%q) expected error", invalid)
			continue
		}
		if !errors.Is(err, shared.ErrInvalidMatchMode) {
			t.Errorf("ParseMode(%q) error should wrap ErrInvalidMatchMode, got %v", invalid, err)
		}
	}
}

func TestMatchFilenameMode(t *testing.T) {
	// A file named after the track, no tags at all.
	tracks := []models.Track{{ID: "t1", Name: "Blue Monday", Artists: "New Order"}}
	candidates := []Candidate{NewCandidate("01 - blue monday.mp3", tags.Tags{})}

	result, err := Match(tracks, candidates, ModeFilename)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].Track.ID != "t1" {
		t.Errorf("expected track t1, got %s", result.Entries[0].Track.ID)
	}
	if result.Entries[0].Candidate.Filename != "01 - blue monday.mp3" {
		t.Errorf("unexpected candidate %s", result.Entries[0].Candidate.Filename)
	}
	if len(result.Residual) != 0 {
		t.Errorf("expected empty residual, got %d", len(result.Residual))
	}
}

func TestMatchISRCMode(t *testing.T) {
	tracks := []models.Track{{ID: "t2", Name: "X", Artists: "Y", ISRC: "GBUM71029604"}}
	candidates := []Candidate{
		NewCandidate("zzz-unrelated.mp3", tags.Tags{ISRC: "gbum71029604"}),
	}

	t.Run("ISRC Mode Assigns", func(t *testing.T) {
		result, err := Match(tracks, candidates, ModeISRC)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		got, ok := result.Lookup("t2")
		if !ok {
			t.Fatal("expected t2 to be assigned")
		}
		if got.Filename != "zzz-unrelated.mp3" {
			t.Errorf("unexpected candidate %s", got.Filename)
		}
	})

	t.Run("Filename Mode Does Not", func(t *testing.T) {
		result, err := Match(tracks, candidates, ModeFilename)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if len(result.Entries) != 0 {
			t.Errorf("expected no entries, got %d", len(result.Entries))
		}
		if len(result.UnmatchedTracks) != 1 {
			t.Errorf("expected 1 unmatched track, got %d", len(result.UnmatchedTracks))
		}
		if len(result.Residual) != 1 {
			t.Errorf("expected 1 residual candidate, got %d", len(result.Residual))
		}
	})

	t.Run("Track Without ISRC Is Skipped", func(t *testing.T) {
		noISRC := []models.Track{{ID: "t3", Name: "X", Artists: "Y"}}
		result, err := Match(noISRC, candidates, ModeISRC)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}
		if len(result.Entries) != 0 {
			t.Error("expected no assignment when track has no ISRC")
		}
	})
}

func TestMatchTagsMode(t *testing.T) {
	tracks := []models.Track{{ID: "t1", Name: "Temptation", Artists: "New Order"}}
	candidates := []Candidate{
		NewCandidate("track07.mp3", tags.Tags{Title: "Temptation (7\" mix)", Artist: "New Order"}),
	}

	result, err := Match(tracks, candidates, ModeTags)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if _, ok := result.Lookup("t1"); !ok {
		t.Error("expected tag-based assignment")
	}
}

func TestMatchBothModePrecedence(t *testing.T) {
	// Two candidates: one matching by filename, one by tags. Filename wins
	// under "both" because it is attempted first.
	tracks := []models.Track{{ID: "t1", Name: "Ceremony", Artists: "New Order"}}
	candidates := []Candidate{
		NewCandidate("tagged.mp3", tags.Tags{Title: "Ceremony"}),
		NewCandidate("ceremony-live.mp3", tags.Tags{}),
	}

	result, err := Match(tracks, candidates, ModeBoth)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	got, ok := result.Lookup("t1")
	if !ok {
		t.Fatal("expected assignment")
	}
	if got.Filename != "ceremony-live.mp3" {
		t.Errorf("expected filename match to win under both, got %s", got.Filename)
	}
}

func TestMatchExclusion(t *testing.T) {
	// Two tracks with the same name, one candidate. Only the first track (in
	// list order) receives the assignment; the candidate is consumed.
	tracks := []models.Track{
		{ID: "t1", Name: "Intro", Artists: "Artist A"},
		{ID: "t2", Name: "Intro", Artists: "Artist B"},
	}
	candidates := []Candidate{NewCandidate("intro.mp3", tags.Tags{})}

	result, err := Match(tracks, candidates, ModeFilename)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].Track.ID != "t1" {
		t.Errorf("expected first track to win, got %s", result.Entries[0].Track.ID)
	}
	if len(result.UnmatchedTracks) != 1 || result.UnmatchedTracks[0].ID != "t2" {
		t.Errorf("expected t2 unmatched, got %+v", result.UnmatchedTracks)
	}
}

func TestMatchInjectivity(t *testing.T) {
	tracks := []models.Track{
		{ID: "t1", Name: "Blue Monday", Artists: "New Order"},
		{ID: "t2", Name: "Ceremony", Artists: "New Order"},
		{ID: "t3", Name: "Age of Consent", Artists: "New Order"},
	}
	candidates := []Candidate{
		NewCandidate("new order - blue monday.mp3", tags.Tags{}),
		NewCandidate("new order - ceremony.mp3", tags.Tags{}),
	}

	result, err := Match(tracks, candidates, ModeFilename)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	seen := map[string]string{}
	for _, e := range result.Entries {
		if prev, dup := seen[e.Candidate.Path]; dup {
			t.Errorf("candidate %s assigned to both %s and %s", e.Candidate.Path, prev, e.Track.ID)
		}
		seen[e.Candidate.Path] = e.Track.ID
	}
}

func TestMatchDeterminism(t *testing.T) {
	tracks := []models.Track{
		{ID: "t1", Name: "Intro", Artists: "A"},
		{ID: "t2", Name: "Intro", Artists: "B"},
		{ID: "t3", Name: "Outro", Artists: "C"},
	}
	candidates := []Candidate{
		NewCandidate("intro-1.mp3", tags.Tags{}),
		NewCandidate("intro-2.mp3", tags.Tags{}),
		NewCandidate("outro.mp3", tags.Tags{}),
	}

	first, err := Match(tracks, candidates, ModeFilename)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	second, err := Match(tracks, candidates, ModeFilename)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical assignments for identical inputs")
	}
}

func TestMatchBoundaries(t *testing.T) {
	t.Run("No Tracks", func(t *testing.T) {
		candidates := []Candidate{NewCandidate("a.mp3", tags.Tags{})}
		result, err := Match(nil, candidates, ModeFilename)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}
		if len(result.Entries) != 0 {
			t.Error("expected no entries")
		}
		if len(result.Residual) != 1 {
			t.Errorf("expected full candidate set residual, got %d", len(result.Residual))
		}
	})

	t.Run("No Candidates", func(t *testing.T) {
		tracks := []models.Track{{ID: "t1", Name: "A", Artists: "B"}}
		result, err := Match(tracks, nil, ModeFilename)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}
		if len(result.Entries) != 0 {
			t.Error("expected no entries")
		}
		if len(result.UnmatchedTracks) != 1 {
			t.Errorf("expected all tracks unmatched, got %d", len(result.UnmatchedTracks))
		}
	})
}

func TestMatchInvalidMode(t *testing.T) {
	_, err := Match(nil, nil, Mode("fuzzy"))
	if !errors.Is(err, shared.ErrInvalidMatchMode) {
		t.Errorf("expected ErrInvalidMatchMode, got %v", err)
	}
}

func TestMatchDoesNotMutateInputs(t *testing.T) {
	tracks := []models.Track{{ID: "t1", Name: "Intro", Artists: "A"}}
	candidates := []Candidate{NewCandidate("intro.mp3", tags.Tags{})}

	tracksCopy := make([]models.Track, len(tracks))
	copy(tracksCopy, tracks)
	candidatesCopy := make([]Candidate, len(candidates))
	copy(candidatesCopy, candidates)

	if _, err := Match(tracks, candidates, ModeFilename); err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if !reflect.DeepEqual(tracks, tracksCopy) {
		t.Error("tracks were mutated")
	}
	if !reflect.DeepEqual(candidates, candidatesCopy) {
		t.Error("candidates were mutated")
	}
}
