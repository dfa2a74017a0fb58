package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/Cazrath/Heart/internal/store"
	tu "github.com/Cazrath/Heart/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			spotify := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Spotify:    spotify,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
			if runner.reader == nil {
				t.Error("expected default tag reader to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				HTTPClient: nil,
			})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 7 {
			t.Errorf("expected 7 commands, got %d", len(commands))
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, name := range []string{"setup", "auth", "playlist", "attach", "files", "play", "tui"} {
			if !names[name] {
				t.Errorf("expected command %q to be registered", name)
			}
		}
	})
}

// runApp executes the CLI with the given args against a fresh Runner and
// returns everything written to its output.
func runApp(t *testing.T, opts RunnerOpts, args ...string) (string, error) {
	t.Helper()

	output := &bytes.Buffer{}
	opts.Output = output
	opts.Logger = shared.NewLogger(output)

	runner := NewRunner(opts)
	app := &cli.Command{
		Name:     "heart",
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), append([]string{"heart"}, args...))
	return output.String(), err
}

func TestPlaylistCommands(t *testing.T) {
	spotify := &tu.MockService{
		Playlists: []models.Playlist{
			{ID: "pl1", Name: "Driving", TrackCount: 2, Public: true},
			{ID: "pl2", Name: "Quiet", TrackCount: 1},
		},
		Exports: map[string]*models.PlaylistExport{
			"pl1": {
				Playlist: models.Playlist{ID: "pl1", Name: "Driving", TrackCount: 2},
				Tracks: []models.Track{
					{ID: "t1", Name: "Blue Monday", Artists: "New Order", DurationMS: 180000},
					{ID: "t2", Name: "Age of Consent", Artists: "New Order", DurationMS: 200000},
				},
			},
		},
	}

	t.Run("list writes playlists", func(t *testing.T) {
		out, err := runApp(t, RunnerOpts{Spotify: spotify}, "playlist", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(out, "Found 2 playlists") {
			t.Errorf("expected playlist count in output, got %s", out)
		}
		if !strings.Contains(out, "Driving") || !strings.Contains(out, "Quiet") {
			t.Errorf("expected playlist names in output, got %s", out)
		}
		if !strings.Contains(out, "Visibility: Public") {
			t.Errorf("expected visibility in output, got %s", out)
		}
	})

	t.Run("list respects limit", func(t *testing.T) {
		out, err := runApp(t, RunnerOpts{Spotify: spotify}, "playlist", "list", "--limit", "1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(out, "Found 1 playlists") {
			t.Errorf("expected limited count, got %s", out)
		}
		if strings.Contains(out, "Quiet") {
			t.Errorf("expected second playlist to be dropped, got %s", out)
		}
	})

	t.Run("list without service fails", func(t *testing.T) {
		_, err := runApp(t, RunnerOpts{}, "playlist", "list")
		if err == nil {
			t.Fatal("expected error without a service")
		}
		if !strings.Contains(err.Error(), "service unavailable") {
			t.Errorf("expected service unavailable error, got %v", err)
		}
	})

	t.Run("export writes csv file", func(t *testing.T) {
		outputFile := filepath.Join(t.TempDir(), "driving.csv")

		out, err := runApp(t, RunnerOpts{Spotify: spotify},
			"playlist", "export", "--format", "csv", "--output", outputFile, "pl1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(out, "✓ Playlist exported") {
			t.Errorf("expected export confirmation, got %s", out)
		}

		data, err := os.ReadFile(outputFile)
		if err != nil {
			t.Fatalf("expected export file to exist: %v", err)
		}
		if !strings.Contains(string(data), "Blue Monday") {
			t.Errorf("expected track in export, got %s", string(data))
		}
	})

	t.Run("export resolves playlist by name", func(t *testing.T) {
		outputFile := filepath.Join(t.TempDir(), "driving.md")

		_, err := runApp(t, RunnerOpts{Spotify: spotify},
			"playlist", "export", "--format", "markdown", "--output", outputFile, "Driving")
		if err != nil {
			t.Fatalf("expected name lookup to succeed, got %v", err)
		}

		tu.AssertFileExists(t, outputFile)
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		_, err := runApp(t, RunnerOpts{Spotify: spotify},
			"playlist", "export", "--format", "yaml", "pl1")
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
		if !strings.Contains(err.Error(), "unknown format") {
			t.Errorf("expected format error, got %v", err)
		}
	})

	t.Run("export unknown playlist fails", func(t *testing.T) {
		_, err := runApp(t, RunnerOpts{Spotify: spotify}, "playlist", "export", "missing")
		if err == nil {
			t.Fatal("expected error for unknown playlist")
		}
		if !strings.Contains(err.Error(), "playlist not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}

func TestAttachRunCommand(t *testing.T) {
	spotify := &tu.MockService{
		Exports: map[string]*models.PlaylistExport{
			"pl1": {
				Playlist: models.Playlist{ID: "pl1", Name: "Driving"},
				Tracks: []models.Track{
					{ID: "t1", Name: "Blue Monday", Artists: "New Order"},
					{ID: "t2", Name: "Nothing Here Matches", Artists: "Nobody"},
				},
			},
		},
	}

	t.Run("dry run matches by filename without a database", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "New Order - Blue Monday.mp3")
		if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		out, err := runApp(t, RunnerOpts{Spotify: spotify},
			"attach", "run", "--playlist", "pl1", "--dir", dir, "--mode", "filename", "--dry-run")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(out, "Attach Complete!") {
			t.Errorf("expected completion banner, got %s", out)
		}
		if !strings.Contains(out, "Matched: 1 tracks") {
			t.Errorf("expected one match, got %s", out)
		}
		if !strings.Contains(out, "Unmatched tracks:") {
			t.Errorf("expected unmatched section, got %s", out)
		}
	})

	t.Run("rejects invalid mode", func(t *testing.T) {
		_, err := runApp(t, RunnerOpts{Spotify: spotify},
			"attach", "run", "--playlist", "pl1", "--dir", t.TempDir(), "--mode", "psychic")
		if err == nil {
			t.Fatal("expected error for invalid mode")
		}
		if !strings.Contains(err.Error(), "invalid match mode") {
			t.Errorf("expected match mode error, got %v", err)
		}
	})
}

func TestFilesCommands(t *testing.T) {
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "heart.db")

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	st := store.NewLocalFileStore(db)
	if err := st.Put(context.Background(), "t1", "blue_monday.mp3", "audio/mpeg", []byte("payload")); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	db.Close()

	t.Run("list shows stored files", func(t *testing.T) {
		out, err := runApp(t, RunnerOpts{Config: config}, "files", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(out, "blue_monday.mp3") {
			t.Errorf("expected stored filename, got %s", out)
		}
		if !strings.Contains(out, "audio/mpeg") {
			t.Errorf("expected mime type, got %s", out)
		}
	})

	t.Run("info shows one file", func(t *testing.T) {
		out, err := runApp(t, RunnerOpts{Config: config}, "files", "info", "t1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(out, `"track_id": "t1"`) {
			t.Errorf("expected JSON detail, got %s", out)
		}
	})

	t.Run("info for missing track fails", func(t *testing.T) {
		_, err := runApp(t, RunnerOpts{Config: config}, "files", "info", "missing")
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		if !strings.Contains(err.Error(), "no local file attached") {
			t.Errorf("expected missing file error, got %v", err)
		}
	})

	t.Run("rm removes the file", func(t *testing.T) {
		out, err := runApp(t, RunnerOpts{Config: config}, "files", "rm", "t1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "✓ Removed") {
			t.Errorf("expected removal confirmation, got %s", out)
		}

		listOut, err := runApp(t, RunnerOpts{Config: config}, "files", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(listOut, "No stored files.") {
			t.Errorf("expected empty store, got %s", listOut)
		}
	})
}
