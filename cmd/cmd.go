// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Spotify OAuth operations.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistCommand handles remote playlist operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List Spotify playlists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "tracks",
				Usage: "List playlist tracks with offline status",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistTracks,
			},
			{
				Name:  "export",
				Usage: "Export playlist tracks to a file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (json, csv, markdown, text)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// attachCommand handles matching and attaching local files to tracks.
func attachCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "attach",
		Aliases: []string{"match"},
		Usage:   "Attach local audio files to playlist tracks",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Scan a directory and attach matched files to a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist",
						Aliases:  []string{"p"},
						Usage:    "Playlist name or ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory containing audio files",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Match mode (filename, tags, isrc, both)",
						Value:   "both",
					},
					&cli.StringFlag{
						Name:  "report",
						Usage: "Write a match report file (.csv or .md)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Match without saving files",
					},
				},
				Action: r.AttachRun,
			},
			{
				Name:  "file",
				Usage: "Attach one file to one track directly",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "track",
						Aliases:  []string{"t"},
						Usage:    "Track ID to attach the file to",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the audio file",
						Required: true,
					},
				},
				Action: r.AttachFile,
			},
		},
	}
}

// filesCommand handles local file storage operations.
func filesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "files",
		Aliases: []string{"store"},
		Usage:   "Manage locally stored audio files",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored files",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FilesList,
			},
			{
				Name:  "info",
				Usage: "Show details for one stored file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track"},
				},
				Action: r.FilesInfo,
			},
			{
				Name:    "rm",
				Aliases: []string{"delete"},
				Usage:   "Remove a stored file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track"},
				},
				Action: r.FilesRemove,
			},
		},
	}
}

// playCommand plays a single stored track from the terminal.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a stored track",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "track"},
		},
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "volume",
				Usage: "Playback volume (0.0 to 1.0)",
				Value: 1.0,
			},
		},
		Action: r.Play,
	}
}

// tuiCommand returns the top-level TUI command for interactive playback.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive player TUI",
		Action:  r.TUI,
	}
}
