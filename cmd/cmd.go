// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/playlistctl/internal/formatter"
	"github.com/urfave/cli/v3"
)

// globalFlags are available to every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
			Sources: cli.EnvVars("PLAYLISTCTL_CONFIG"),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log requests and engine steps",
		},
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// listCommand lists playlists with the same search, sort and paging as the shell.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List playlists",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Only playlists whose name or description contains this text",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort key: name-asc, name-desc, songs-asc, songs-desc, description-asc, description-desc",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to show, starting at 1",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Playlists per page; 0 shows every match",
			},
		}, jsonFlags()...),
		Action: r.List,
	}
}

// showCommand prints one playlist.
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Aliases:   []string{"get"},
		Usage:     "Show a playlist and its songs",
		Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, " + formatter.FormatJSON + ", " + formatter.FormatCSV + ", " + formatter.FormatMarkdown + ", " + formatter.FormatText,
				Value:   "table",
			},
		},
		Action: r.Show,
	}
}

// createCommand creates a playlist from flags or a JSON file.
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a playlist",
		Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Playlist description",
			},
			&cli.StringSliceFlag{
				Name:    "song",
				Aliases: []string{"s"},
				Usage:   `Song as "title|artist|album|year|genre"; repeat for more songs`,
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Read the playlist from a JSON file instead",
			},
		},
		Action: r.Create,
	}
}

// deleteCommand deletes a playlist with admin credentials.
func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a playlist",
		Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
		},
		Action: r.Delete,
	}
}

// appendCommand adds a song to the end of a playlist.
func appendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "append",
		Aliases:   []string{"add"},
		Usage:     "Append a song to a playlist (deletes and recreates it)",
		Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Song title", Required: true},
			&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Song artist", Required: true},
			&cli.StringFlag{Name: "album", Usage: "Album"},
			&cli.StringFlag{Name: "year", Usage: "Four digit year"},
			&cli.StringFlag{Name: "genre", Usage: "Genre"},
			&cli.BoolFlag{
				Name:  "no-snapshot",
				Usage: "Skip the local snapshot taken before the playlist is deleted",
			},
		},
		Action: r.Append,
	}
}

// backupCommand exports every playlist.
func backupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Export every playlist to a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   formatter.FormatJSON,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: playlists_backup_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent file writers (1-10)",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Playlist fetches per second",
				Value: 5,
			},
		},
		Action: r.Backup,
	}
}

// restoreCommand recreates a playlist from a JSON backup or a snapshot.
func restoreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Recreate a playlist from a JSON backup file or a snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "JSON file in the API format, e.g. from backup --format json",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "Snapshot ID or sequence number",
			},
		},
		Action: r.Restore,
	}
}

// snapshotsCommand manages the local snapshots taken before appends.
func snapshotsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "snapshots",
		Usage: "Local copies of playlists taken before they were recreated",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List snapshots",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Include resolved snapshots",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Only snapshots of this playlist",
					},
				}, jsonFlags()...),
				Action: r.SnapshotsList,
			},
			{
				Name:      "resolve",
				Usage:     "Mark a snapshot as no longer needed",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.SnapshotsResolve,
			},
		},
	}
}

// setupCommand writes a config file and prepares the snapshot database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the snapshot database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Undo the newest snapshot schema migration; the next command applies it again",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Roll back even when unresolved snapshots would be dropped",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist shell",
		Action:  r.TUI,
	}
}
