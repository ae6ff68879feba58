// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// importCommand synchronizes export files into the Apple Music library
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import Spotify exports into the Apple Music library",
		UsageText: "amx import --playlist <file.csv|dir> [--albums <albums.json>] [--cache]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist export (.csv) or directory of exports",
			},
			&cli.StringFlag{
				Name:    "albums",
				Aliases: []string{"a"},
				Usage:   "Liked albums export (.json)",
			},
			&cli.BoolFlag{
				Name:  "cache",
				Usage: "Reuse and store catalog matches in the database",
			},
		},
		Action: r.Import,
	}
}

// searchCommand runs the matcher for one song
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog for a song and show which rule matched",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Artist name",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Album name",
			},
		},
		Action: r.Search,
	}
}

// setupCommand handles setup operations for configuration, database and credentials.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   configFile,
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "credentials",
				Usage: "Configure Apple Music credentials from a browser request",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open music.apple.com in the browser",
					},
				},
				Action: r.SetupCredentials,
			},
		},
	}
}

// cacheCommand inspects the match cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear cached catalog matches",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cached matches per rule",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Delete every cached match",
				Action: r.CacheClear,
			},
		},
	}
}

// historyCommand lists recorded import runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show previous import runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Only show playlist or albums runs",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, csv or markdown",
				Value: "text",
			},
		},
		Action: r.History,
	}
}

// apiCommand handles direct Apple Music API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the Apple Music API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Authenticated GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}
