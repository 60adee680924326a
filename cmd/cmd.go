// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/hottest100/internal/formatter"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
	}
}

func dataFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "data",
		Aliases: []string{"d"},
		Usage:   "Path to the songs file (.json, .yaml or .yml); overrides [data] path",
	}
}

// syncCommand creates and fills one playlist per poll
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Create a Spotify playlist for every poll in the song list",
		Flags: []cli.Flag{
			configFlag(),
			dataFlag(),
			logLevelFlag(),
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Maximum attempts per request when rate limited (0 retries forever)",
			},
			&cli.DurationFlag{
				Name:  "max-wait",
				Usage: "Maximum total wait per request when rate limited (0 waits forever)",
			},
			&cli.FloatFlag{
				Name:  "rps",
				Usage: "Client-side request rate limit in requests per second (0 disables)",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record this run in the history database",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show an interactive progress view",
			},
		},
		Action: r.Sync,
	}
}

// planCommand prints the playlists a sync would create
func planCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Group the song list into playlists without calling Spotify",
		Flags: []cli.Flag{
			configFlag(),
			dataFlag(),
			logLevelFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, markdown, csv, json)",
				Value:   string(formatter.Text),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the plan to a file instead of stdout",
			},
		},
		Action: r.Plan,
	}
}

// authCommand runs the OAuth flow and caches the token
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag(), logLevelFlag()},
		Action: r.Auth,
	}
}

// historyCommand lists recorded runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded sync runs",
		Flags: []cli.Flag{
			configFlag(),
			logLevelFlag(),
			&cli.StringFlag{
				Name:  "run",
				Usage: "Run ID or sequence number to show in detail",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to list",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.History,
	}
}

// setupCommand initializes local files
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the history database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a default config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the history database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					logLevelFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recently applied migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
