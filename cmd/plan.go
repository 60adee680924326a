package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hottest100/internal/catalog"
	"github.com/desertthunder/hottest100/internal/formatter"
	"github.com/desertthunder/hottest100/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Plan prints the playlists a sync would create. It needs no credentials and makes no remote calls.
func (r *Runner) Plan(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("data") {
		config.Data.Path = cmd.String("data")
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	songs, err := catalog.Load(config.Data.Path)
	if err != nil {
		return err
	}
	groups := tasks.Plan(songs)
	r.logger.Debug("plan built", "songs", len(songs), "playlists", len(groups))

	if output := cmd.String("output"); output != "" {
		if err := formatter.WritePlan(groups, format, output); err != nil {
			return err
		}
		return r.writePlain("✓ Plan for %d playlists written to %s\n", len(groups), output)
	}

	data, err := formatter.Render(groups, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
