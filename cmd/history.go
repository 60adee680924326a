package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/repositories"
	"github.com/desertthunder/hottest100/internal/shared"
	"github.com/urfave/cli/v3"
)

// RunDetail is one run with everything it recorded.
type RunDetail struct {
	Run       *models.Run              `json:"run"`
	Playlists []*models.SyncedPlaylist `json:"playlists"`
	Missed    []*models.MissedTrack    `json:"missed"`
}

// History lists recent runs, or shows one run's playlists and misses with --run.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.OpenHistory(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	runs := repositories.NewRunRepository(db)

	if ref := cmd.String("run"); ref != "" {
		run, err := findRun(runs, ref)
		if err != nil {
			return err
		}

		detail := RunDetail{Run: run}
		if detail.Playlists, err = repositories.NewSyncedPlaylistRepository(db).ListByRun(run.ID); err != nil {
			return err
		}
		if detail.Missed, err = repositories.NewMissRepository(db).ListByRun(run.ID); err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(detail, true)
		}
		r.printRunDetail(detail)
		return nil
	}

	list, err := runs.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}
	if len(list) == 0 {
		return r.writePlain("No runs recorded in %s\n", config.Database.Path)
	}

	misses := repositories.NewMissRepository(db)

	r.writePlain("Found %d runs:\n\n", len(list))
	for _, run := range list {
		missed, err := misses.CountByRun(run.ID)
		if err != nil {
			return err
		}
		r.writePlain("#%d  %s  %-9s  %s\n", run.Sequence, run.StartedAt.Local().Format(time.DateTime), run.Status, run.DataPath)
		r.writePlain("    ID: %s\n", run.ID)
		r.writePlain("    Songs not found: %d\n", missed)
		if run.Error != "" {
			r.writePlain("    Error: %s\n", run.Error)
		}
	}
	return nil
}

// findRun accepts either a run ID or its sequence number.
func findRun(runs *repositories.RunRepository, ref string) (*models.Run, error) {
	if seq, err := strconv.Atoi(ref); err == nil {
		run, err := runs.GetBySequence(seq)
		if err == nil || !errors.Is(err, shared.ErrRecordNotFound) {
			return run, err
		}
	}
	run, err := runs.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", ref, err)
	}
	return run, nil
}

func (r *Runner) printRunDetail(d RunDetail) {
	r.writePlainHeader(fmt.Sprintf("Run #%d (%s)", d.Run.Sequence, d.Run.Status))
	r.writePlain("ID:      %s\n", d.Run.ID)
	r.writePlain("Data:    %s\n", d.Run.DataPath)
	r.writePlain("Started: %s\n", d.Run.StartedAt.Local().Format(time.DateTime))
	if d.Run.FinishedAt != nil {
		r.writePlain("Took:    %s\n", d.Run.FinishedAt.Sub(d.Run.StartedAt).Round(time.Second))
	}
	if d.Run.Error != "" {
		r.writePlain("Error:   %s\n", d.Run.Error)
	}

	r.writePlain("\nPlaylists (%d):\n", len(d.Playlists))
	for _, p := range d.Playlists {
		r.writePlain("  • %s  %d/%d tracks  (%s)\n", p.Name, p.TrackCount, p.SongCount, p.RemoteID)
	}

	r.writePlain("\nSongs not found (%d):\n", len(d.Missed))
	for _, m := range d.Missed {
		r.writePlain("  • #%d %s by %s  [%s]\n", m.Position, m.Track, m.Artist, m.PlaylistName)
	}
}
