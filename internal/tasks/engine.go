package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hottest100/internal/models"
)

// RunResult collects every playlist synchronized during a run.
type RunResult struct {
	Groups    []models.PlaylistGroup
	Playlists []*PlaylistResult
}

// TracksAdded sums resolved tracks across playlists.
func (r *RunResult) TracksAdded() int {
	n := 0
	for _, p := range r.Playlists {
		n += len(p.URIs)
	}
	return n
}

// Missing returns all songs without a search result, playlist by playlist.
func (r *RunResult) Missing() []models.Song {
	var out []models.Song
	for _, p := range r.Playlists {
		out = append(out, p.Missing()...)
	}
	return out
}

// Orchestrator drives a whole run: group the songs, then synchronize each group in order.
type Orchestrator struct {
	sync   *Synchronizer
	logger *log.Logger
}

// NewOrchestrator creates an [Orchestrator] around sync.
func NewOrchestrator(sync *Synchronizer, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Orchestrator{sync: sync, logger: logger}
}

// Run synchronizes songs one playlist at a time, in order of first appearance.
//
// The first failing playlist stops the run and the remaining groups are skipped. The partial
// result, including a failed playlist that was already created, is returned alongside the error.
// Playlists already created are not rolled back.
func (o *Orchestrator) Run(ctx context.Context, songs []models.Song, progress chan<- ProgressUpdate) (*RunResult, error) {
	groups := GroupSongs(songs)
	result := &RunResult{Groups: groups}

	o.logger.Info("songs grouped", "songs", len(songs), "playlists", len(groups))
	sendProgress(progress, groupedUpdate(groups, len(songs)))

	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pr, err := o.sync.Sync(ctx, group, i+1, len(groups), progress)
		if pr != nil && pr.Playlist != nil {
			result.Playlists = append(result.Playlists, pr)
		}
		if err != nil {
			return result, fmt.Errorf("playlist %q: %w", group.Name, err)
		}
	}

	return result, nil
}
