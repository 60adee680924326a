package repositories

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/tasks"
)

// HistoryRecorder implements [tasks.Recorder] by writing each synced playlist and its misses under one run.
//
// Recording is best effort: failures are logged and never reach the sync.
type HistoryRecorder struct {
	runID     string
	playlists *SyncedPlaylistRepository
	misses    *MissRepository
	logger    *log.Logger
}

// NewHistoryRecorder creates a recorder writing under runID.
func NewHistoryRecorder(db *sql.DB, runID string, logger *log.Logger) *HistoryRecorder {
	return &HistoryRecorder{
		runID:     runID,
		playlists: NewSyncedPlaylistRepository(db),
		misses:    NewMissRepository(db),
		logger:    logger,
	}
}

func (h *HistoryRecorder) RecordPlaylist(_ context.Context, result *tasks.PlaylistResult) {
	if result == nil || result.Playlist == nil {
		return
	}

	err := h.playlists.Create(&models.SyncedPlaylist{
		RunID:      h.runID,
		RemoteID:   result.Playlist.ID,
		Name:       result.Group.Name,
		SongCount:  len(result.Group.Songs),
		TrackCount: len(result.URIs),
	})
	if err != nil {
		h.warn("failed to record playlist", "playlist", result.Group.Name, "error", err)
	}

	for _, song := range result.Missing() {
		err := h.misses.Create(&models.MissedTrack{
			RunID:        h.runID,
			PlaylistName: result.Group.Name,
			Track:        song.Track,
			Artist:       song.Artist,
			Position:     song.Position,
		})
		if err != nil {
			h.warn("failed to record missed track", "track", song.Track, "error", err)
		}
	}
}

func (h *HistoryRecorder) warn(msg string, kv ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, kv...)
	}
}
