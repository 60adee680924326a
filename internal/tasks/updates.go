package tasks

import (
	"fmt"

	"github.com/desertthunder/hottest100/internal/models"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Grouped Phase = iota
	CreatePlaylist
	SearchTracks
	TrackMissing
	AddItems
	PlaylistComplete
)

func (p Phase) String() string {
	switch p {
	case Grouped:
		return "grouped"
	case CreatePlaylist:
		return "create_playlist"
	case SearchTracks:
		return "search_tracks"
	case TrackMissing:
		return "track_missing"
	case AddItems:
		return "add_items"
	case PlaylistComplete:
		return "playlist_complete"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func groupedUpdate(groups []models.PlaylistGroup, songs int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Grouped,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Grouped %d songs into %d playlists", songs, len(groups)),
		Data:    groups,
	}
}

func createPlaylistUpdate(step, total int, pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Playlist created: %s (ID: %s)", step, total, pl.Name, pl.ID),
		Data:    pl,
	}
}

func searchTrackUpdate(step, total int, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] #%d %s - %s", step, total, song.Position, song.Artist, song.Track),
		Data:    song,
	}
}

func trackMissingUpdate(step, total int, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackMissing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Song not found: %s by %s", song.Track, song.Artist),
		Data:    song,
	}
}

func addItemsUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Adding %d tracks...", step, total, count),
	}
}

func playlistCompleteUpdate(step, total int, result *PlaylistResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlaylistComplete,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist '%s' created successfully!", result.Group.Name),
		Data:    result,
	}
}
