package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/services"
	"github.com/desertthunder/hottest100/internal/shared"
)

// TrackResolution is the outcome of searching for one song. Track is nil when nothing matched.
type TrackResolution struct {
	Song  models.Song
	Track *models.Track
}

// Found reports whether the search produced a track.
func (r TrackResolution) Found() bool {
	return r.Track != nil
}

// PlaylistResult describes one synchronized playlist.
type PlaylistResult struct {
	Group       models.PlaylistGroup // Group with songs in insertion order
	Playlist    *models.Playlist     // Created remote playlist
	Resolutions []TrackResolution    // One per song, in insertion order
	URIs        []string             // Resolved URIs, in insertion order
	Batches     int                  // Number of add-items calls issued
}

// Missing returns the songs that had no search result.
func (r *PlaylistResult) Missing() []models.Song {
	var missing []models.Song
	for _, res := range r.Resolutions {
		if !res.Found() {
			missing = append(missing, res.Song)
		}
	}
	return missing
}

// Recorder receives each synchronized playlist, e.g. to persist run history.
//
// Implementations handle their own failures; they cannot abort a sync.
type Recorder interface {
	RecordPlaylist(ctx context.Context, result *PlaylistResult)
}

// Synchronizer creates one remote playlist per group and fills it with matched tracks.
// Every remote call goes through the [services.Invoker].
type Synchronizer struct {
	remote    services.Service
	invoker   *services.Invoker
	logger    *log.Logger
	recorder  Recorder
	chunkSize int
}

// SyncOption configures a [Synchronizer].
type SyncOption func(*Synchronizer)

// WithRecorder attaches a [Recorder].
func WithRecorder(r Recorder) SyncOption {
	return func(s *Synchronizer) { s.recorder = r }
}

// WithChunkSize overrides the add-items batch size. Values outside 1..100 are ignored.
func WithChunkSize(n int) SyncOption {
	return func(s *Synchronizer) {
		if n > 0 && n <= services.MaxItemsPerRequest {
			s.chunkSize = n
		}
	}
}

// NewSynchronizer creates a [Synchronizer]. A nil invoker retries forever; a nil logger discards output.
func NewSynchronizer(remote services.Service, invoker *services.Invoker, logger *log.Logger, opts ...SyncOption) *Synchronizer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if invoker == nil {
		invoker = services.NewInvoker(services.RetryPolicy{}, logger)
	}
	s := &Synchronizer{
		remote:    remote,
		invoker:   invoker,
		logger:    logger,
		chunkSize: services.MaxItemsPerRequest,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync creates the playlist for group and adds every song that can be found, highest position first.
//
// step and total position this group within the run for progress reporting.
// A song with no search result is logged and skipped. Any other failure aborts this playlist;
// a playlist that was already created is left in place, recorded, and returned with the error.
func (s *Synchronizer) Sync(ctx context.Context, group models.PlaylistGroup, step, total int, progress chan<- ProgressUpdate) (*PlaylistResult, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("%w: no remote service configured", shared.ErrInvalidArgument)
	}

	logger := shared.WithLogger(s.logger, "playlist", group.Name)
	songs := SortByPositionDesc(group.Songs)
	result := &PlaylistResult{Group: models.PlaylistGroup{Name: group.Name, Songs: songs}}

	user, err := services.Invoke(ctx, s.invoker, s.remote.CurrentUser)
	if err != nil {
		return result, fmt.Errorf("failed to get current user: %w", err)
	}

	pl, err := services.Invoke(ctx, s.invoker, func(ctx context.Context) (*models.Playlist, error) {
		return s.remote.CreatePlaylist(ctx, user.ID, group.Name, group.Description())
	})
	if err != nil {
		return result, fmt.Errorf("failed to create playlist: %w", err)
	}
	result.Playlist = pl
	logger.Debug("playlist created", "id", pl.ID)

	// The playlist exists remotely from here on, so it is recorded even if a later step fails.
	if s.recorder != nil {
		defer func() { s.recorder.RecordPlaylist(ctx, result) }()
	}
	sendProgress(progress, createPlaylistUpdate(step, total, pl))

	for i, song := range songs {
		sendProgress(progress, searchTrackUpdate(i+1, len(songs), song))

		res, err := s.resolve(ctx, song)
		if err != nil {
			return result, err
		}
		result.Resolutions = append(result.Resolutions, res)

		if !res.Found() {
			logger.Warnf("Song not found: %s by %s", song.Track, song.Artist)
			sendProgress(progress, trackMissingUpdate(i+1, len(songs), song))
			continue
		}
		result.URIs = append(result.URIs, res.Track.URI)
	}

	chunks := Chunk(result.URIs, s.chunkSize)
	for i, chunk := range chunks {
		sendProgress(progress, addItemsUpdate(i+1, len(chunks), len(chunk)))

		err := s.invoker.Do(ctx, func(ctx context.Context) error {
			return s.remote.AddItems(ctx, pl.ID, chunk)
		})
		if err != nil {
			return result, fmt.Errorf("failed to add tracks (batch %d/%d): %w", i+1, len(chunks), err)
		}
		result.Batches++
	}

	logger.Infof("Playlist '%s' created successfully!", group.Name)
	sendProgress(progress, playlistCompleteUpdate(step, total, result))
	return result, nil
}

// resolve searches for song and keeps the first hit, if any.
func (s *Synchronizer) resolve(ctx context.Context, song models.Song) (TrackResolution, error) {
	query := song.SearchQuery()
	tracks, err := services.Invoke(ctx, s.invoker, func(ctx context.Context) ([]models.Track, error) {
		return s.remote.SearchTracks(ctx, query, 1)
	})
	if err != nil {
		return TrackResolution{Song: song}, fmt.Errorf("failed to search %q: %w", query, err)
	}

	if len(tracks) == 0 || tracks[0].URI == "" {
		return TrackResolution{Song: song}, nil
	}
	return TrackResolution{Song: song, Track: &tracks[0]}, nil
}
