package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/shared"
)

// SyncedPlaylistRepository stores the playlists created during each run.
type SyncedPlaylistRepository struct {
	db *sql.DB
}

// NewSyncedPlaylistRepository creates a new SyncedPlaylistRepository with the given database connection
func NewSyncedPlaylistRepository(db *sql.DB) *SyncedPlaylistRepository {
	return &SyncedPlaylistRepository{db: db}
}

// Create inserts p, assigning its ID and creation time.
func (r *SyncedPlaylistRepository) Create(p *models.SyncedPlaylist) error {
	if p.RunID == "" || p.RemoteID == "" || p.Name == "" {
		return fmt.Errorf("%w: run_id, remote_id and name are required", shared.ErrInvalidArgument)
	}

	p.ID = shared.GenerateID()
	p.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO synced_playlists (id, run_id, remote_id, name, song_count, track_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, p.ID, p.RunID, p.RemoteID, p.Name, p.SongCount, p.TrackCount, p.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert synced playlist: %w", err)
	}
	return nil
}

// ListByRun returns a run's playlists in creation order.
func (r *SyncedPlaylistRepository) ListByRun(runID string) ([]*models.SyncedPlaylist, error) {
	query := `
		SELECT id, run_id, remote_id, name, song_count, track_count, created_at
		FROM synced_playlists
		WHERE run_id = ?
		ORDER BY rowid
	`
	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query synced playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.SyncedPlaylist
	for rows.Next() {
		var p models.SyncedPlaylist
		if err := rows.Scan(&p.ID, &p.RunID, &p.RemoteID, &p.Name, &p.SongCount, &p.TrackCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan synced playlist: %w", err)
		}
		playlists = append(playlists, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating synced playlists: %w", err)
	}
	return playlists, nil
}
