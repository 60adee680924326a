package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/shared"
)

// MissRepository stores songs the search could not resolve.
type MissRepository struct {
	db *sql.DB
}

// NewMissRepository creates a new MissRepository with the given database connection
func NewMissRepository(db *sql.DB) *MissRepository {
	return &MissRepository{db: db}
}

// Create inserts m, assigning its ID and creation time.
func (r *MissRepository) Create(m *models.MissedTrack) error {
	if m.RunID == "" || m.PlaylistName == "" {
		return fmt.Errorf("%w: run_id and playlist_name are required", shared.ErrInvalidArgument)
	}

	m.ID = shared.GenerateID()
	m.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO missed_tracks (id, run_id, playlist_name, track, artist, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, m.ID, m.RunID, m.PlaylistName, m.Track, m.Artist, m.Position, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert missed track: %w", err)
	}
	return nil
}

// ListByRun returns a run's misses in the order they were recorded.
func (r *MissRepository) ListByRun(runID string) ([]*models.MissedTrack, error) {
	query := `
		SELECT id, run_id, playlist_name, track, artist, position, created_at
		FROM missed_tracks
		WHERE run_id = ?
		ORDER BY rowid
	`
	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query missed tracks: %w", err)
	}
	defer rows.Close()

	var misses []*models.MissedTrack
	for rows.Next() {
		var m models.MissedTrack
		if err := rows.Scan(&m.ID, &m.RunID, &m.PlaylistName, &m.Track, &m.Artist, &m.Position, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan missed track: %w", err)
		}
		misses = append(misses, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missed tracks: %w", err)
	}
	return misses, nil
}

// CountByRun returns how many misses a run recorded.
func (r *MissRepository) CountByRun(runID string) (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM missed_tracks WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count missed tracks: %w", err)
	}
	return n, nil
}
