package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/shared"
)

// RunRepository stores one row per sync invocation.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Start inserts a running [models.Run] for dataPath with a generated ID and sequence.
func (r *RunRepository) Start(dataPath string) (*models.Run, error) {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	run := &models.Run{
		ID:        shared.GenerateID(),
		Sequence:  sequence,
		DataPath:  dataPath,
		Status:    models.RunRunning,
		StartedAt: time.Now().UTC(),
	}

	query := `INSERT INTO runs (id, sequence, data_path, status, started_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, run.ID, run.Sequence, run.DataPath, run.Status, run.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// Finish marks a run succeeded, or failed with runErr's message.
func (r *RunRepository) Finish(id string, runErr error) error {
	status, message := models.RunSucceeded, ""
	if runErr != nil {
		status, message = models.RunFailed, runErr.Error()
	}

	query := `UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`
	result, err := r.db.Exec(query, status, nullString(message), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: run %s", shared.ErrRecordNotFound, id)
	}
	return nil
}

const runColumns = `id, sequence, data_path, status, error, started_at, finished_at`

// Get retrieves a run by ID.
func (r *RunRepository) Get(id string) (*models.Run, error) {
	return r.scanOne(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
}

// GetBySequence retrieves a run by its sequence number.
func (r *RunRepository) GetBySequence(sequence int) (*models.Run, error) {
	return r.scanOne(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE sequence = ?`, sequence))
}

// List returns the most recent runs first. limit <= 0 returns all.
func (r *RunRepository) List(limit int) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY sequence DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

func (r *RunRepository) scanOne(row *sql.Row) (*models.Run, error) {
	run, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRecordNotFound
	}
	return run, err
}

func (r *RunRepository) scan(s interface{ Scan(...any) error }) (*models.Run, error) {
	var (
		run      models.Run
		status   string
		message  sql.NullString
		finished sql.NullTime
	)
	if err := s.Scan(&run.ID, &run.Sequence, &run.DataPath, &status, &message, &run.StartedAt, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Status = models.RunStatus(status)
	run.Error = message.String
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
