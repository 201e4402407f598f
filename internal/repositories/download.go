package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/VladimirStojanovski/MealStack/internal/models"
)

// DownloadRepository implements download.Recorder for local job history.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository with the given database connection.
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Create inserts a new job record.
func (r *DownloadRepository) Create(id string, urlCount int, status string, createdAt time.Time) error {
	query := `
		INSERT INTO downloads (id, url_count, status, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, urlCount, status, createdAt); err != nil {
		return fmt.Errorf("failed to insert download record: %w", err)
	}
	return nil
}

// Finish marks a job record with its terminal status.
func (r *DownloadRepository) Finish(id string, status string, message string, finishedAt time.Time) error {
	query := `
		UPDATE downloads
		SET status = ?, message = ?, finished_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, status, message, finishedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update download record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("download record not found: %s", id)
	}
	return nil
}

// List retrieves job records, most recent first.
func (r *DownloadRepository) List(limit int) ([]models.DownloadRecord, error) {
	query := `
		SELECT id, url_count, status, message, created_at, finished_at
		FROM downloads
		ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var records []models.DownloadRecord
	for rows.Next() {
		var (
			rec        models.DownloadRecord
			finishedAt sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.URLCount, &rec.Status, &rec.Message, &rec.CreatedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download record: %w", err)
		}
		if finishedAt.Valid {
			rec.FinishedAt = &finishedAt.Time
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}
