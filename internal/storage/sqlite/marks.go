package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/predictionbingo/backend/internal/models"
	"github.com/predictionbingo/backend/internal/storage"
)

// AddMark inserts a completed mark for a prediction.
func (s *SQLiteStore) AddMark(ctx context.Context, mark *models.CompletedMark) error {
	if mark.CreatedAt == 0 {
		mark.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO completed_marks (group_id, prediction_id, marked_by, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		mark.GroupID,
		mark.PredictionID,
		mark.MarkedBy,
		mark.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("mark %s/%s: %w", mark.GroupID, mark.PredictionID, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to add mark: %w", err)
	}

	return nil
}

// RemoveMark deletes a completed mark.
func (s *SQLiteStore) RemoveMark(ctx context.Context, groupID, predictionID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM completed_marks WHERE group_id = ? AND prediction_id = ?",
		groupID, predictionID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove mark: %w", err)
	}

	return nil
}

// ListMarks returns all completed marks in a group.
func (s *SQLiteStore) ListMarks(ctx context.Context, groupID string) ([]models.CompletedMark, error) {
	query := `
		SELECT group_id, prediction_id, marked_by, created_at
		FROM completed_marks
		WHERE group_id = ?
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
	}
	defer rows.Close()

	var marks []models.CompletedMark
	for rows.Next() {
		var m models.CompletedMark
		if err := rows.Scan(&m.GroupID, &m.PredictionID, &m.MarkedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mark: %w", err)
		}
		marks = append(marks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate marks: %w", err)
	}

	return marks, nil
}
