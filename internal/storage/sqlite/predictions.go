package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/predictionbingo/backend/internal/models"
	"github.com/predictionbingo/backend/internal/storage"
)

// CreatePredictions inserts a batch of predictions. The batch is written in
// a single transaction so a user's replacement set lands whole.
func (s *SQLiteStore) CreatePredictions(ctx context.Context, predictions []models.Prediction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for i := range predictions {
		p := &predictions[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.CreatedAt == 0 {
			p.CreatedAt = now
		}
		if p.ReviewStatus == "" {
			p.ReviewStatus = models.ReviewPending
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO predictions (id, group_id, username, content, review_status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, p.GroupID, p.Username, p.Content, string(p.ReviewStatus), p.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("prediction %s: %w", p.ID, storage.ErrDuplicate)
			}
			return fmt.Errorf("failed to insert prediction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeletePredictions removes all of one user's predictions in a group.
func (s *SQLiteStore) DeletePredictions(ctx context.Context, groupID, username string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM predictions WHERE group_id = ? AND username = ?",
		groupID, username,
	)
	if err != nil {
		return fmt.Errorf("failed to delete predictions: %w", err)
	}

	return nil
}

// ListPredictions returns all predictions in a group in submission order.
func (s *SQLiteStore) ListPredictions(ctx context.Context, groupID string) ([]models.Prediction, error) {
	query := `
		SELECT id, group_id, username, content, review_status, created_at
		FROM predictions
		WHERE group_id = ?
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var reviewStatus string
		if err := rows.Scan(&p.ID, &p.GroupID, &p.Username, &p.Content, &reviewStatus, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.ReviewStatus = models.ReviewStatus(reviewStatus)
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}

	return predictions, nil
}

// GetPrediction retrieves a prediction by ID.
func (s *SQLiteStore) GetPrediction(ctx context.Context, predictionID string) (*models.Prediction, error) {
	query := `
		SELECT id, group_id, username, content, review_status, created_at
		FROM predictions
		WHERE id = ?
	`

	p := &models.Prediction{}
	var reviewStatus string
	err := s.db.QueryRowContext(ctx, query, predictionID).Scan(
		&p.ID, &p.GroupID, &p.Username, &p.Content, &reviewStatus, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prediction %s: %w", predictionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	p.ReviewStatus = models.ReviewStatus(reviewStatus)

	return p, nil
}

// UpdatePredictionReview sets the review verdict on a prediction.
func (s *SQLiteStore) UpdatePredictionReview(ctx context.Context, predictionID string, status models.ReviewStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE predictions SET review_status = ? WHERE id = ?",
		string(status), predictionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prediction review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("prediction %s: %w", predictionID, storage.ErrNotFound)
	}

	return nil
}
