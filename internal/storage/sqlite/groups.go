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

// CreateGroup persists a new group to the database.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate ID and timestamp if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO groups (id, name, organizer_username, status, is_locked, submission_deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		group.ID,
		group.Name,
		group.OrganizerUsername,
		string(group.Status),
		group.IsLocked,
		group.SubmissionDeadline,
		group.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	query := `
		SELECT id, name, organizer_username, status, is_locked, submission_deadline, created_at
		FROM groups
		WHERE id = ?
	`

	group := &models.Group{}
	var status string
	err := s.db.QueryRowContext(ctx, query, groupID).Scan(
		&group.ID,
		&group.Name,
		&group.OrganizerUsername,
		&status,
		&group.IsLocked,
		&group.SubmissionDeadline,
		&group.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Status = models.Status(status)

	return group, nil
}

// UpdateGroupStatus sets the lifecycle status of a group.
func (s *SQLiteStore) UpdateGroupStatus(ctx context.Context, groupID string, status models.Status) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET status = ? WHERE id = ?",
		string(status), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	return nil
}

// UpdateGroupLock sets the lock flag of a group.
func (s *SQLiteStore) UpdateGroupLock(ctx context.Context, groupID string, locked bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET is_locked = ? WHERE id = ?",
		locked, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group lock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	return nil
}
