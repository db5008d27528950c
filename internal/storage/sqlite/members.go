package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/predictionbingo/backend/internal/models"
	"github.com/predictionbingo/backend/internal/storage"
)

// AddMember inserts a roster entry for a group.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO group_members (group_id, username, role, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		member.GroupID,
		member.Username,
		string(member.Role),
		member.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("member %s/%s: %w", member.GroupID, member.Username, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// ListMembers returns the roster of a group in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	query := `
		SELECT group_id, username, role, created_at
		FROM group_members
		WHERE group_id = ?
		ORDER BY created_at, username
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var role string
		if err := rows.Scan(&m.GroupID, &m.Username, &role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// GetMember retrieves one roster entry.
func (s *SQLiteStore) GetMember(ctx context.Context, groupID, username string) (*models.Member, error) {
	query := `
		SELECT group_id, username, role, created_at
		FROM group_members
		WHERE group_id = ? AND username = ?
	`

	member := &models.Member{}
	var role string
	err := s.db.QueryRowContext(ctx, query, groupID, username).Scan(
		&member.GroupID,
		&member.Username,
		&role,
		&member.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %s/%s: %w", groupID, username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	member.Role = models.Role(role)

	return member, nil
}
