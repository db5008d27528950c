package sqlite

import (
	"context"
	"fmt"
	"time"
)

// EnsureUser inserts a username if it is not already present. Repeat calls
// with the same username succeed without changing the original row, which
// keeps sign-in retryable.
func (s *SQLiteStore) EnsureUser(ctx context.Context, username string) error {
	query := `
		INSERT INTO users (username, created_at)
		VALUES (?, ?)
		ON CONFLICT (username) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, username, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}

	return nil
}
