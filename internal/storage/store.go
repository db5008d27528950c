// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/predictionbingo/backend/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. Callers can
// test for it with errors.Is regardless of the backend.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
// Insert-style operations in the services treat it as success so that
// retries after a partial failure are safe.
var ErrDuplicate = errors.New("duplicate key")

// Store defines the interface for Prediction Bingo storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer. The store guarantees per-row
// atomicity only; multi-step flows in the services are not transactional and
// must stay individually retryable.
type Store interface {
	// EnsureUser inserts a username if it is not already present.
	// Re-inserting an existing username is a no-op, not an error.
	EnsureUser(ctx context.Context, username string) error

	// CreateGroup persists a new group. The group.ID and group.CreatedAt
	// fields will be populated by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// UpdateGroupStatus sets the lifecycle status of a group.
	UpdateGroupStatus(ctx context.Context, groupID string, status models.Status) error

	// UpdateGroupLock sets the lock flag of a group.
	UpdateGroupLock(ctx context.Context, groupID string, locked bool) error

	// AddMember inserts a roster entry. Returns ErrDuplicate if the
	// (group, username) pair already exists.
	AddMember(ctx context.Context, member *models.Member) error

	// ListMembers returns the roster of a group in join order.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// GetMember retrieves one roster entry.
	// Returns ErrNotFound if the user is not a member.
	GetMember(ctx context.Context, groupID, username string) (*models.Member, error)

	// CreatePredictions inserts a batch of predictions. IDs and timestamps
	// are populated by the store if unset.
	CreatePredictions(ctx context.Context, predictions []models.Prediction) error

	// DeletePredictions removes all of one user's predictions in a group.
	// Deleting zero rows is not an error.
	DeletePredictions(ctx context.Context, groupID, username string) error

	// ListPredictions returns all predictions in a group in submission order.
	ListPredictions(ctx context.Context, groupID string) ([]models.Prediction, error)

	// GetPrediction retrieves a prediction by ID.
	// Returns ErrNotFound if it does not exist.
	GetPrediction(ctx context.Context, predictionID string) (*models.Prediction, error)

	// UpdatePredictionReview sets the review verdict on a prediction.
	UpdatePredictionReview(ctx context.Context, predictionID string, status models.ReviewStatus) error

	// AddMark inserts a completed mark. Returns ErrDuplicate if the
	// prediction is already marked in this group.
	AddMark(ctx context.Context, mark *models.CompletedMark) error

	// RemoveMark deletes a completed mark. Removing an absent mark is not
	// an error.
	RemoveMark(ctx context.Context, groupID, predictionID string) error

	// ListMarks returns all completed marks in a group.
	ListMarks(ctx context.Context, groupID string) ([]models.CompletedMark, error)

	// CreateComment persists a review comment. ID and timestamp are
	// populated by the store if unset.
	CreateComment(ctx context.Context, comment *models.Comment) error

	// ListComments returns a prediction's comments in posting order.
	ListComments(ctx context.Context, predictionID string) ([]models.Comment, error)

	// Close releases any resources held by the store.
	Close() error
}
