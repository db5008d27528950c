package models

// Comment is review-phase discussion attached to a prediction.
type Comment struct {
	// ID is the unique identifier for the comment (UUID format).
	ID string

	// PredictionID is the prediction being discussed.
	PredictionID string

	// Username is the comment author.
	Username string

	// Content is the comment text.
	Content string

	// CreatedAt is the Unix timestamp when the comment was posted.
	CreatedAt int64
}
