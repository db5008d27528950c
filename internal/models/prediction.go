package models

// ReviewStatus is the organizer's verdict on a prediction during the
// optional review phase. Predictions start pending and must be approved or
// rejected before review can finish.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Prediction is a single free-text claim submitted by a group member.
// A user holds at most MaxPredictionsPerUser predictions per group, and
// editing replaces the user's entire set rather than patching entries.
type Prediction struct {
	// ID is the unique identifier for the prediction (UUID format).
	ID string

	// GroupID is the group this prediction belongs to.
	GroupID string

	// Username is the submitter.
	Username string

	// Content is the claim text, at most MaxPredictionLength characters.
	Content string

	// ReviewStatus is only meaningful while the group runs a review step.
	ReviewStatus ReviewStatus

	// CreatedAt is the Unix timestamp when the prediction was submitted.
	CreatedAt int64
}

const (
	// MaxPredictionsPerUser bounds one user's active set in a group.
	MaxPredictionsPerUser = 5

	// MaxPredictionLength bounds the content of a single prediction.
	MaxPredictionLength = 280
)
