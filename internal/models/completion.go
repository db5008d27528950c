package models

// CompletedMark records that a prediction came true. Presence of a row means
// "true"; absence means "not yet". The mark is shared by the whole group:
// any member's toggle changes what every member sees.
type CompletedMark struct {
	// GroupID is the group the mark belongs to.
	GroupID string

	// PredictionID is the prediction that came true.
	PredictionID string

	// MarkedBy is the username whose toggle created the mark. Informational
	// only; any member may remove the mark again.
	MarkedBy string

	// CreatedAt is the Unix timestamp when the mark was created.
	CreatedAt int64
}
