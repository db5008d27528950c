package models

// Status is the lifecycle phase of a group.
type Status string

const (
	// StatusSubmission accepts new members and prediction sets.
	StatusSubmission Status = "submission"

	// StatusReview is an optional step where the organizer approves or
	// rejects predictions before play starts.
	StatusReview Status = "review"

	// StatusActive means the bingo card is live and marks can be toggled.
	StatusActive Status = "active"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmission, StatusReview, StatusActive:
		return true
	}
	return false
}

// transitions is the complete set of legal phase changes. A group only ever
// moves forward; there is no path back to an earlier status.
var transitions = map[Status][]Status{
	StatusSubmission: {StatusReview, StatusActive},
	StatusReview:     {StatusActive},
	StatusActive:     {},
}

// CanTransition reports whether a group may move from one status to another.
// Every caller that changes Group.Status must go through this table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
