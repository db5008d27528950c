package models

// Group represents one prediction round shared by up to MaxMembers people.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "2026 Oscars").
	Name string

	// OrganizerUsername is the user who created the group. The organizer is
	// also present in the roster with RoleAdmin.
	OrganizerUsername string

	// Status is the lifecycle phase. See status.go for the transition table.
	Status Status

	// IsLocked blocks new joins while true, independent of Status.
	IsLocked bool

	// SubmissionDeadline is an optional Unix timestamp after which joining
	// is refused. Zero means no deadline.
	SubmissionDeadline int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// MaxMembers caps the roster size of a single group.
const MaxMembers = 15
