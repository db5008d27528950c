package models

// Role is a member's permission level within a group.
type Role string

const (
	// RoleAdmin is assigned to the group creator. Admins can lock the
	// group, drive phase transitions, and run the review step.
	RoleAdmin Role = "admin"

	// RoleMember is everyone who joined through an invite.
	RoleMember Role = "member"
)

// Member is one roster entry. (GroupID, Username) is unique; a user appears
// in a group at most once. Roles are immutable once assigned.
type Member struct {
	// GroupID is the group this membership belongs to.
	GroupID string

	// Username identifies the member.
	Username string

	// Role is the member's permission level.
	Role Role

	// CreatedAt is the Unix timestamp when the member joined.
	CreatedAt int64
}
