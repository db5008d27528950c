package models

// User is a self-asserted identity. There are no credentials: whoever claims
// a username is that user. The row exists so that memberships and
// predictions have a referent, and so repeat sign-ins are idempotent.
type User struct {
	// Username is the unique, caller-chosen identifier.
	Username string

	// CreatedAt is the Unix timestamp when the username was first seen.
	CreatedAt int64
}
