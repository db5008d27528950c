// Package auth is the identity collaborator: it turns self-asserted
// usernames into session tokens and owns the advisory recent-groups list.
// There are no credentials anywhere in this package; whoever claims a
// username gets a token for it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/predictionbingo/backend/internal/storage"
)

// MaxUsernameLength bounds a caller-chosen username.
const MaxUsernameLength = 32

var ErrInvalidUsername = errors.New("invalid username")

// Identity issues sessions for self-asserted usernames.
type Identity struct {
	store storage.Store
	jwt   *JWTManager
}

// NewIdentity creates an Identity backed by the given store and token manager.
func NewIdentity(store storage.Store, jwt *JWTManager) *Identity {
	return &Identity{store: store, jwt: jwt}
}

// SignIn validates the username, makes sure a user row exists (re-signing in
// with a known username is a no-op there), and returns a session token.
func (i *Identity) SignIn(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return "", err
	}

	if err := i.store.EnsureUser(ctx, username); err != nil {
		return "", fmt.Errorf("failed to ensure user: %w", err)
	}

	token, err := i.jwt.Generate(username)
	if err != nil {
		return "", err
	}

	slog.Info("User signed in", "username", username)
	return token, nil
}

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidUsername)
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("%w: must be %d characters or less", ErrInvalidUsername, MaxUsernameLength)
	}
	for _, r := range username {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("%w: must be printable without spaces", ErrInvalidUsername)
		}
	}
	return nil
}
