// File: internal/identity/client.go
package identity

import (
	"context"
	"errors"
)

// Identity is the raw user record owned by the identity backend. The ID is an
// opaque stable identifier; metadata carries provider-supplied display fields.
type Identity struct {
	ID           string
	Email        string
	UserMetadata map[string]interface{}
	AppMetadata  map[string]interface{}
}

// Session is an access/refresh token pair issued by the identity backend.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

// Client is the capability interface over the hosted identity backend.
// Credential storage, password hashing and token signing all live behind it;
// callers only orchestrate.
type Client interface {
	// SignUp registers a new email/password identity. The session may be nil
	// when the backend requires email verification before issuing tokens.
	SignUp(ctx context.Context, email, password string) (*Identity, *Session, error)
	// SignInWithPassword exchanges credentials for an identity and a session.
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, *Session, error)
	// GetUser validates an access token and returns the identity it belongs to.
	GetUser(ctx context.Context, accessToken string) (*Identity, error)
	// RefreshSession exchanges a refresh token for a new session.
	RefreshSession(ctx context.Context, refreshToken string) (*Identity, *Session, error)
	// ResetPasswordForEmail asks the backend to send a recovery link.
	ResetPasswordForEmail(ctx context.Context, email string) error
	// UpdatePassword sets a new password for the given identity.
	UpdatePassword(ctx context.Context, userID, newPassword string) error
}

// Error classes the orchestrator maps onto its own taxonomy. Rejected covers
// 4xx responses (bad credentials, expired tokens); Unavailable covers network
// failures, timeouts and 5xx responses and is safe to retry.
var (
	ErrRejected    = errors.New("identity backend rejected the request")
	ErrUnavailable = errors.New("identity backend unavailable")
)
