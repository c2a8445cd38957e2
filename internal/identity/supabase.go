// File: internal/identity/supabase.go
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Schwifty101/arco-backend/internal/config"

	"go.uber.org/zap"
)

// SupabaseClient implements Client against the Supabase GoTrue v1 REST API.
type SupabaseClient struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	httpClient     *http.Client
	logger         *zap.Logger
}

var _ Client = (*SupabaseClient)(nil)

// NewSupabaseClient creates a client for the project's auth endpoint. The
// per-call timeout bounds every request to the backend.
func NewSupabaseClient(cfg *config.Config, logger *zap.Logger) (*SupabaseClient, error) {
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("supabase base URL is required")
	}
	return &SupabaseClient{
		baseURL:        strings.TrimRight(cfg.SupabaseURL, "/") + "/auth/v1",
		anonKey:        cfg.SupabaseAnonKey,
		serviceRoleKey: cfg.SupabaseServiceRoleKey,
		httpClient:     &http.Client{Timeout: cfg.SupabaseTimeout},
		logger:         logger.Named("SupabaseClient"),
	}, nil
}

// wire shapes for GoTrue responses. /signup returns a bare user when email
// confirmation is pending, and a session with an embedded user otherwise.
type gotrueUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
}

type gotrueSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	User         *gotrueUser `json:"user"`
	// Bare-user fields, populated when the response is a user object.
	ID    string `json:"id"`
	Email string `json:"email"`
}

type gotrueError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func (e *gotrueError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return e.Error
	}
}

func (c *SupabaseClient) SignUp(ctx context.Context, email, password string) (*Identity, *Session, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/signup", c.anonKey, "", body)
	if err != nil {
		return nil, nil, err
	}
	return decodeUserAndSession(raw)
}

func (c *SupabaseClient) SignInWithPassword(ctx context.Context, email, password string) (*Identity, *Session, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.anonKey, "", body)
	if err != nil {
		return nil, nil, err
	}
	return decodeUserAndSession(raw)
}

func (c *SupabaseClient) GetUser(ctx context.Context, accessToken string) (*Identity, error) {
	raw, err := c.do(ctx, http.MethodGet, "/user", c.anonKey, accessToken, nil)
	if err != nil {
		return nil, err
	}
	var u gotrueUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decoding user response: %w", err)
	}
	return toIdentity(&u), nil
}

func (c *SupabaseClient) RefreshSession(ctx context.Context, refreshToken string) (*Identity, *Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	raw, err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", c.anonKey, "", body)
	if err != nil {
		return nil, nil, err
	}
	return decodeUserAndSession(raw)
}

func (c *SupabaseClient) ResetPasswordForEmail(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	_, err := c.do(ctx, http.MethodPost, "/recover", c.anonKey, "", body)
	return err
}

// UpdatePassword uses the admin endpoint so a recovery-token holder does not
// need a full session to set a new password.
func (c *SupabaseClient) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	key := c.serviceRoleKey
	if key == "" {
		key = c.anonKey
	}
	body := map[string]string{"password": newPassword}
	_, err := c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(userID), key, "", body)
	return err
}

// do issues one request against the backend. Network errors and 5xx map to
// ErrUnavailable; 4xx maps to ErrRejected with the backend's message attached
// for logs only, never for API responses.
func (c *SupabaseClient) do(ctx context.Context, method, path, apiKey, bearer string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Identity backend request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		c.logger.Warn("Identity backend server error",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		var ge gotrueError
		_ = json.Unmarshal(raw, &ge)
		c.logger.Debug("Identity backend rejected request",
			zap.String("path", path), zap.Int("status", resp.StatusCode), zap.String("msg", ge.text()))
		return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, ge.text())
	}
	return raw, nil
}

func decodeUserAndSession(raw []byte) (*Identity, *Session, error) {
	var s gotrueSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, nil, fmt.Errorf("decoding session response: %w", err)
	}

	if s.AccessToken != "" {
		if s.User == nil {
			return nil, nil, fmt.Errorf("%w: session response missing user", ErrRejected)
		}
		return toIdentity(s.User), &Session{
			AccessToken:  s.AccessToken,
			RefreshToken: s.RefreshToken,
			TokenType:    s.TokenType,
			ExpiresIn:    s.ExpiresIn,
		}, nil
	}

	// Bare user object: signup with email confirmation pending.
	if s.ID == "" {
		return nil, nil, fmt.Errorf("%w: response carries neither session nor user", ErrRejected)
	}
	var u gotrueUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, nil, fmt.Errorf("decoding user response: %w", err)
	}
	return toIdentity(&u), nil, nil
}

func toIdentity(u *gotrueUser) *Identity {
	return &Identity{
		ID:           u.ID,
		Email:        strings.ToLower(u.Email),
		UserMetadata: u.UserMetadata,
		AppMetadata:  u.AppMetadata,
	}
}
