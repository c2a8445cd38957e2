// File: internal/auth/handler_test.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Schwifty101/arco-backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockService is a function-field mock of Service for transport tests.
type mockService struct {
	signupFn         func(ctx context.Context, req SignupRequest) (*AuthResult, error)
	signinFn         func(ctx context.Context, email, password string) (*AuthResult, error)
	oauthFn          func(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error)
	refreshFn        func(ctx context.Context, refreshToken string) (*AuthResult, error)
	resetRequestFn   func(ctx context.Context, email string) *MessageResult
	resetConfirmFn   func(ctx context.Context, accessToken, newPassword string) (*MessageResult, error)
	signoutFn        func(ctx context.Context, userID uuid.UUID) *MessageResult
	currentProfileFn func(ctx context.Context, userID uuid.UUID, email string) (*UserPayload, error)
}

func (m *mockService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	return m.signupFn(ctx, req)
}

func (m *mockService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	return m.signinFn(ctx, email, password)
}

func (m *mockService) ProcessOAuthCallback(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error) {
	return m.oauthFn(ctx, accessToken, refreshToken)
}

func (m *mockService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	return m.refreshFn(ctx, refreshToken)
}

func (m *mockService) RequestPasswordReset(ctx context.Context, email string) *MessageResult {
	return m.resetRequestFn(ctx, email)
}

func (m *mockService) ConfirmPasswordReset(ctx context.Context, accessToken, newPassword string) (*MessageResult, error) {
	return m.resetConfirmFn(ctx, accessToken, newPassword)
}

func (m *mockService) Signout(ctx context.Context, userID uuid.UUID) *MessageResult {
	return m.signoutFn(ctx, userID)
}

func (m *mockService) CurrentProfile(ctx context.Context, userID uuid.UUID, email string) (*UserPayload, error) {
	return m.currentProfileFn(ctx, userID, email)
}

var registerValidatorsOnce sync.Once

// passAuthMW injects a fixed identity the way the bearer middleware would.
func passAuthMW(userID uuid.UUID, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(common.UserIDKey, userID.String())
		c.Set(common.UserEmailKey, email)
		c.Next()
	}
}

func setupRouter(t *testing.T, svc Service, authMW gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			require.NoError(t, RegisterValidators(v))
		}
	})

	router := gin.New()
	handler := NewHandler(svc, zap.NewNop())
	if authMW == nil {
		authMW = passAuthMW(uuid.New(), "someone@x.com")
	}
	handler.RegisterRoutes(router.Group("/api/v1"), authMW)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authResultFixture() *AuthResult {
	return &AuthResult{
		User: UserPayload{
			ID:       "11111111-1111-1111-1111-111111111111",
			Email:    "jane@x.com",
			FullName: "Jane Doe",
			UserType: common.RoleClient,
		},
		AccessToken:  "at",
		RefreshToken: "rt",
	}
}

func TestHandlerSignup_Created(t *testing.T) {
	svc := &mockService{
		signupFn: func(_ context.Context, req SignupRequest) (*AuthResult, error) {
			assert.Equal(t, "jane@x.com", req.Email)
			assert.Equal(t, "Jane Doe", req.FullName)
			return authResultFixture(), nil
		},
	}
	router := setupRouter(t, svc, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", gin.H{
		"email":    "jane@x.com",
		"password": "Abcdefg1",
		"fullName": "Jane Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp common.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)

	data := resp.Data.(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "jane@x.com", user["email"])
	assert.Equal(t, "Jane Doe", user["fullName"])
	assert.Equal(t, common.RoleClient, user["userType"])
	assert.Equal(t, "at", data["accessToken"])
	assert.Equal(t, "rt", data["refreshToken"])
}

func TestHandlerSignup_WeakPasswordFailsValidation(t *testing.T) {
	svc := &mockService{
		signupFn: func(context.Context, SignupRequest) (*AuthResult, error) {
			t.Fatal("service must not run on validation failure")
			return nil, nil
		},
	}
	router := setupRouter(t, svc, nil)

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1"},
		{"no uppercase", "abcdefg1"},
		{"no digit", "Abcdefgh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", gin.H{
				"email":    "jane@x.com",
				"password": tt.password,
				"fullName": "Jane Doe",
			})
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestHandlerSignup_ChannelViolation(t *testing.T) {
	svc := &mockService{
		signupFn: func(context.Context, SignupRequest) (*AuthResult, error) {
			return nil, common.ErrChannelViolation
		},
	}
	router := setupRouter(t, svc, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", gin.H{
		"email":    "partner@arco.law",
		"password": "Abcdefg1",
		"fullName": "Partner",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CHANNEL_VIOLATION")
}

func TestHandlerSignin_OK(t *testing.T) {
	svc := &mockService{
		signinFn: func(_ context.Context, email, password string) (*AuthResult, error) {
			assert.Equal(t, "jane@x.com", email)
			assert.Equal(t, "Abcdefg1", password)
			return authResultFixture(), nil
		},
	}
	router := setupRouter(t, svc, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signin", gin.H{
		"email":    "jane@x.com",
		"password": "Abcdefg1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerSignin_BadCredentials(t *testing.T) {
	svc := &mockService{
		signinFn: func(context.Context, string, string) (*AuthResult, error) {
			return nil, common.ErrInvalidCredentials
		},
	}
	router := setupRouter(t, svc, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signin", gin.H{
		"email":    "jane@x.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestHandlerOAuthCallback_RequiresBothTokens(t *testing.T) {
	svc := &mockService{
		oauthFn: func(context.Context, string, string) (*AuthResult, error) {
			t.Fatal("service must not run on validation failure")
			return nil, nil
		},
	}
	router := setupRouter(t, svc, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/oauth/callback", gin.H{
		"accessToken": "at",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandlerRefresh_OK(t *testing.T) {
	svc := &mockService{
		refreshFn: func(_ context.Context, refreshToken string) (*AuthResult, error) {
			assert.Equal(t, "rt-old", refreshToken)
			return authResultFixture(), nil
		},
	}
	router := setupRouter(t, svc, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/refresh", gin.H{
		"refreshToken": "rt-old",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerPasswordResetRequest_AlwaysOK(t *testing.T) {
	svc := &mockService{
		resetRequestFn: func(_ context.Context, email string) *MessageResult {
			return &MessageResult{Message: MsgPasswordResetRequested}
		},
	}
	router := setupRouter(t, svc, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/password-reset/request", gin.H{
		"email": "anyone@x.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgPasswordResetRequested)
}

func TestHandlerPasswordResetConfirm_OK(t *testing.T) {
	svc := &mockService{
		resetConfirmFn: func(_ context.Context, accessToken, newPassword string) (*MessageResult, error) {
			assert.Equal(t, "recovery-token", accessToken)
			assert.Equal(t, "Newpass12", newPassword)
			return &MessageResult{Message: MsgPasswordResetConfirmed}, nil
		},
	}
	router := setupRouter(t, svc, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/password-reset/confirm", gin.H{
		"accessToken": "recovery-token",
		"newPassword": "Newpass12",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerMe_OK(t *testing.T) {
	userID := uuid.New()
	svc := &mockService{
		currentProfileFn: func(_ context.Context, id uuid.UUID, email string) (*UserPayload, error) {
			assert.Equal(t, userID, id)
			assert.Equal(t, "jane@x.com", email)
			return &UserPayload{
				ID:       userID.String(),
				Email:    email,
				FullName: "Jane Doe",
				UserType: common.RoleClient,
			}, nil
		},
	}
	router := setupRouter(t, svc, passAuthMW(userID, "jane@x.com"))

	w := doJSON(router, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")
}

func TestHandlerMe_Unauthenticated(t *testing.T) {
	svc := &mockService{
		currentProfileFn: func(context.Context, uuid.UUID, string) (*UserPayload, error) {
			t.Fatal("service must not run without identity")
			return nil, nil
		},
	}
	rejectMW := func(c *gin.Context) {
		common.RespondWithError(c, common.ErrInvalidToken)
	}
	router := setupRouter(t, svc, rejectMW)

	w := doJSON(router, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerSignout_OK(t *testing.T) {
	userID := uuid.New()
	svc := &mockService{
		signoutFn: func(_ context.Context, id uuid.UUID) *MessageResult {
			assert.Equal(t, userID, id)
			return &MessageResult{Message: MsgSignedOut}
		},
	}
	router := setupRouter(t, svc, passAuthMW(userID, "jane@x.com"))

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgSignedOut)
}
