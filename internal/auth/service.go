// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"

	"github.com/Schwifty101/arco-backend/internal/audit"
	"github.com/Schwifty101/arco-backend/internal/common"
	"github.com/Schwifty101/arco-backend/internal/identity"
	"github.com/Schwifty101/arco-backend/internal/profile"
	"github.com/Schwifty101/arco-backend/internal/whitelist"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fixed response messages. The reset-request message is identical for existing
// and unknown emails; account enumeration through this endpoint must stay
// impossible.
const (
	MsgPasswordResetRequested = "If an account with that email exists, a password reset link has been sent."
	MsgPasswordResetConfirmed = "Your password has been updated successfully."
	MsgSignedOut              = "Signed out successfully."
)

// Service is the authentication orchestrator. It owns no state of its own:
// credentials and tokens live in the identity backend, role and display data
// in the profile store.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Signin(ctx context.Context, email, password string) (*AuthResult, error)
	ProcessOAuthCallback(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) *MessageResult
	ConfirmPasswordReset(ctx context.Context, accessToken, newPassword string) (*MessageResult, error)
	Signout(ctx context.Context, userID uuid.UUID) *MessageResult
	CurrentProfile(ctx context.Context, userID uuid.UUID, email string) (*UserPayload, error)
}

type service struct {
	backend  identity.Client
	profiles profile.Repository
	admins   whitelist.Lookup
	recorder audit.Recorder
	logger   *zap.Logger
}

var _ Service = (*service)(nil)

// NewService creates the authentication orchestrator.
func NewService(
	backend identity.Client,
	profiles profile.Repository,
	admins whitelist.Lookup,
	recorder audit.Recorder,
	logger *zap.Logger,
) Service {
	return &service{
		backend:  backend,
		profiles: profiles,
		admins:   admins,
		recorder: recorder,
		logger:   logger.Named("AuthService"),
	}
}

// Signup registers a new client account through the email/password channel.
// Whitelisted admin emails are rejected before any backend call: admins only
// authenticate through OAuth.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if s.admins.IsAdmin(req.Email) {
		s.logger.Warn("Whitelisted admin email attempted password signup", zap.String("email", req.Email))
		return nil, common.ErrChannelViolation
	}

	idn, session, err := s.backend.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Info("Identity backend rejected signup", zap.Error(err))
		return nil, mapBackendErr(err, common.ErrInvalidCredentials)
	}
	if idn == nil || idn.ID == "" {
		return nil, common.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(idn.ID)
	if err != nil {
		s.logger.Error("Identity backend returned a malformed user ID", zap.String("id", idn.ID))
		return nil, common.ErrInternalServer.WithDetails("Unexpected identity record.")
	}

	prof, _, err := s.getOrCreateProfile(ctx, userID, req.FullName, common.RoleClient, req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UserID:     userID,
		Action:     audit.ActionSignup,
		EntityType: "user_profile",
		EntityID:   userID.String(),
		Metadata:   map[string]interface{}{"provider": "email"},
	})

	s.logger.Info("User signed up", zap.String("userID", userID.String()))
	return s.result(idn, prof, session), nil
}

// Signin authenticates an existing email/password account. The profile must
// already exist; signin never provisions.
func (s *service) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	idn, session, err := s.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Info("Identity backend rejected signin", zap.Error(err))
		return nil, mapBackendErr(err, common.ErrInvalidCredentials)
	}
	if idn == nil || idn.ID == "" || session == nil {
		return nil, common.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(idn.ID)
	if err != nil {
		s.logger.Error("Identity backend returned a malformed user ID", zap.String("id", idn.ID))
		return nil, common.ErrInternalServer.WithDetails("Unexpected identity record.")
	}

	prof, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrProfileNotFound
		}
		s.logger.Error("Failed to load profile during signin", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not load the user profile.")
	}

	s.escalateIfWhitelisted(ctx, idn.Email, prof)

	s.recorder.Record(audit.Entry{
		UserID:     userID,
		Action:     audit.ActionSignin,
		EntityType: "user_profile",
		EntityID:   userID.String(),
		Metadata:   map[string]interface{}{"provider": "email"},
	})

	s.logger.Info("User signed in", zap.String("userID", userID.String()))
	return s.result(idn, prof, session), nil
}

// ProcessOAuthCallback validates the token pair minted by the OAuth flow and
// provisions a profile on first login. It is a pass-through validator, not an
// issuer: the same tokens go back out.
func (s *service) ProcessOAuthCallback(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error) {
	idn, err := s.backend.GetUser(ctx, accessToken)
	if err != nil {
		s.logger.Info("OAuth access token failed validation", zap.Error(err))
		return nil, mapBackendErr(err, common.ErrInvalidToken)
	}
	if idn == nil || idn.ID == "" || idn.Email == "" {
		return nil, common.ErrInvalidToken
	}

	userID, err := uuid.Parse(idn.ID)
	if err != nil {
		s.logger.Error("Identity backend returned a malformed user ID", zap.String("id", idn.ID))
		return nil, common.ErrInternalServer.WithDetails("Unexpected identity record.")
	}

	prof, err := s.profiles.FindByID(ctx, userID)
	switch {
	case err == nil:
		s.escalateIfWhitelisted(ctx, idn.Email, prof)
	case errors.Is(err, common.ErrNotFound):
		// First login through this channel.
		userType := common.RoleClient
		if s.admins.IsAdmin(idn.Email) {
			userType = common.RoleAdmin
		}
		fullName := displayNameFromMetadata(idn.UserMetadata, idn.Email)
		var created bool
		prof, created, err = s.getOrCreateProfile(ctx, userID, fullName, userType, nil)
		if err != nil {
			return nil, err
		}
		if !created {
			// Lost a provisioning race: the winner's row is authoritative,
			// but the escalation policy still applies to it.
			s.escalateIfWhitelisted(ctx, idn.Email, prof)
		}
	default:
		s.logger.Error("Failed to load profile during OAuth callback", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not load the user profile.")
	}

	s.recorder.Record(audit.Entry{
		UserID:     userID,
		Action:     audit.ActionOAuthLogin,
		EntityType: "user_profile",
		EntityID:   userID.String(),
		Metadata:   map[string]interface{}{"provider": "google"},
	})

	s.logger.Info("OAuth login processed", zap.String("userID", userID.String()))
	return &AuthResult{
		User: UserPayload{
			ID:       idn.ID,
			Email:    idn.Email,
			FullName: prof.FullName,
			UserType: prof.UserType,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken exchanges a refresh token for a new session. The profile must
// already exist, mirroring Signin. No whitelist check runs on this path:
// escalation happens only on explicit re-authentication or profile fetch.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	idn, session, err := s.backend.RefreshSession(ctx, refreshToken)
	if err != nil {
		s.logger.Info("Refresh token failed validation", zap.Error(err))
		return nil, mapBackendErr(err, common.ErrInvalidToken)
	}
	if idn == nil || idn.ID == "" || session == nil {
		return nil, common.ErrInvalidToken
	}

	userID, err := uuid.Parse(idn.ID)
	if err != nil {
		s.logger.Error("Identity backend returned a malformed user ID", zap.String("id", idn.ID))
		return nil, common.ErrInternalServer.WithDetails("Unexpected identity record.")
	}

	prof, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrProfileNotFound
		}
		s.logger.Error("Failed to load profile during refresh", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not load the user profile.")
	}

	return s.result(idn, prof, session), nil
}

// RequestPasswordReset asks the backend to send a recovery link. The response
// is the same whether or not the email exists, and whether or not the backend
// errored; failures are logged internally only.
func (s *service) RequestPasswordReset(ctx context.Context, email string) *MessageResult {
	if err := s.backend.ResetPasswordForEmail(ctx, email); err != nil {
		s.logger.Warn("Password reset request failed upstream", zap.Error(err))
	}
	return &MessageResult{Message: MsgPasswordResetRequested}
}

// ConfirmPasswordReset validates the recovery token and sets the new password.
func (s *service) ConfirmPasswordReset(ctx context.Context, accessToken, newPassword string) (*MessageResult, error) {
	idn, err := s.backend.GetUser(ctx, accessToken)
	if err != nil {
		s.logger.Info("Password reset token failed validation", zap.Error(err))
		return nil, mapBackendErr(err, common.ErrInvalidToken)
	}
	if idn == nil || idn.ID == "" {
		return nil, common.ErrInvalidToken
	}

	if err := s.backend.UpdatePassword(ctx, idn.ID, newPassword); err != nil {
		s.logger.Error("Identity backend rejected password update", zap.Error(err), zap.String("userID", idn.ID))
		return nil, mapBackendErr(err, common.ErrPasswordUpdate)
	}

	if userID, parseErr := uuid.Parse(idn.ID); parseErr == nil {
		s.recorder.Record(audit.Entry{
			UserID:     userID,
			Action:     audit.ActionPasswordReset,
			EntityType: "user_profile",
			EntityID:   idn.ID,
		})
	}

	s.logger.Info("Password reset confirmed", zap.String("userID", idn.ID))
	return &MessageResult{Message: MsgPasswordResetConfirmed}, nil
}

// Signout records the event. Session invalidation is the caller's business:
// the transport discards its tokens.
func (s *service) Signout(ctx context.Context, userID uuid.UUID) *MessageResult {
	s.recorder.Record(audit.Entry{
		UserID:     userID,
		Action:     audit.ActionSignout,
		EntityType: "user_profile",
		EntityID:   userID.String(),
	})
	return &MessageResult{Message: MsgSignedOut}
}

// CurrentProfile returns the stored profile for an authenticated identity,
// applying the same escalation policy as the interactive login paths.
func (s *service) CurrentProfile(ctx context.Context, userID uuid.UUID, email string) (*UserPayload, error) {
	prof, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrProfileNotFound
		}
		s.logger.Error("Failed to load profile", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not load the user profile.")
	}

	s.escalateIfWhitelisted(ctx, email, prof)

	return &UserPayload{
		ID:       userID.String(),
		Email:    email,
		FullName: prof.FullName,
		UserType: prof.UserType,
	}, nil
}

// getOrCreateProfile provisions a UserProfile (and, for clients, its
// ClientProfile) idempotently. The store's primary-key constraint is the real
// guard against duplicate first logins: a conflict means another request won
// the race, so the row is re-fetched instead of failing the login.
func (s *service) getOrCreateProfile(ctx context.Context, userID uuid.UUID, fullName, userType string, phoneNumber *string) (*profile.UserProfile, bool, error) {
	newProfile := &profile.UserProfile{
		ID:          userID,
		FullName:    fullName,
		UserType:    userType,
		PhoneNumber: phoneNumber,
	}
	var clientProfile *profile.ClientProfile
	if userType == common.RoleClient {
		clientProfile = &profile.ClientProfile{}
	}

	err := s.profiles.Create(ctx, newProfile, clientProfile)
	if err == nil {
		s.logger.Info("Provisioned user profile",
			zap.String("userID", userID.String()), zap.String("userType", userType))
		return newProfile, true, nil
	}

	if errors.Is(err, common.ErrConflict) {
		existing, findErr := s.profiles.FindByID(ctx, userID)
		if findErr != nil {
			s.logger.Error("Profile conflict but re-fetch failed", zap.Error(findErr), zap.String("userID", userID.String()))
			return nil, false, common.ErrProvisioningFailed
		}
		return existing, false, nil
	}

	s.logger.Error("Failed to provision user profile", zap.Error(err), zap.String("userID", userID.String()))
	return nil, false, common.ErrProvisioningFailed
}

// escalateIfWhitelisted lazily raises a whitelisted user to admin. The write
// is idempotent across concurrent requests, and a failed write keeps the
// pre-escalation role without failing the operation.
func (s *service) escalateIfWhitelisted(ctx context.Context, email string, prof *profile.UserProfile) {
	if prof.UserType == common.RoleAdmin || !s.admins.IsAdmin(email) {
		return
	}
	if err := s.profiles.UpdateUserType(ctx, prof.ID, common.RoleAdmin); err != nil {
		s.logger.Debug("Role escalation write failed, keeping stored role",
			zap.Error(err), zap.String("userID", prof.ID.String()))
		return
	}
	prof.UserType = common.RoleAdmin
}

func (s *service) result(idn *identity.Identity, prof *profile.UserProfile, session *identity.Session) *AuthResult {
	res := &AuthResult{
		User: UserPayload{
			ID:       idn.ID,
			Email:    idn.Email,
			FullName: prof.FullName,
			UserType: prof.UserType,
		},
	}
	if session != nil {
		res.AccessToken = session.AccessToken
		res.RefreshToken = session.RefreshToken
	}
	return res
}

// mapBackendErr translates identity client error classes into the API
// taxonomy. Timeouts and outages are retryable server faults; everything else
// becomes the caller-supplied generic client fault so backend detail never
// leaks.
func mapBackendErr(err error, rejected *common.APIError) error {
	if errors.Is(err, identity.ErrUnavailable) {
		return common.ErrServiceUnavailable.WithDetails("The authentication service is temporarily unavailable. Please retry.")
	}
	return rejected
}

// displayNameFromMetadata derives a display name from provider metadata,
// preferring full_name, then name, then the email itself.
func displayNameFromMetadata(metadata map[string]interface{}, email string) string {
	for _, key := range []string{"full_name", "name"} {
		if v, ok := metadata[key].(string); ok && v != "" {
			return v
		}
	}
	return email
}
