// File: internal/auth/model.go
package auth

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// SignupRequest defines the structure for email/password signup requests.
type SignupRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=72,strongpassword"`
	FullName    string  `json:"fullName" binding:"required,max=150"`
	PhoneNumber *string `json:"phoneNumber,omitempty" binding:"omitempty,max=32"`
}

// SigninRequest defines the structure for email/password signin requests.
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OAuthCallbackRequest carries the token pair handed back by the OAuth flow.
type OAuthCallbackRequest struct {
	AccessToken  string `json:"accessToken" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshRequest defines the structure for refresh token requests.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// PasswordResetRequest asks for a recovery link.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest sets a new password using a recovery token.
type PasswordResetConfirmRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72,strongpassword"`
}

// UserPayload is the uniform user shape returned by every token-bearing
// operation. Callers may rely on all four fields being present.
type UserPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	UserType string `json:"userType"`
}

// AuthResult bundles the user payload with its session pair. Tokens are empty
// strings when the backend withheld a session (e.g. pending email verification).
type AuthResult struct {
	User         UserPayload `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// MessageResult is the payload of audit-only and anti-enumeration operations.
type MessageResult struct {
	Message string `json:"message"`
}

// RegisterValidators installs the custom binding validators used by the auth
// DTOs on the given validator engine.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		var hasUpper, hasLower, hasDigit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			case unicode.IsDigit(r):
				hasDigit = true
			}
		}
		return hasUpper && hasLower && hasDigit
	})
}
