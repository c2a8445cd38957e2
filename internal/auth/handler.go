// File: internal/auth/handler.go
package auth

import (
	"errors"

	"github.com/Schwifty101/arco-backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations. The bearer
// middleware guards only the two identity-bound endpoints.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signup)
		authGroup.POST("/signin", h.signin)
		authGroup.POST("/oauth/callback", h.oauthCallback)
		authGroup.POST("/refresh", h.refresh)
		authGroup.POST("/password-reset/request", h.passwordResetRequest)
		authGroup.POST("/password-reset/confirm", h.passwordResetConfirm)

		protected := authGroup.Group("")
		protected.Use(authMW)
		{
			protected.GET("/me", h.me)
			protected.POST("/signout", h.signout)
		}
	}
}

func (h *Handler) signup(c *gin.Context) {
	var req SignupRequest
	if !h.bind(c, &req, "Signup") {
		return
	}
	result, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Account created successfully.", result)
}

func (h *Handler) signin(c *gin.Context) {
	var req SigninRequest
	if !h.bind(c, &req, "Signin") {
		return
	}
	result, err := h.service.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Signed in successfully.", result)
}

func (h *Handler) oauthCallback(c *gin.Context) {
	var req OAuthCallbackRequest
	if !h.bind(c, &req, "OAuth callback") {
		return
	}
	result, err := h.service.ProcessOAuthCallback(c.Request.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "OAuth login processed successfully.", result)
}

func (h *Handler) refresh(c *gin.Context) {
	var req RefreshRequest
	if !h.bind(c, &req, "Refresh") {
		return
	}
	result, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Token refreshed successfully.", result)
}

func (h *Handler) passwordResetRequest(c *gin.Context) {
	var req PasswordResetRequest
	if !h.bind(c, &req, "Password reset request") {
		return
	}
	result := h.service.RequestPasswordReset(c.Request.Context(), req.Email)
	common.RespondOK(c, result.Message, result)
}

func (h *Handler) passwordResetConfirm(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if !h.bind(c, &req, "Password reset confirm") {
		return
	}
	result, err := h.service.ConfirmPasswordReset(c.Request.Context(), req.AccessToken, req.NewPassword)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, result.Message, result)
}

func (h *Handler) me(c *gin.Context) {
	userID, email, ok := h.identityFromContext(c)
	if !ok {
		return
	}
	payload, err := h.service.CurrentProfile(c.Request.Context(), userID, email)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", payload)
}

func (h *Handler) signout(c *gin.Context) {
	userID, _, ok := h.identityFromContext(c)
	if !ok {
		return
	}
	result := h.service.Signout(c.Request.Context(), userID)
	common.RespondOK(c, result.Message, result)
}

func (h *Handler) identityFromContext(c *gin.Context) (uuid.UUID, string, bool) {
	rawID := common.GetUserIDFromContext(c)
	if rawID == "" {
		h.logger.Error("Authenticated route reached without identity in context", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return uuid.Nil, "", false
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		h.logger.Error("Malformed identity ID in context", zap.String("id", rawID))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return uuid.Nil, "", false
	}
	return userID, common.GetUserEmailFromContext(c), true
}

func (h *Handler) bind(c *gin.Context, req interface{}, op string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn(op+": invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}
