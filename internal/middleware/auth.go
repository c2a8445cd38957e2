// File: internal/middleware/auth.go
package middleware

import (
	"errors"

	"github.com/Schwifty101/arco-backend/internal/common"
	"github.com/Schwifty101/arco-backend/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates a Gin middleware that validates the bearer token
// through the identity backend and stashes the identity in the context. Token
// verification is entirely the backend's job; nothing is parsed locally.
func AuthMiddleware(backend identity.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := common.GetBearerToken(c)
		if token == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		idn, err := backend.GetUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrUnavailable) {
				logger.Warn("Identity backend unavailable during token validation", zap.Error(err))
				common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("The authentication service is temporarily unavailable. Please retry."))
				return
			}
			logger.Debug("Bearer token failed validation", zap.Error(err))
			common.RespondWithError(c, common.ErrInvalidToken)
			return
		}
		if idn == nil || idn.ID == "" {
			common.RespondWithError(c, common.ErrInvalidToken)
			return
		}

		c.Set(common.UserIDKey, idn.ID)
		c.Set(common.UserEmailKey, idn.Email)
		c.Set(common.AccessTokenKey, token)

		c.Next()
	}
}
