package middleware

import (
	"strings"

	"apostila-ai/backend/internal/models"
	"apostila-ai/backend/pkg/errors"
	"apostila-ai/backend/pkg/jwt"
	"apostila-ai/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the resolved models.Identity
const IdentityKey = "identity"

// Identity resolves who is asking. A valid bearer token supplies the student,
// a request without one falls back to defaults, and a bad token is rejected.
func Identity(tokens *jwt.Service, defaults models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || tokens == nil || !tokens.Enabled() {
			c.Set(IdentityKey, defaults)
			c.Next()
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.Error(errors.NewUnauthorizedError(errors.CodeUnauthorized, "Invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			logger.FromContext(c).Warn("rejected identity token", "error", err)
			c.Error(errors.NewUnauthorizedError(errors.CodeUnauthorized, "Invalid or expired token"))
			c.Abort()
			return
		}

		identity := models.Identity{Name: claims.Name, Email: claims.Email, Class: claims.Class}
		if identity.Class == "" {
			identity.Class = defaults.Class
		}

		c.Set("claims", claims)
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the identity set by Identity, or def when none was set
func IdentityFromContext(c *gin.Context, def models.Identity) models.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(models.Identity); ok {
			return identity
		}
	}
	return def
}
