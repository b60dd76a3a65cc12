package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meetbook/backend/internal/auth"
	"github.com/meetbook/backend/pkg/response"
)

// Auth validates the session credential from the Authorization header or the
// session cookie and sets the principal in the gin context. A nil sessions
// store skips the revocation check.
func Auth(jwtService *auth.JWTService, sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(auth.SessionCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			response.Unauthorized(c, "missing session credential")
			c.Abort()
			return
		}

		claims, err := jwtService.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}
		if sessions != nil {
			revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				response.Internal(c, "session check failed")
				c.Abort()
				return
			}
			if revoked {
				response.Unauthorized(c, "session has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(auth.ContextUserID, claims.UserID)
		c.Set(auth.ContextOrgID, claims.OrganizationID)
		c.Set(auth.ContextUserEmail, claims.Email)
		c.Set(auth.ContextUserRole, claims.Role)
		c.Set(auth.ContextClaims, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
