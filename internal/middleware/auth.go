package middleware

import (
	"net/http"
	"strings"

	"lmsplatform/internal/domain"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

type Authenticator interface {
	Authenticate(accessToken string) (domain.Session, error)
}

// AuthMiddleware resolves the bearer token into a domain.Session stored on the context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		session, err := auth.Authenticate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		SetSession(c, session)
		c.Next()
	}
}

// RequireRole lets only sessions with one of the roles through. Use after AuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := Session(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		for _, r := range roles {
			if s.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

func Session(c *gin.Context) (domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	s, ok := v.(domain.Session)
	return s, ok
}

// SetSession stores the session and its user id on the request context.
func SetSession(c *gin.Context, s domain.Session) {
	c.Set(sessionKey, s)
	c.Set("userId", s.UserID.String())
}
