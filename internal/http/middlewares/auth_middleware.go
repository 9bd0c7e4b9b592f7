package middlewares

import (
	"net/http"
	"strings"

	"github.com/ftsilveira/dailydiet/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

const (
	ctxSubjectKey = "auth.subject"

	// browser clients get the token as a cookie, everyone else uses the header
	TokenCookieName = "dd_token"
)

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)

		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing or invalid access token",
				},
			})
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Invalid or expired access token",
				},
			})
			return
		}

		// Stash the verified subject on the context before any handler
		// touches request data
		c.Set(ctxSubjectKey, claims.Subject)

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	}

	cookie, err := c.Cookie(TokenCookieName)

	if err != nil {
		return ""
	}

	return cookie
}

// Helper so handlers don't need to know the magic key.

func SubjectFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxSubjectKey)
	if !ok {
		return "", false
	}
	subject, ok := v.(string)
	return subject, ok
}
