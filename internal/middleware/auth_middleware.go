package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "focustimer/internal/errors"
)

const OwnerIDContextKey = "ownerID"

// TokenParser validates a bearer token and returns the owner it was issued to.
type TokenParser interface {
	ParseToken(token string) (string, *apperrors.APIError)
}

// Auth rejects requests without a valid owner token.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperrors.Unauthorized("missing authorization header"))
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			abort(c, apperrors.Unauthorized("invalid authorization format"))
			return
		}

		ownerID, apiErr := tokens.ParseToken(token)
		if apiErr != nil {
			abort(c, apiErr)
			return
		}

		c.Set(OwnerIDContextKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner, or "" when auth is disabled.
func OwnerID(c *gin.Context) string {
	return c.GetString(OwnerIDContextKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abort(c *gin.Context, apiErr *apperrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, apiErr.Envelope())
}
