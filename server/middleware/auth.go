package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zillusion/capsule/auth/authctx"
	"github.com/zillusion/capsule/auth/jwt"
	"github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/logger"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// Auth rejects requests without a valid bearer token. On success the claims
// are stored in the request context and the subject under UserIDKey.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, errors.Unauthorized("No token provided"))
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			abortWithError(c, errors.Wrap(err))
			return
		}

		ctx := authctx.Set(c.Request.Context(), claims)
		ctx = logger.ContextWithUserID(ctx, claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Set(UserIDKey, claims.Subject)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortWithError(c *gin.Context, appErr *errors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
