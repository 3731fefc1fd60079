package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go-employee/internal/shared/apperror"
	"go-employee/internal/shared/contextutil"
	"go-employee/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthMiddleware validates an HMAC signed bearer token and exposes its
// subject as the user id. An empty secret disables authentication.
func AuthMiddleware(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			response.AbortWithError(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		if err != nil || !token.Valid {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			response.AbortWithError(c, http.StatusUnauthorized, apperror.CodeUnauthorized, msg)
			return
		}

		userID, err := token.Claims.GetSubject()
		if err != nil || userID == "" {
			response.AbortWithError(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Subject not found in token")
			return
		}

		c.Set("user_id", userID)

		ctx := c.Request.Context()
		reqLogger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", userID))
		ctx = contextutil.WithUserID(ctx, userID)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
