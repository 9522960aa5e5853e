package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/opsdash/internal/domain/auth"
	apperrors "github.com/yanqian/opsdash/pkg/errors"
)

// authMiddleware hands the bearer token, possibly empty, to the configured authorizer.
func authMiddleware(authorizer auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
				return
			}
			token = strings.TrimSpace(parts[1])
		}
		claims, err := authorizer.Authorize(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			code := apperrors.CodeInvalidToken
			if !apperrors.IsCode(err, apperrors.CodeInvalidToken) {
				status = http.StatusInternalServerError
				code = "auth_failed"
			}
			message := apperrors.MessageOf(err)
			if message == "" {
				message = "authorization failed"
			}
			abortWithError(c, NewHTTPError(status, code, message, err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}
