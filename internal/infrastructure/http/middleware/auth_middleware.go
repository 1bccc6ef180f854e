package middleware

import (
	"errors"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "github.com/groupflow-app/groupflow/errors"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/pkg/jwt"
)

// callerContextKey is the echo context key holding the verified caller
const callerContextKey = "caller"

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets the verified CallerIdentity into the request context. Session issuance
// happens elsewhere; by this point the token is the whole identity contract.
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return writeAppError(c, apperrors.ErrUnauthenticated())
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, gojwt.ErrTokenExpired) {
					return writeAppError(c, apperrors.ErrTokenExpired())
				}
				return writeAppError(c, apperrors.ErrInvalidToken())
			}

			c.Set(callerContextKey, entities.CallerIdentity{
				UserID:      claims.UserID,
				DisplayName: claims.Name,
			})

			return next(c)
		}
	}
}

// CallerFromContext retrieves the verified caller set by EchoAuth
func CallerFromContext(c echo.Context) (entities.CallerIdentity, bool) {
	caller, ok := c.Get(callerContextKey).(entities.CallerIdentity)
	return caller, ok
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	// Try cookie as fallback
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}

func writeAppError(c echo.Context, appErr apperrors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
