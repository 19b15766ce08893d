package middleware

import (
	"net/http"
	"strings"

	"github.com/WillSeigler/Bookd/internal/session"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "user_id"

// JWTAuthMiddleware requires a bearer token. Locally issued session tokens
// are checked first; anything else is tried as a Firebase ID token when
// firebaseUsers is non-nil. The user id lands on the request context.
func JWTAuthMiddleware(secret string, firebaseUsers FirebaseUserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			tokenString := parts[1]

			userID := ""
			if claims, err := session.ParseToken(secret, tokenString); err == nil {
				userID = claims.UserID
			} else if firebaseUsers != nil {
				id, ferr := firebaseUserID(c, firebaseUsers, tokenString)
				if ferr != nil {
					return ferr
				}
				userID = id
			} else {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(session.WithUserID(c.Request().Context(), userID)))
			return next(c)
		}
	}
}
