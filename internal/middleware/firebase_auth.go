package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/labstack/echo/v4"
)

// FirebaseUserResolver maps a Firebase ID token to a local user.
type FirebaseUserResolver interface {
	ResolveFirebaseUser(ctx context.Context, idToken string) (*models.User, error)
}

func firebaseUserID(c echo.Context, resolver FirebaseUserResolver, idToken string) (string, error) {
	ctx := c.Request().Context()
	user, err := resolver.ResolveFirebaseUser(ctx, idToken)
	if err == nil {
		return user.ID, nil
	}
	if errors.Is(err, apperr.ErrUnauthenticated) {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
	}
	slog.ErrorContext(ctx, "Error resolving Firebase user", "error", err)
	return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve user")
}
