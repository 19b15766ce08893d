package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/labstack/echo/v4"
)

// ProfileService serves profiles and the user directory.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	Me(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error)
}

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users ProfileService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users ProfileService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
}

// GetUser returns another user's profile with follow counts
func (h *UserHandler) GetUser(c echo.Context) error {
	profile, err := h.users.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, profile)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.users.Me(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, profile)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

// SearchUsers matches users by name or location
func (h *UserHandler) SearchUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	users, err := h.users.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, users)
}
