package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/labstack/echo/v4"
)

// GraphService is the social graph surface FollowHandler needs.
type GraphService interface {
	ToggleFollow(ctx context.Context, targetUserID string) (bool, error)
	IsFollowing(ctx context.Context, targetUserID string) bool
	Followers(ctx context.Context, userID string, limit int) []models.UserSummary
	Following(ctx context.Context, userID string, limit int) []models.UserSummary
	MutualFollowers(ctx context.Context, targetUserID string) ([]models.UserSummary, error)
}

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph GraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph GraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.GET("/users/:id/follow", h.GetFollowStatus)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/mutual-followers", h.GetMutualFollowers)
}

// ToggleFollow follows the user, or unfollows when already following
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	following, err := h.graph.ToggleFollow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"following": following})
}

func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	following := h.graph.IsFollowing(c.Request().Context(), c.Param("id"))
	return success(c, http.StatusOK, echo.Map{"following": following})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return success(c, http.StatusOK, h.graph.Followers(c.Request().Context(), c.Param("id"), limit))
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return success(c, http.StatusOK, h.graph.Following(c.Request().Context(), c.Param("id"), limit))
}

// GetMutualFollowers lists users following both the session user and :id
func (h *FollowHandler) GetMutualFollowers(c echo.Context) error {
	users, err := h.graph.MutualFollowers(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, users)
}
