package handlers

import (
	"context"
	"net/http"

	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/labstack/echo/v4"
)

type LikeService interface {
	ToggleLike(ctx context.Context, postID, reactionType string) (bool, error)
}

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	likes LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike likes or unlikes a post. The body is optional.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	var req models.ToggleLikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	liked, err := h.likes.ToggleLike(c.Request().Context(), c.Param("id"), req.ReactionType)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"liked": liked})
}
