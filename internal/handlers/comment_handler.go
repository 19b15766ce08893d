package handlers

import (
	"context"
	"net/http"

	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/labstack/echo/v4"
)

type CommentService interface {
	AddComment(ctx context.Context, postID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string, limit, offset int) ([]models.Comment, error)
}

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	comments CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.AddComment(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, comment)
}

// GetComments lists the comments on a post, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	limit, offset := page(c)
	comments, err := h.comments.ListComments(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, comments)
}
