package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/WillSeigler/Bookd/internal/gallery"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/labstack/echo/v4"
)

type PostService interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
}

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	posts PostService
	feed  FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts PostService, feed FeedService) *PostHandler {
	return &PostHandler{posts: posts, feed: feed}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/:id/gallery", h.GetGallery)
}

// CreatePost creates a new post for the session user
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, post)
}

// GetPost retrieves a single enriched post
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.feed.GetFeedPost(c.Request().Context(), viewerID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, newFeedItem(*post))
}

// GetGallery renders the media grid of a post as an HTML fragment. The
// lightbox is open on ?open=<index>, and ?key= replays one key press on it.
func (h *PostHandler) GetGallery(c echo.Context) error {
	post, err := h.feed.GetFeedPost(c.Request().Context(), viewerID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	open := -1
	if v := c.QueryParam("open"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			open = i
		}
	}

	view := gallery.NewView(post.ID.Hex(), post.MediaURLs, post.MediaTypes, open, gallery.Key(c.QueryParam("key")))
	var buf bytes.Buffer
	if err := gallery.Render(&buf, view); err != nil {
		return httpError(err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
