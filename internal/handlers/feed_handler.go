package handlers

import (
	"context"
	"net/http"

	"github.com/WillSeigler/Bookd/internal/gallery"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/session"
	"github.com/labstack/echo/v4"
)

// FeedService assembles enriched posts for a viewer.
type FeedService interface {
	GetUserFeed(ctx context.Context, viewerID string, limit, offset int) ([]models.FeedPost, error)
	GetUserPosts(ctx context.Context, viewerID, authorID string, limit, offset int) ([]models.FeedPost, error)
	GetFeedPost(ctx context.Context, viewerID, postID string) (*models.FeedPost, error)
}

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// FeedItem is a feed post with its media grid laid out.
type FeedItem struct {
	models.FeedPost
	Gallery *gallery.Grid `json:"gallery,omitempty"`
}

func newFeedItem(p models.FeedPost) FeedItem {
	item := FeedItem{FeedPost: p}
	if len(p.MediaURLs) > 0 {
		grid := gallery.NewGrid(p.MediaURLs, p.MediaTypes)
		item.Gallery = &grid
	}
	return item
}

func feedItems(posts []models.FeedPost) []FeedItem {
	items := make([]FeedItem, len(posts))
	for i, p := range posts {
		items[i] = newFeedItem(p)
	}
	return items
}

// GetFeed returns the session user's feed
func (h *FeedHandler) GetFeed(c echo.Context) error {
	limit, offset := page(c)
	posts, err := h.feed.GetUserFeed(c.Request().Context(), viewerID(c), limit, offset)
	if err != nil {
		return httpError(err)
	}
	return h.respondPage(c, posts, limit, offset)
}

// GetUserPosts returns one author's published posts
func (h *FeedHandler) GetUserPosts(c echo.Context) error {
	limit, offset := page(c)
	posts, err := h.feed.GetUserPosts(c.Request().Context(), viewerID(c), c.Param("id"), limit, offset)
	if err != nil {
		return httpError(err)
	}
	return h.respondPage(c, posts, limit, offset)
}

func (h *FeedHandler) respondPage(c echo.Context, posts []models.FeedPost, limit, offset int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": feedItems(posts),
		},
		"meta": echo.Map{
			"limit":  limit,
			"offset": offset,
			"count":  len(posts),
		},
	})
}

func viewerID(c echo.Context) string {
	id, _ := session.UserID(c.Request().Context())
	return id
}
