package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/events"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/repositories"
	"github.com/WillSeigler/Bookd/internal/session"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

type PostService struct {
	posts  repositories.PostRepository
	events events.Publisher
	logger *slog.Logger
}

func NewPostService(posts repositories.PostRepository, publisher events.Publisher, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		events: orNop(publisher),
		logger: orDefault(logger).With("component", "posts"),
	}
}

// CreatePost normalizes req and stores it as a post authored by the session
// user. Store errors are returned unchanged.
func (s *PostService) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	userID, err := session.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	post, err := buildPost(userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Post created", "post_id", post.ID.Hex(), "user_id", userID, "media", len(post.MediaURLs))

	publish(ctx, s.events, s.logger, events.PostCreated{
		PostID:     post.ID.Hex(),
		AuthorID:   userID,
		MediaCount: len(post.MediaURLs),
		Tags:       post.Tags,
		CreatedAt:  post.CreatedAt,
	})
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetPostByID(ctx, id)
}

func buildPost(userID string, req models.CreatePostRequest) (*models.Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.Validation("content", "post content cannot be empty")
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLen {
		return nil, apperr.Validation("content", "post content must be 2000 characters or fewer")
	}

	urls, types := normalizeMedia(req.MediaURLs, req.MediaTypes)
	return &models.Post{
		UserID:      &userID,
		Content:     content,
		Title:       optional(req.Title),
		PostType:    models.PostTypeGeneral,
		Visibility:  models.VisibilityPublic,
		MediaURLs:   urls,
		MediaTypes:  types,
		Tags:        mergeTags(req.Tags, content),
		Location:    optional(req.Location),
		IsPublished: true,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// normalizeMedia keeps urls and types only as a matched pair. Without urls
// both are nil; a missing or mismatched type list is dropped.
func normalizeMedia(urls, types []string) ([]string, []string) {
	if len(urls) == 0 {
		return nil, nil
	}
	if len(types) != len(urls) {
		return urls, nil
	}
	return urls, types
}

// mergeTags combines explicit tags with #hashtags from content, lower-cased,
// without duplicates, in first-seen order.
func mergeTags(explicit []string, content string) []string {
	var tags []string
	seen := map[string]bool{}
	add := func(t string) {
		t = strings.ToLower(strings.TrimLeft(strings.TrimSpace(t), "#"))
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		tags = append(tags, t)
	}
	for _, t := range explicit {
		add(t)
	}
	for _, m := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	return tags
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
