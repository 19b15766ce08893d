package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/WillSeigler/Bookd/internal/events"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/repositories"
	"github.com/WillSeigler/Bookd/internal/session"
)

type LikeService struct {
	likes  repositories.LikeRepository
	posts  repositories.PostRepository
	events events.Publisher
	logger *slog.Logger
}

func NewLikeService(likes repositories.LikeRepository, posts repositories.PostRepository, publisher events.Publisher, logger *slog.Logger) *LikeService {
	return &LikeService{
		likes:  likes,
		posts:  posts,
		events: orNop(publisher),
		logger: orDefault(logger).With("component", "likes"),
	}
}

// ToggleLike flips the session user's reaction on postID and returns whether
// the post is now liked. Callers reconcile optimistic UI with the result.
func (s *LikeService) ToggleLike(ctx context.Context, postID, reactionType string) (bool, error) {
	userID, err := session.RequireUserID(ctx)
	if err != nil {
		return false, err
	}

	reactionType = strings.TrimSpace(reactionType)
	if reactionType == "" {
		reactionType = models.DefaultReaction
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return false, err
	}

	liked, err := s.likes.ToggleLike(ctx, postID, userID, reactionType)
	if err != nil {
		return false, err
	}

	publish(ctx, s.events, s.logger, events.LikeToggled{
		PostID:       postID,
		UserID:       userID,
		ReactionType: reactionType,
		Liked:        liked,
		At:           time.Now().UTC(),
	})
	return liked, nil
}
