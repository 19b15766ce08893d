package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/events"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/repositories"
	"github.com/WillSeigler/Bookd/internal/session"
)

// GraphService reads and mutates follow edges. Read-only queries used for
// display fail open: errors are logged and a zero value is returned.
type GraphService struct {
	follows repositories.FollowRepository
	users   repositories.UserRepository
	events  events.Publisher
	logger  *slog.Logger
}

func NewGraphService(follows repositories.FollowRepository, users repositories.UserRepository, publisher events.Publisher, logger *slog.Logger) *GraphService {
	return &GraphService{
		follows: follows,
		users:   users,
		events:  orNop(publisher),
		logger:  orDefault(logger).With("component", "graph"),
	}
}

// ToggleFollow flips the session user's follow edge toward targetUserID and
// returns the resulting state.
func (s *GraphService) ToggleFollow(ctx context.Context, targetUserID string) (bool, error) {
	viewerID, err := session.RequireUserID(ctx)
	if err != nil {
		return false, err
	}

	targetUserID = strings.TrimSpace(targetUserID)
	if targetUserID == "" {
		return false, apperr.Validation("user_id", "target user is required")
	}
	if targetUserID == viewerID {
		return false, apperr.Validation("user_id", "you cannot follow yourself")
	}
	if _, err := s.users.GetUserByID(ctx, targetUserID); err != nil {
		return false, err
	}

	following, err := s.follows.ToggleUserFollow(ctx, viewerID, targetUserID)
	if err != nil {
		return false, err
	}

	publish(ctx, s.events, s.logger, events.FollowToggled{
		FollowerID: viewerID,
		TargetID:   targetUserID,
		Following:  following,
		At:         time.Now().UTC(),
	})
	return following, nil
}

// IsFollowing reports whether the session user actively follows targetUserID.
// Anonymous callers and store errors yield false.
func (s *GraphService) IsFollowing(ctx context.Context, targetUserID string) bool {
	viewerID, ok := session.UserID(ctx)
	if !ok || targetUserID == "" || targetUserID == viewerID {
		return false
	}
	following, err := s.follows.IsFollowing(ctx, viewerID, targetUserID)
	if err != nil {
		s.logger.WarnContext(ctx, "Error checking follow status", "target_user_id", targetUserID, "error", err)
		return false
	}
	return following
}

// FollowingIDs returns the ids of users userID actively follows.
func (s *GraphService) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return s.follows.GetFollowingIDs(ctx, userID)
}

func (s *GraphService) FollowerCount(ctx context.Context, userID string) int64 {
	n, err := s.follows.GetFollowersCount(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "Error getting follower count", "user_id", userID, "error", err)
		return 0
	}
	return n
}

func (s *GraphService) FollowingCount(ctx context.Context, userID string) int64 {
	n, err := s.follows.GetFollowingCount(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "Error getting following count", "user_id", userID, "error", err)
		return 0
	}
	return n
}

// Followers lists the users following userID, newest edge first.
func (s *GraphService) Followers(ctx context.Context, userID string, limit int) []models.UserSummary {
	users, err := s.follows.GetFollowers(ctx, userID, listLimit(limit))
	if err != nil {
		s.logger.WarnContext(ctx, "Error getting followers", "user_id", userID, "error", err)
		return []models.UserSummary{}
	}
	return summaries(users)
}

// Following lists the users userID follows, newest edge first.
func (s *GraphService) Following(ctx context.Context, userID string, limit int) []models.UserSummary {
	users, err := s.follows.GetFollowing(ctx, userID, listLimit(limit))
	if err != nil {
		s.logger.WarnContext(ctx, "Error getting following", "user_id", userID, "error", err)
		return []models.UserSummary{}
	}
	return summaries(users)
}

// MutualFollowers returns users who follow both the session user and
// targetUserID. The session user's followers are resolved to an id list
// first, then used to filter the target's followers.
func (s *GraphService) MutualFollowers(ctx context.Context, targetUserID string) ([]models.UserSummary, error) {
	viewerID, err := session.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	viewerFollowers, err := s.follows.GetFollowerIDs(ctx, viewerID)
	if err != nil {
		s.logger.WarnContext(ctx, "Error getting mutual followers", "target_user_id", targetUserID, "error", err)
		return []models.UserSummary{}, nil
	}

	users, err := s.follows.GetFollowersAmong(ctx, targetUserID, viewerFollowers)
	if err != nil {
		s.logger.WarnContext(ctx, "Error getting mutual followers", "target_user_id", targetUserID, "error", err)
		return []models.UserSummary{}, nil
	}
	return summaries(users), nil
}

func listLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}

func summaries(users []models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
