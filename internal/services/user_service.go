package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/repositories"
	"github.com/WillSeigler/Bookd/internal/session"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// UserService serves profiles and the network directory.
type UserService struct {
	users  repositories.UserRepository
	graph  *GraphService
	logger *slog.Logger
}

func NewUserService(users repositories.UserRepository, graph *GraphService, logger *slog.Logger) *UserService {
	return &UserService{users: users, graph: graph, logger: orDefault(logger)}
}

// GetProfile loads userID with follower counts and whether the session
// user follows them.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		User:           *user,
		FollowersCount: s.graph.FollowerCount(ctx, user.ID),
		FollowingCount: s.graph.FollowingCount(ctx, user.ID),
		IsFollowing:    s.graph.IsFollowing(ctx, user.ID),
	}, nil
}

// Me is GetProfile for the session user.
func (s *UserService) Me(ctx context.Context) (*models.UserProfile, error) {
	userID, err := session.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// UpdateProfile applies the fields present in req to the session user.
func (s *UserService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	userID, err := session.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, apperr.Validation("full_name", "must not be empty")
		}
		user.FullName = name
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar stores an uploaded profile picture URL on the session user.
func (s *UserService) SetAvatar(ctx context.Context, url string) (*models.User, error) {
	return s.UpdateProfile(ctx, models.UpdateProfileRequest{AvatarURL: &url})
}

// Search lists users whose name or location matches query.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	users, err := s.users.SearchUsers(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}
