package services

import (
	"context"
	"log/slog"

	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// FollowingResolver yields the user ids a user actively follows.
type FollowingResolver interface {
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// FeedService assembles viewer-specific post listings.
type FeedService struct {
	graph    FollowingResolver
	posts    repositories.PostRepository
	users    repositories.UserRepository
	orgs     repositories.OrganizationRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	logger   *slog.Logger
}

func NewFeedService(
	graph FollowingResolver,
	posts repositories.PostRepository,
	users repositories.UserRepository,
	orgs repositories.OrganizationRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	logger *slog.Logger,
) *FeedService {
	return &FeedService{
		graph:    graph,
		posts:    posts,
		users:    users,
		orgs:     orgs,
		likes:    likes,
		comments: comments,
		logger:   orDefault(logger).With("component", "feed"),
	}
}

// GetUserFeed returns published posts by the viewer and the users they
// follow, newest first. There is no anonymous feed and no fallback to
// public content from strangers.
func (s *FeedService) GetUserFeed(ctx context.Context, viewerID string, limit, offset int) ([]models.FeedPost, error) {
	if viewerID == "" {
		return []models.FeedPost{}, nil
	}

	followed, err := s.graph.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	visible := make([]string, 0, len(followed)+1)
	visible = append(visible, viewerID)
	for _, id := range followed {
		if id != viewerID {
			visible = append(visible, id)
		}
	}

	lim, off := normalizePage(limit, offset)
	posts, err := s.posts.GetPublishedByAuthors(ctx, visible, off, lim)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Feed assembled", "viewer_id", viewerID, "authors", len(visible), "posts", len(posts))

	return s.Enrich(ctx, viewerID, posts)
}

// GetUserPosts returns the published posts of a single author.
func (s *FeedService) GetUserPosts(ctx context.Context, viewerID, authorID string, limit, offset int) ([]models.FeedPost, error) {
	lim, off := normalizePage(limit, offset)
	posts, err := s.posts.GetPublishedByAuthors(ctx, []string{authorID}, off, lim)
	if err != nil {
		return nil, err
	}
	return s.Enrich(ctx, viewerID, posts)
}

// GetFeedPost loads one post enriched for the viewer.
func (s *FeedService) GetFeedPost(ctx context.Context, viewerID, postID string) (*models.FeedPost, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	enriched, err := s.Enrich(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// Enrich resolves authors and engagement for posts with one query per
// relation. Input order is preserved.
func (s *FeedService) Enrich(ctx context.Context, viewerID string, posts []models.Post) ([]models.FeedPost, error) {
	out := make([]models.FeedPost, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	var userIDs, orgIDs, postIDs []string
	for _, p := range posts {
		postIDs = append(postIDs, p.ID.Hex())
		switch {
		case p.UserID != nil:
			userIDs = append(userIDs, *p.UserID)
		case p.OrganizationID != nil:
			orgIDs = append(orgIDs, *p.OrganizationID)
		}
	}

	var (
		users    map[string]models.User
		orgs     map[string]models.Organization
		likes    map[string]int64
		comments map[string]int64
		liked    map[string]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.GetUsersByIDs(gctx, dedupe(userIDs))
		return err
	})
	g.Go(func() (err error) {
		orgs, err = s.orgs.GetOrganizationsByIDs(gctx, dedupe(orgIDs))
		return err
	})
	g.Go(func() (err error) {
		likes, err = s.likes.GetLikeCounts(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		comments, err = s.comments.GetCommentCounts(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		liked, err = s.likes.GetLikedPostIDs(gctx, viewerID, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range posts {
		id := p.ID.Hex()
		out = append(out, models.FeedPost{
			Post:          p,
			Author:        resolveAuthor(p, users, orgs),
			LikesCount:    likes[id],
			CommentsCount: comments[id],
			IsLiked:       liked[id],
		})
	}
	return out, nil
}

func resolveAuthor(p models.Post, users map[string]models.User, orgs map[string]models.Organization) *models.Author {
	switch {
	case p.UserID != nil:
		a := &models.Author{Type: models.AuthorTypeUser, ID: *p.UserID}
		if u, ok := users[*p.UserID]; ok {
			a.Name, a.AvatarURL = u.FullName, u.AvatarURL
		}
		return a
	case p.OrganizationID != nil:
		a := &models.Author{Type: models.AuthorTypeOrganization, ID: *p.OrganizationID}
		if o, ok := orgs[*p.OrganizationID]; ok {
			a.Name, a.AvatarURL = o.Name, o.LogoURL
		}
		return a
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
