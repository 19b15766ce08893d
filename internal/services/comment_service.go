package services

import (
	"context"
	"strings"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/repositories"
	"github.com/WillSeigler/Bookd/internal/session"
)

type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
}

func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, users repositories.UserRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users}
}

func (s *CommentService) AddComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	userID, err := session.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content", "comment cannot be empty")
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if u, err := s.users.GetUserByID(ctx, userID); err == nil {
		summary := u.Summary()
		comment.User = &summary
	}
	return comment, nil
}

// ListComments returns a post's comments oldest first with their authors.
func (s *CommentService) ListComments(ctx context.Context, postID string, limit, offset int) ([]models.Comment, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	lim, off := normalizePage(limit, offset)
	comments, err := s.comments.GetCommentsByPostID(ctx, postID, int(lim), int(off))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	users, err := s.users.GetUsersByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if u, ok := users[comments[i].UserID]; ok {
			summary := u.Summary()
			comments[i].User = &summary
		}
	}
	return comments, nil
}
