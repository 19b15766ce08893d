package repositories

import (
	"context"

	"github.com/WillSeigler/Bookd/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByPostID(ctx context.Context, postID string, limit, offset int) ([]models.Comment, error)
	GetCommentCounts(ctx context.Context, postIDs []string) (map[string]int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentsByPostID returns comments oldest first.
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string, limit, offset int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) GetCommentCounts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPost(ctx, r.db, &models.Comment{}, postIDs)
}
