package repositories

import (
	"context"

	"github.com/WillSeigler/Bookd/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// ToggleLike removes the user's reaction if present, otherwise adds it,
	// and returns whether the post is now liked.
	ToggleLike(ctx context.Context, postID, userID, reactionType string) (bool, error)
	GetLikeCounts(ctx context.Context, postIDs []string) (map[string]int64, error)
	GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) ToggleLike(ctx context.Context, postID, userID, reactionType string) (bool, error) {
	var liked bool
	err := serializable(ctx, r.db, func(tx *gorm.DB) error {
		var like models.Like
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Limit(1).
			Find(&like)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			liked = false
			return tx.Delete(&like).Error
		}
		liked = true
		return tx.Create(&models.Like{PostID: postID, UserID: userID, ReactionType: reactionType}).Error
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (r *PostgresLikeRepository) GetLikeCounts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPost(ctx, r.db, &models.Like{}, postIDs)
}

// GetLikedPostIDs returns the subset of postIDs the user has reacted to.
func (r *PostgresLikeRepository) GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(postIDs))
	if userID == "" || len(postIDs) == 0 {
		return out, nil
	}
	var liked []string
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		out[id] = true
	}
	return out, nil
}

type postCount struct {
	PostID string
	Count  int64
}

// countByPost counts rows of model grouped by post_id in one query.
func countByPost(ctx context.Context, db *gorm.DB, model any, postIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []postCount
	err := db.WithContext(ctx).Model(model).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.Count
	}
	return out, nil
}
