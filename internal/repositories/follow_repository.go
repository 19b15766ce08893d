package repositories

import (
	"context"

	"github.com/WillSeigler/Bookd/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	// ToggleUserFollow flips the follower's edge toward target and returns
	// whether the follower is now following.
	ToggleUserFollow(ctx context.Context, followerID, targetID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
	GetFollowerIDs(ctx context.Context, userID string) ([]string, error)
	GetFollowersCount(ctx context.Context, userID string) (int64, error)
	GetFollowingCount(ctx context.Context, userID string) (int64, error)
	GetFollowers(ctx context.Context, userID string, limit int) ([]models.User, error)
	GetFollowing(ctx context.Context, userID string, limit int) ([]models.User, error)
	// GetFollowersAmong returns the active followers of userID whose ids are in candidateIDs.
	GetFollowersAmong(ctx context.Context, userID string, candidateIDs []string) ([]models.User, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) ToggleUserFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	var following bool
	err := serializable(ctx, r.db, func(tx *gorm.DB) error {
		var edge models.Follow
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("follower_user_id = ? AND followed_user_id = ?", followerID, targetID).
			Limit(1).
			Find(&edge)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			following = true
			return tx.Create(&models.Follow{
				FollowerUserID: followerID,
				FollowedUserID: &targetID,
				Status:         models.FollowActive,
			}).Error
		}

		next := models.FollowActive
		if edge.Status == models.FollowActive {
			next = models.FollowRemoved
		}
		following = next == models.FollowActive
		return tx.Model(&edge).Update("status", next).Error
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	var count int64
	err := r.active(ctx).
		Where("follower_user_id = ? AND followed_user_id = ?", followerID, targetID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingIDs returns followed user ids; organization targets are skipped.
func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.active(ctx).
		Where("follower_user_id = ? AND followed_user_id IS NOT NULL", userID).
		Pluck("followed_user_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.active(ctx).
		Where("followed_user_id = ?", userID).
		Pluck("follower_user_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.active(ctx).Where("followed_user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.active(ctx).
		Where("follower_user_id = ? AND followed_user_id IS NOT NULL", userID).
		Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows.follower_user_id = users.id").
		Where("follows.followed_user_id = ? AND follows.status = ?", userID, models.FollowActive).
		Order("follows.created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows.followed_user_id = users.id").
		Where("follows.follower_user_id = ? AND follows.status = ?", userID, models.FollowActive).
		Order("follows.created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowersAmong(ctx context.Context, userID string, candidateIDs []string) ([]models.User, error) {
	users := []models.User{}
	if len(candidateIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows.follower_user_id = users.id").
		Where("follows.followed_user_id = ? AND follows.status = ?", userID, models.FollowActive).
		Where("follows.follower_user_id IN ?", candidateIDs).
		Order("users.full_name ASC").
		Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Follow{}).Where("status = ?", models.FollowActive)
}
