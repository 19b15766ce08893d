package models

import "time"

const DefaultReaction = "like"

// Like represents a reaction on a post
type Like struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PostID       string    `json:"post_id" gorm:"not null;index;uniqueIndex:idx_post_user_like"` // MongoDB ObjectID as hex
	UserID       string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_user_like"`
	ReactionType string    `json:"reaction_type" gorm:"type:varchar(32);not null;default:like"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Like) TableName() string { return "post_likes" }

type ToggleLikeRequest struct {
	ReactionType string `json:"reaction_type" validate:"omitempty,oneof=like love fire clap"`
}
