package models

import "time"

type FollowStatus string

const (
	FollowActive  FollowStatus = "active"
	FollowRemoved FollowStatus = "removed"
)

// Follow is a directed edge from a user to a user or an organization.
// Edges are never deleted; unfollowing flips Status to removed.
type Follow struct {
	ID                     uint         `json:"id" gorm:"primaryKey"`
	FollowerUserID         string       `json:"follower_user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_follower_followed"`
	FollowedUserID         *string      `json:"followed_user_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_followed"`
	FollowedOrganizationID *string      `json:"followed_organization_id" gorm:"type:uuid;index"`
	Status                 FollowStatus `json:"status" gorm:"type:varchar(16);not null;default:active"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}
