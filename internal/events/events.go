// Package events publishes activity notifications for other services to consume.
package events

import (
	"context"
	"time"
)

const (
	SubjectPostCreated   = "post.created"
	SubjectFollowToggled = "follow.toggled"
	SubjectLikeToggled   = "post.like.toggled"
)

// Event is anything that can be published on a subject.
type Event interface {
	Subject() string
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type PostCreated struct {
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	MediaCount int       `json:"media_count"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PostCreated) Subject() string { return SubjectPostCreated }

type FollowToggled struct {
	FollowerID string    `json:"follower_id"`
	TargetID   string    `json:"target_id"`
	Following  bool      `json:"following"`
	At         time.Time `json:"at"`
}

func (FollowToggled) Subject() string { return SubjectFollowToggled }

type LikeToggled struct {
	PostID       string    `json:"post_id"`
	UserID       string    `json:"user_id"`
	ReactionType string    `json:"reaction_type"`
	Liked        bool      `json:"liked"`
	At           time.Time `json:"at"`
}

func (LikeToggled) Subject() string { return SubjectLikeToggled }

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
