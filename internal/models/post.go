package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostTypeGeneral   = "general"
	VisibilityPublic  = "public"
	MaxPostContentLen = 2000
)

// Post is stored in MongoDB. Exactly one of UserID and OrganizationID is set.
// MediaURLs and MediaTypes are either both nil, or MediaTypes is nil, or they
// have equal length.
type Post struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         *string            `json:"user_id" bson:"user_id,omitempty"`
	OrganizationID *string            `json:"organization_id" bson:"organization_id,omitempty"`
	Content        string             `json:"content" bson:"content"`
	Title          *string            `json:"title" bson:"title"`
	PostType       string             `json:"post_type" bson:"post_type"`
	Visibility     string             `json:"visibility" bson:"visibility"`
	MediaURLs      []string           `json:"media_urls" bson:"media_urls"`
	MediaTypes     []string           `json:"media_types" bson:"media_types"`
	Tags           []string           `json:"tags" bson:"tags"`
	Location       *string            `json:"location" bson:"location"`
	IsPublished    bool               `json:"is_published" bson:"is_published"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest is the client payload. Author, type and visibility are
// never read from it.
type CreatePostRequest struct {
	Content    string   `json:"content" validate:"max=2000"`
	Title      string   `json:"title,omitempty" validate:"max=200"`
	MediaURLs  []string `json:"media_urls,omitempty" validate:"omitempty,max=10,dive,url"`
	MediaTypes []string `json:"media_types,omitempty"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Location   string   `json:"location,omitempty" validate:"max=200"`
}
