package models

const (
	AuthorTypeUser         = "user"
	AuthorTypeOrganization = "organization"
)

// Author is the resolved author of a post, either a user or an organization.
type Author struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// FeedPost is a Post enriched for one viewer. It is rebuilt on every request.
type FeedPost struct {
	Post
	Author        *Author `json:"author"`
	LikesCount    int64   `json:"likes_count"`
	CommentsCount int64   `json:"comments_count"`
	IsLiked       bool    `json:"is_liked"`
}
