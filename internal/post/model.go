package post

import (
	"social-service/internal/blob"
	"social-service/internal/user"
)

type MediaItem struct {
	MediaID    string   `json:"media_id"`
	Ref        blob.Ref `json:"ref"`
	Type       string   `json:"type"`
	Size       int64    `json:"size"`
	OrderIndex int      `json:"order_index"`
	// URL is filled at read time from a fresh resolution, never stored.
	URL string `json:"url,omitempty"`
}

type Content struct {
	Caption  string `json:"caption,omitempty"`
	Location string `json:"location,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
}

type Engagement struct {
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
	ViewsCount    int64 `json:"views_count"`
}

type Settings struct {
	CommentsEnabled bool `json:"comments_enabled"`
	LikesVisible    bool `json:"likes_visible"`
}

type Discovery struct {
	Hashtags []string `json:"hashtags,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
}

// Post is the full denormalized record stored at the primary path.
// Secondary indexes hold only fanout.Pointer copies.
type Post struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	UserInfo   user.Snapshot `json:"user_info"`
	Media      []MediaItem   `json:"media"`
	Content    Content       `json:"content"`
	Engagement Engagement    `json:"engagement"`
	Settings   Settings      `json:"settings"`
	Discovery  Discovery     `json:"discovery"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at"`
}
