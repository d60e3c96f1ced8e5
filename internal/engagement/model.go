// Package engagement covers likes, comments and follows: small denormalized
// records fanned out next to the entities they reference.
package engagement

import "social-service/internal/user"

type Like struct {
	ID        string        `json:"id"`
	PostID    string        `json:"post_id"`
	Actor     user.Snapshot `json:"actor"`
	CreatedAt string        `json:"created_at"`
}

type Comment struct {
	ID        string        `json:"id"`
	PostID    string        `json:"post_id"`
	Actor     user.Snapshot `json:"actor"`
	Text      string        `json:"text"`
	Hashtags  []string      `json:"hashtags,omitempty"`
	Mentions  []string      `json:"mentions,omitempty"`
	CreatedAt string        `json:"created_at"`
}

type Follow struct {
	FollowerID string        `json:"follower_id"`
	FolloweeID string        `json:"followee_id"`
	Actor      user.Snapshot `json:"actor"`
	CreatedAt  string        `json:"created_at"`
}
