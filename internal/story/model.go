package story

import (
	"social-service/internal/blob"
	"social-service/internal/user"
)

// TTL is fixed: stories expire 24 hours after creation. Nothing deletes
// expired records; reads filter them out instead.
const TTLHours = 24

type Story struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	UserInfo    user.Snapshot `json:"user_info"`
	Ref         blob.Ref      `json:"ref"`
	Type        string        `json:"type"`
	Size        int64         `json:"size"`
	Caption     string        `json:"caption,omitempty"`
	CreatedAt   string        `json:"created_at"`
	ExpiresAt   string        `json:"expires_at"`
	ContentType string        `json:"content_type"`
	// URL is resolved fresh at read time.
	URL string `json:"url,omitempty"`
}
