package media

import "social-service/internal/blob"

// Media is the record behind the single-file upload endpoint, keyed by a
// short url-safe token.
type Media struct {
	Token       string   `json:"token"`
	UserID      string   `json:"user_id"`
	FileName    string   `json:"file_name"`
	ContentType string   `json:"content_type"`
	Size        int64    `json:"size"`
	Caption     string   `json:"caption,omitempty"`
	Ref         blob.Ref `json:"ref"`
	CreatedAt   string   `json:"created_at"`
}
