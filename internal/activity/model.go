package activity

import "social-service/internal/user"

type Type string

const (
	TypePost    Type = "post"
	TypeStory   Type = "story"
	TypeLike    Type = "like"
	TypeComment Type = "comment"
	TypeFollow  Type = "follow"
	TypeUpload  Type = "upload"
)

// Activity is the denormalized engagement-feed record pushed to the
// affected user's activity collection.
type Activity struct {
	ID        string        `json:"id"`
	Type      Type          `json:"type"`
	Actor     user.Snapshot `json:"actor"`
	SubjectID string        `json:"subject_id,omitempty"`
	ObjectID  string        `json:"object_id,omitempty"`
	Message   string        `json:"message,omitempty"`
	CreatedAt string        `json:"created_at"`
}
