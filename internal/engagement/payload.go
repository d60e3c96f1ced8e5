package engagement

type LikeRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

type LikeResponse struct {
	Status string `json:"status"`
	Like   *Like  `json:"like"`
}

type CommentRequest struct {
	PostID string `json:"post_id" validate:"required"`
	Text   string `json:"text" validate:"required,min=1,max=2200"`
}

type CommentResponse struct {
	Status  string   `json:"status"`
	Comment *Comment `json:"comment"`
}

type FollowRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type FollowResponse struct {
	Status string  `json:"status"`
	Follow *Follow `json:"follow"`
}
