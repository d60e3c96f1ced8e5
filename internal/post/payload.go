package post

type CreateResponse struct {
	Status  string `json:"status"`
	Post    *Post  `json:"post"`
	Skipped int    `json:"skipped_files"`
}

type GetResponse struct {
	Status string `json:"status"`
	Post   *Post  `json:"post"`
}

type DeleteResponse struct {
	Status string `json:"status"`
	PostID string `json:"post_id"`
}
