package media

type UploadResponse struct {
	Status       string `json:"status"`
	Token        string `json:"token"`
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id,omitempty"`
	URL          string `json:"url,omitempty"`
}
