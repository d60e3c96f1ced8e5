package story

import (
	"fmt"
	"io"
	"net/http"

	"social-service/internal/media"
	"social-service/internal/shared/httpx"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type createResponse struct {
	Status string `json:"status"`
	Story  *Story `json:"story"`
}

type listResponse struct {
	Status  string  `json:"status"`
	Stories []Story `json:"stories"`
}

// Create handles POST /upload-story/: exactly one file, fail-fast.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	if err := r.ParseMultipartForm(media.MaxUploadSize + 1<<20); err != nil {
		httpx.WriteServiceError(w, fmt.Errorf("%w: malformed multipart body", httpx.ErrInvalid))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteServiceError(w, fmt.Errorf("%w: missing file field", httpx.ErrInvalid))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteServiceError(w, fmt.Errorf("%w: unreadable file", httpx.ErrInvalid))
		return
	}

	st, err := h.svc.Create(r.Context(), uid, media.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Caption:     r.FormValue("caption"),
		Data:        data,
	})
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, createResponse{Status: "success", Story: st}, http.StatusCreated)
}

// List handles GET /stories/{user_id}.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.PathValue("user_id"))
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, listResponse{Status: "success", Stories: items}, http.StatusOK)
}
