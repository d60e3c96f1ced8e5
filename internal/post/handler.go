package post

import (
	"errors"
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

// Create handles POST /upload-post/: a multi-file carousel under the
// repeated "files" field, with caption/location/alt_text form values.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	if err := r.ParseMultipartForm(media.MaxUploadSize * 2); err != nil {
		httpx.WriteServiceError(w, fmt.Errorf("%w: malformed multipart body", httpx.ErrInvalid))
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		httpx.WriteServiceError(w, fmt.Errorf("%w: no files in request", httpx.ErrInvalid))
		return
	}

	var files []File
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			httpx.WriteServiceError(w, fmt.Errorf("%w: unreadable file %s", httpx.ErrInvalid, fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			httpx.WriteServiceError(w, fmt.Errorf("%w: unreadable file %s", httpx.ErrInvalid, fh.Filename))
			return
		}
		files = append(files, File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	content := Content{
		Caption:  r.FormValue("caption"),
		Location: r.FormValue("location"),
		AltText:  r.FormValue("alt_text"),
	}
	p, skipped, err := h.svc.Create(r.Context(), uid, files, content)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, CreateResponse{Status: "success", Post: p, Skipped: skipped}, http.StatusCreated)
}

// Get handles GET /post/{user_id}/{post_id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), r.PathValue("user_id"), r.PathValue("post_id"))
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	if p == nil {
		httpx.WriteError(w, http.StatusNotFound, errors.New("post not found"), "not_found")
		return
	}
	httpx.WriteJSON(w, GetResponse{Status: "success", Post: p}, http.StatusOK)
}

// Delete handles DELETE /post/{user_id}/{post_id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("post_id")
	if err := h.svc.Delete(r.Context(), r.PathValue("user_id"), postID); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, DeleteResponse{Status: "success", PostID: postID}, http.StatusOK)
}
