package media

import (
	"fmt"
	"io"
	"net/http"

	"social-service/internal/shared/httpx"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Upload handles POST /upload/: one multipart file plus optional caption.
// Single-file endpoints fail fast on any validation error.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	if err := r.ParseMultipartForm(MaxUploadSize + 1<<20); err != nil {
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

	m, err := h.svc.Store(r.Context(), uid, Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Caption:     r.FormValue("caption"),
		Data:        data,
	})
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}

	resp := UploadResponse{
		Status:       "success",
		Token:        m.Token,
		FileID:       m.Ref.FileID,
		FileUniqueID: m.Ref.UniqueID,
	}
	httpx.WriteJSON(w, resp, http.StatusCreated)
}

// Redirect handles GET /media/{token}: resolve a fresh download URL and
// send the client there. The URL is resolved per request, never cached.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	m, err := h.svc.Get(r.Context(), token)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	if m == nil {
		httpx.WriteError(w, http.StatusNotFound, fmt.Errorf("media %s not found", token), "not_found")
		return
	}
	url, err := h.svc.ResolveURL(r.Context(), m)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// Content handles GET /media/{token}/content: proxy the bytes through the
// service instead of redirecting.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	m, err := h.svc.Get(r.Context(), token)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	if m == nil {
		httpx.WriteError(w, http.StatusNotFound, fmt.Errorf("media %s not found", token), "not_found")
		return
	}
	data, err := h.svc.Download(r.Context(), m)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", m.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
