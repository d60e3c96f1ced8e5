package feed

import (
	"net/http"

	"social-service/internal/shared/httpx"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type response struct {
	Status string `json:"status"`
	Page
}

// Global handles GET /feed/?limit&offset over the timeline index.
func (h *Handler) Global(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r, 20, 100)
	page, err := h.svc.ListIndex(r.Context(), "timeline", limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, response{Status: "success", Page: page}, http.StatusOK)
}

// UserPosts handles GET /user-posts/{user_id}?limit&offset over the
// per-user index.
func (h *Handler) UserPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r, 20, 100)
	uid := r.PathValue("user_id")
	page, err := h.svc.ListIndex(r.Context(), "users/"+uid+"/posts", limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, response{Status: "success", Page: page}, http.StatusOK)
}
