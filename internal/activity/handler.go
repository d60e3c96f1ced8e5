package activity

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

type listResponse struct {
	Status  string     `json:"status"`
	Items   []Activity `json:"items"`
	HasMore bool       `json:"has_more"`
	Total   int        `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("user_id")
	limit, offset := httpx.Pagination(r, 20, 100)

	items, hasMore, total, err := h.svc.List(r.Context(), uid, limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, listResponse{Status: "success", Items: items, HasMore: hasMore, Total: total}, http.StatusOK)
}
