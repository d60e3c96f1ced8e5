package engagement

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"social-service/internal/shared/httpx"
)

type Handler struct {
	svc      Service
	validate *validator.Validate
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: malformed body", httpx.ErrInvalid)
	}
	if err := h.validate.Struct(into); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrInvalid, err)
	}
	return nil
}

// Like handles POST /like-post/.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	var req LikeRequest
	if err := h.decode(r, &req); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	l, err := h.svc.Like(r.Context(), uid, req.PostID)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, LikeResponse{Status: "success", Like: l}, http.StatusCreated)
}

// Comment handles POST /add-comment/.
func (h *Handler) Comment(w http.ResponseWriter, r *http.Request) {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	var req CommentRequest
	if err := h.decode(r, &req); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	c, err := h.svc.Comment(r.Context(), uid, req.PostID, req.Text)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, CommentResponse{Status: "success", Comment: c}, http.StatusCreated)
}

// Follow handles POST /follow-user/.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	var req FollowRequest
	if err := h.decode(r, &req); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	f, err := h.svc.Follow(r.Context(), uid, req.UserID)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, FollowResponse{Status: "success", Follow: f}, http.StatusCreated)
}
