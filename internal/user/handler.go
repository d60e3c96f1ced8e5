package user

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteServiceError(w, fmt.Errorf("%w: malformed body", httpx.ErrInvalid))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.WriteServiceError(w, fmt.Errorf("%w: %v", httpx.ErrInvalid, err))
		return
	}

	u, err := h.svc.Create(r.Context(), User{
		ID:       req.UserID,
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Profile:  Profile{Bio: req.Bio, Avatar: req.Avatar},
		Privacy:  Privacy{PrivateAccount: req.Private, ShowActivity: true},
	})
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, CreateResponse{Status: "success", User: u}, http.StatusCreated)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("user_id")
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	if u == nil {
		httpx.WriteError(w, http.StatusNotFound, fmt.Errorf("user %s not found", id), "not_found")
		return
	}
	httpx.WriteJSON(w, GetResponse{Status: "success", User: u}, http.StatusOK)
}
