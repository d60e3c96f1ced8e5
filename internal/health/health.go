// Package health exposes liveness plus shallow dependency probes.
package health

import (
	"context"
	"net/http"
	"time"

	"social-service/internal/shared/httpx"
)

type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct {
	deps    []Dependency
	timeout time.Duration
}

func NewHandler(deps ...Dependency) *Handler {
	return &Handler{deps: deps, timeout: 3 * time.Second}
}

type report struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// ServeHTTP answers GET /health. Any unreachable dependency degrades the
// report but the endpoint itself still answers 200: the process is alive.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out := report{Status: "ok", Dependencies: map[string]string{}}
	for _, d := range h.deps {
		if err := d.Ping(ctx); err != nil {
			out.Status = "degraded"
			out.Dependencies[d.Name] = err.Error()
			continue
		}
		out.Dependencies[d.Name] = "ok"
	}
	httpx.WriteJSON(w, out, http.StatusOK)
}
