package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type ctxKey string

const userKey ctxKey = "uid"

var (
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalid marks caller mistakes. Wrap it so handlers map the error
	// to a 400 with the wrapped message intact.
	ErrInvalid = errors.New("invalid request")
)

type APIError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, err error, reason string) {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}
	WriteJSON(w, APIError{Status: "error", Message: err.Error(), Reason: reason}, status)
}

// WriteServiceError maps a service-layer error onto the response contract:
// validation errors are the caller's fault and keep their message, everything
// else is a dependency failure whose detail stays in the server log.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalid):
		WriteError(w, http.StatusBadRequest, err, "validation")
	case errors.Is(err, ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "auth")
	default:
		log.Error().Err(err).Msg("dependency failure")
		WriteError(w, http.StatusInternalServerError, errors.New("internal error"), "dependency")
	}
}

// AuthMiddleware requires a non-empty bearer token on every request it wraps.
// The token is opaque: no signature verification is performed. When it parses
// as a JWT the sub claim is used as the actor id, otherwise the raw token is.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "missing_bearer")
			return
		}
		uid := token
		if parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{}); err == nil {
			if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
				if sub, _ := claims["sub"].(string); sub != "" {
					uid = sub
				}
			}
		}
		ctx := context.WithValue(r.Context(), userKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromCtx(r *http.Request) (string, error) {
	v, _ := r.Context().Value(userKey).(string)
	if v == "" {
		return "", ErrUnauthorized
	}
	return v, nil
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Pagination reads limit/offset query parameters with sane bounds.
func Pagination(r *http.Request, defLimit, maxLimit int) (limit, offset int) {
	limit = defLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
