package media

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"social-service/internal/activity"
	"social-service/internal/blob"
	"social-service/internal/metrics"
	"social-service/internal/shared/clock"
	"social-service/internal/store"
)

type Upload struct {
	FileName    string
	ContentType string
	Caption     string
	Data        []byte
}

type Service interface {
	Store(ctx context.Context, uid string, up Upload) (*Media, error)
	Get(ctx context.Context, token string) (*Media, error)
	ResolveURL(ctx context.Context, m *Media) (string, error)
	Download(ctx context.Context, m *Media) ([]byte, error)
}

type service struct {
	blobs    blob.Store
	st       *store.Client
	notifier *activity.Notifier
}

func NewService(blobs blob.Store, st *store.Client, notifier *activity.Notifier) Service {
	return &service{blobs: blobs, st: st, notifier: notifier}
}

func path(token string) string { return "media/" + token }

// Store validates, relays the payload to blob storage and records the
// metadata under a freshly minted short token. Validation failures happen
// before any relay call.
func (s *service) Store(ctx context.Context, uid string, up Upload) (*Media, error) {
	if err := ValidateFile(up.FileName, up.ContentType, len(up.Data)); err != nil {
		return nil, err
	}

	ref, err := s.blobs.Put(ctx, up.Data, up.FileName, up.ContentType)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("media", "error").Inc()
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues("media", "ok").Inc()

	token, err := gonanoid.New(8)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	m := &Media{
		Token:       token,
		UserID:      uid,
		FileName:    up.FileName,
		ContentType: up.ContentType,
		Size:        int64(len(up.Data)),
		Caption:     up.Caption,
		Ref:         ref,
		CreatedAt:   clock.Now(),
	}
	if err := s.st.Set(ctx, path(token), m); err != nil {
		return nil, err
	}

	s.notifier.Go("media.audit", func(ctx context.Context) error {
		_, err := s.st.Push(ctx, "audit", map[string]any{
			"action":    "upload",
			"token":     token,
			"uid":       uid,
			"timestamp": m.CreatedAt,
		})
		return err
	})
	return m, nil
}

func (s *service) Get(ctx context.Context, token string) (*Media, error) {
	var m Media
	found, err := s.st.Get(ctx, path(token), &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &m, nil
}

func (s *service) ResolveURL(ctx context.Context, m *Media) (string, error) {
	return s.blobs.Resolve(ctx, m.Ref)
}

func (s *service) Download(ctx context.Context, m *Media) ([]byte, error) {
	return s.blobs.Download(ctx, m.Ref)
}
