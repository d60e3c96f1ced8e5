package story

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"social-service/internal/activity"
	"social-service/internal/blob"
	"social-service/internal/fanout"
	"social-service/internal/media"
	"social-service/internal/metrics"
	"social-service/internal/shared/clock"
	"social-service/internal/store"
	"social-service/internal/user"
)

type Service interface {
	// Create stores a single-media story with a 24h absolute expiry.
	Create(ctx context.Context, uid string, file media.Upload) (*Story, error)
	// List returns the user's unexpired stories, newest first, with fresh
	// media URLs. Expiry is enforced here, at read time only.
	List(ctx context.Context, uid string) ([]Story, error)
}

type service struct {
	blobs    blob.Store
	st       *store.Client
	fan      *fanout.Writer
	users    user.Service
	acts     activity.Service
	notifier *activity.Notifier
	now      func() time.Time
}

func NewService(blobs blob.Store, st *store.Client, fan *fanout.Writer, users user.Service,
	acts activity.Service, notifier *activity.Notifier) Service {
	return &service{
		blobs:    blobs,
		st:       st,
		fan:      fan,
		users:    users,
		acts:     acts,
		notifier: notifier,
		now:      time.Now,
	}
}

func collectionPath(uid string) string { return "stories/" + uid }

func (s *service) Create(ctx context.Context, uid string, file media.Upload) (*Story, error) {
	if err := media.ValidateFile(file.FileName, file.ContentType, len(file.Data)); err != nil {
		return nil, err
	}

	ref, err := s.blobs.Put(ctx, file.Data, file.FileName, file.ContentType)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("story", "error").Inc()
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues("story", "ok").Inc()

	created := s.now().UTC()
	st := &Story{
		ID:          uuid.NewString(),
		UserID:      uid,
		UserInfo:    s.users.Snapshot(ctx, uid),
		Ref:         ref,
		Type:        media.Kind(file.ContentType),
		Size:        int64(len(file.Data)),
		Caption:     file.Caption,
		ContentType: file.ContentType,
		CreatedAt:   clock.FromTime(created),
		ExpiresAt:   clock.FromTime(created.Add(TTLHours * time.Hour)),
	}

	ptr := fanout.Pointer{ID: st.ID, Owner: uid, Timestamp: st.CreatedAt}
	targets := []fanout.Target{
		{Path: collectionPath(uid) + "/" + st.ID},
		{Path: "story_feed", Pointer: true, Push: true},
	}
	if err := s.fan.StoreRecord(ctx, "story", st.ID, st, ptr, targets); err != nil {
		return nil, err
	}

	s.notifier.Go("story.activity", func(ctx context.Context) error {
		return s.acts.Record(ctx, uid, activity.Activity{
			Type:      activity.TypeStory,
			Actor:     st.UserInfo,
			SubjectID: st.ID,
		})
	})
	return st, nil
}

func (s *service) List(ctx context.Context, uid string) ([]Story, error) {
	var raw map[string]Story
	found, err := s.st.Get(ctx, collectionPath(uid), &raw)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Story{}, nil
	}

	cutoff := clock.FromTime(s.now().UTC())
	items := make([]Story, 0, len(raw))
	for _, st := range raw {
		if st.ExpiresAt <= cutoff {
			continue
		}
		items = append(items, st)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt > items[j].CreatedAt })

	for i := range items {
		url, err := s.blobs.Resolve(ctx, items[i].Ref)
		if err != nil {
			log.Warn().Err(err).Str("story", items[i].ID).Msg("media url resolution failed")
			continue
		}
		items[i].URL = url
	}
	return items, nil
}
