package activity

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"social-service/internal/shared/clock"
	"social-service/internal/store"
)

type Service interface {
	// Record persists the activity in the target user's feed and emits it
	// to the event stream. Publish failure never fails the record.
	Record(ctx context.Context, targetUID string, a Activity) error
	List(ctx context.Context, uid string, limit, offset int) ([]Activity, bool, int, error)
}

type service struct {
	st     *store.Client
	events *Publisher
}

func NewService(st *store.Client, events *Publisher) Service {
	return &service{st: st, events: events}
}

func (s *service) Record(ctx context.Context, targetUID string, a Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt == "" {
		a.CreatedAt = clock.Now()
	}
	if _, err := s.st.Push(ctx, "activities/"+targetUID, a); err != nil {
		return err
	}
	if err := s.events.Publish(ctx, a); err != nil {
		log.Warn().Err(err).Str("type", string(a.Type)).Msg("activity event publish failed")
	}
	return nil
}

func (s *service) List(ctx context.Context, uid string, limit, offset int) ([]Activity, bool, int, error) {
	var raw map[string]Activity
	found, err := s.st.Get(ctx, "activities/"+uid, &raw)
	if err != nil {
		return nil, false, 0, err
	}
	if !found {
		return []Activity{}, false, 0, nil
	}

	items := make([]Activity, 0, len(raw))
	for _, a := range raw {
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt > items[j].CreatedAt })

	total := len(items)
	if offset >= total {
		return []Activity{}, false, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return items[offset:end], total > offset+limit, total, nil
}
