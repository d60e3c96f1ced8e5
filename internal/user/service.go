package user

import (
	"context"
	"fmt"

	"social-service/internal/shared/clock"
	"social-service/internal/shared/httpx"
	"social-service/internal/store"
)

type Service interface {
	Create(ctx context.Context, u User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	// Snapshot fetches the denormalized actor copy for embedding in
	// records. A missing user yields a bare snapshot, not an error.
	Snapshot(ctx context.Context, id string) Snapshot
}

type service struct {
	st *store.Client
}

func NewService(st *store.Client) Service {
	return &service{st: st}
}

func path(id string) string { return "users/" + id }

func (s *service) Create(ctx context.Context, u User) (*User, error) {
	if u.ID == "" || u.Username == "" {
		return nil, fmt.Errorf("%w: id and username are required", httpx.ErrInvalid)
	}
	// Probe the username leaf, not the whole node: background counter
	// writes (followers of a not-yet-registered user) create the node
	// before the profile does, and must not block the real signup.
	found, err := s.st.Get(ctx, path(u.ID)+"/username", nil)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, fmt.Errorf("%w: user %s already exists", httpx.ErrInvalid, u.ID)
	}

	now := clock.Now()
	u.Metadata.CreatedAt = now
	u.Metadata.UpdatedAt = now
	u.Counts = Counts{}
	if err := s.st.Set(ctx, path(u.ID), u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	var u User
	found, err := s.st.Get(ctx, path(id), &u)
	if err != nil {
		return nil, err
	}
	// A node holding only fanned-out counters is not a profile.
	if !found || u.Username == "" {
		return nil, nil
	}
	return &u, nil
}

func (s *service) Snapshot(ctx context.Context, id string) Snapshot {
	u, err := s.Get(ctx, id)
	if err != nil || u == nil {
		return Snapshot{UserID: id}
	}
	return Snapshot{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Profile.Avatar,
		Verified: u.Verification.Verified,
	}
}
