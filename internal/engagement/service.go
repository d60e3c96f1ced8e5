package engagement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"social-service/internal/activity"
	"social-service/internal/counter"
	"social-service/internal/fanout"
	"social-service/internal/shared/clock"
	"social-service/internal/shared/httpx"
	"social-service/internal/store"
	"social-service/internal/tags"
	"social-service/internal/user"
)

type Service interface {
	Like(ctx context.Context, uid, postID string) (*Like, error)
	Comment(ctx context.Context, uid, postID, text string) (*Comment, error)
	Follow(ctx context.Context, follower, followee string) (*Follow, error)
}

type service struct {
	st       *store.Client
	fan      *fanout.Writer
	users    user.Service
	counters counter.Counter
	acts     activity.Service
	notifier *activity.Notifier
}

func NewService(st *store.Client, fan *fanout.Writer, users user.Service,
	counters counter.Counter, acts activity.Service, notifier *activity.Notifier) Service {
	return &service{
		st:       st,
		fan:      fan,
		users:    users,
		counters: counters,
		acts:     acts,
		notifier: notifier,
	}
}

// postOwner loads the subject post's owner. Engaging with a missing post is
// the caller's mistake.
func (s *service) postOwner(ctx context.Context, postID string) (string, error) {
	var p struct {
		UserID string `json:"user_id"`
	}
	found, err := s.st.Get(ctx, "posts/"+postID, &p)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: post %s not found", httpx.ErrInvalid, postID)
	}
	return p.UserID, nil
}

func (s *service) Like(ctx context.Context, uid, postID string) (*Like, error) {
	owner, err := s.postOwner(ctx, postID)
	if err != nil {
		return nil, err
	}

	l := &Like{
		ID:        uuid.NewString(),
		PostID:    postID,
		Actor:     s.users.Snapshot(ctx, uid),
		CreatedAt: clock.Now(),
	}
	ptr := fanout.Pointer{ID: l.ID, Owner: uid, Timestamp: l.CreatedAt}
	targets := []fanout.Target{
		{Path: "likes/" + postID + "/" + l.ID},
		{Path: "users/" + uid + "/likes/" + l.ID, Pointer: true},
	}
	if err := s.fan.StoreRecord(ctx, "like", l.ID, l, ptr, targets); err != nil {
		return nil, err
	}

	s.notifier.Go("like.counts", func(ctx context.Context) error {
		_, err := s.counters.Incr(ctx, "posts/"+postID+"/engagement", "likes_count", 1)
		return err
	})
	s.notifier.Go("like.activity", func(ctx context.Context) error {
		return s.acts.Record(ctx, owner, activity.Activity{
			Type:      activity.TypeLike,
			Actor:     l.Actor,
			SubjectID: postID,
			ObjectID:  l.ID,
		})
	})
	return l, nil
}

func (s *service) Comment(ctx context.Context, uid, postID, text string) (*Comment, error) {
	owner, err := s.postOwner(ctx, postID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		Actor:     s.users.Snapshot(ctx, uid),
		Text:      text,
		Hashtags:  tags.ExtractHashtags(text),
		Mentions:  tags.ExtractMentions(text),
		CreatedAt: clock.Now(),
	}
	ptr := fanout.Pointer{ID: c.ID, Owner: uid, Timestamp: c.CreatedAt}
	targets := []fanout.Target{
		{Path: "comments/" + postID + "/" + c.ID},
		{Path: "users/" + uid + "/comments/" + c.ID, Pointer: true},
	}
	if err := s.fan.StoreRecord(ctx, "comment", c.ID, c, ptr, targets); err != nil {
		return nil, err
	}

	s.notifier.Go("comment.counts", func(ctx context.Context) error {
		_, err := s.counters.Incr(ctx, "posts/"+postID+"/engagement", "comments_count", 1)
		return err
	})
	s.notifier.Go("comment.activity", func(ctx context.Context) error {
		return s.acts.Record(ctx, owner, activity.Activity{
			Type:      activity.TypeComment,
			Actor:     c.Actor,
			SubjectID: postID,
			ObjectID:  c.ID,
			Message:   text,
		})
	})
	return c, nil
}

func (s *service) Follow(ctx context.Context, follower, followee string) (*Follow, error) {
	if follower == followee {
		return nil, fmt.Errorf("%w: cannot follow yourself", httpx.ErrInvalid)
	}

	f := &Follow{
		FollowerID: follower,
		FolloweeID: followee,
		Actor:      s.users.Snapshot(ctx, follower),
		CreatedAt:  clock.Now(),
	}
	ptr := fanout.Pointer{ID: followee, Owner: follower, Timestamp: f.CreatedAt}
	targets := []fanout.Target{
		{Path: "follows/" + followee + "/" + follower},
		{Path: "users/" + follower + "/following/" + followee, Pointer: true},
	}
	if err := s.fan.StoreRecord(ctx, "follow", follower, f, ptr, targets); err != nil {
		return nil, err
	}

	s.notifier.Go("follow.counts", func(ctx context.Context) error {
		if _, err := s.counters.Incr(ctx, "users/"+followee+"/counts", "followers", 1); err != nil {
			return err
		}
		_, err := s.counters.Incr(ctx, "users/"+follower+"/counts", "following", 1)
		return err
	})
	s.notifier.Go("follow.activity", func(ctx context.Context) error {
		return s.acts.Record(ctx, followee, activity.Activity{
			Type:      activity.TypeFollow,
			Actor:     f.Actor,
			SubjectID: followee,
		})
	})
	return f, nil
}
