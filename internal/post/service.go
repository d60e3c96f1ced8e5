package post

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"social-service/internal/activity"
	"social-service/internal/blob"
	"social-service/internal/counter"
	"social-service/internal/fanout"
	"social-service/internal/media"
	"social-service/internal/metrics"
	"social-service/internal/shared/clock"
	"social-service/internal/shared/httpx"
	"social-service/internal/store"
	"social-service/internal/tags"
	"social-service/internal/user"
)

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Service interface {
	// Create builds a carousel post from the given files. Invalid files are
	// skipped, not fatal; skipped reports how many. A batch with no valid
	// file is a validation error.
	Create(ctx context.Context, uid string, files []File, content Content) (p *Post, skipped int, err error)
	Get(ctx context.Context, uid, postID string) (*Post, error)
	Delete(ctx context.Context, uid, postID string) error
}

type service struct {
	blobs    blob.Store
	st       *store.Client
	fan      *fanout.Writer
	users    user.Service
	counters counter.Counter
	acts     activity.Service
	notifier *activity.Notifier
}

func NewService(blobs blob.Store, st *store.Client, fan *fanout.Writer, users user.Service,
	counters counter.Counter, acts activity.Service, notifier *activity.Notifier) Service {
	return &service{
		blobs:    blobs,
		st:       st,
		fan:      fan,
		users:    users,
		counters: counters,
		acts:     acts,
		notifier: notifier,
	}
}

func primaryPath(postID string) string        { return "posts/" + postID }
func userIndexPath(uid, postID string) string { return "users/" + uid + "/posts/" + postID }

func (s *service) Create(ctx context.Context, uid string, files []File, content Content) (*Post, int, error) {
	// Per-file validation skips and continues: a carousel with one bad
	// item still posts the rest. This intentionally differs from the
	// fail-fast single-file endpoints.
	valid := make([]File, 0, len(files))
	for _, f := range files {
		if err := media.ValidateFile(f.Name, f.ContentType, len(f.Data)); err != nil {
			log.Info().Str("file", f.Name).Err(err).Msg("skipping invalid carousel item")
			continue
		}
		valid = append(valid, f)
	}
	skipped := len(files) - len(valid)
	if len(valid) == 0 {
		return nil, skipped, fmt.Errorf("%w: no valid media in post", httpx.ErrInvalid)
	}

	items := make([]MediaItem, 0, len(valid))
	for i, f := range valid {
		ref, err := s.blobs.Put(ctx, f.Data, f.Name, f.ContentType)
		if err != nil {
			metrics.UploadsTotal.WithLabelValues("post", "error").Inc()
			return nil, skipped, err
		}
		metrics.UploadsTotal.WithLabelValues("post", "ok").Inc()
		items = append(items, MediaItem{
			MediaID:    uuid.NewString(),
			Ref:        ref,
			Type:       media.Kind(f.ContentType),
			Size:       int64(len(f.Data)),
			OrderIndex: i,
		})
	}

	now := clock.Now()
	p := &Post{
		ID:       uuid.NewString(),
		UserID:   uid,
		UserInfo: s.users.Snapshot(ctx, uid),
		Media:    items,
		Content:  content,
		Settings: Settings{CommentsEnabled: true, LikesVisible: true},
		Discovery: Discovery{
			Hashtags: tags.ExtractHashtags(content.Caption),
			Mentions: tags.ExtractMentions(content.Caption),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	ptr := fanout.Pointer{ID: p.ID, Owner: uid, Timestamp: now}
	targets := []fanout.Target{
		{Path: primaryPath(p.ID)},
		{Path: userIndexPath(uid, p.ID), Pointer: true},
		{Path: "timeline", Pointer: true, Push: true},
	}
	if err := s.fan.StoreRecord(ctx, "post", p.ID, p, ptr, targets); err != nil {
		return nil, skipped, err
	}

	s.notifier.Go("post.counts", func(ctx context.Context) error {
		_, err := s.counters.Incr(ctx, "users/"+uid+"/counts", "posts", 1)
		return err
	})
	s.notifier.Go("post.activity", func(ctx context.Context) error {
		return s.acts.Record(ctx, uid, activity.Activity{
			Type:      activity.TypePost,
			Actor:     p.UserInfo,
			SubjectID: p.ID,
		})
	})
	return p, skipped, nil
}

func (s *service) Get(ctx context.Context, uid, postID string) (*Post, error) {
	var p Post
	found, err := s.st.Get(ctx, primaryPath(postID), &p)
	if err != nil {
		return nil, err
	}
	if !found || p.UserID != uid {
		return nil, nil
	}
	for i := range p.Media {
		url, err := s.blobs.Resolve(ctx, p.Media[i].Ref)
		if err != nil {
			log.Warn().Err(err).Str("post", p.ID).Msg("media url resolution failed")
			continue
		}
		p.Media[i].URL = url
	}
	return &p, nil
}

// Delete removes the record from its primary and per-user indexes. Timeline
// pointers are not cleaned up; feed reads drop pointers whose record is gone.
func (s *service) Delete(ctx context.Context, uid, postID string) error {
	var p Post
	found, err := s.st.Get(ctx, primaryPath(postID), &p)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: post %s not found", httpx.ErrInvalid, postID)
	}
	if p.UserID != uid {
		return fmt.Errorf("%w: post %s does not belong to %s", httpx.ErrInvalid, postID, uid)
	}
	if err := s.st.Delete(ctx, primaryPath(postID)); err != nil {
		return err
	}
	if err := s.st.Delete(ctx, userIndexPath(uid, postID)); err != nil {
		// primary is gone already; the index entry is now a dangling
		// pointer that reads tolerate
		log.Error().Err(err).Str("post", postID).Msg("per-user index delete failed")
	}
	s.notifier.Go("post.counts", func(ctx context.Context) error {
		_, err := s.counters.Incr(ctx, "users/"+uid+"/counts", "posts", -1)
		return err
	})
	return nil
}
