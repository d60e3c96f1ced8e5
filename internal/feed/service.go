// Package feed serves ordered, paginated reads over the denormalized
// indexes the fan-out writer maintains.
package feed

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"social-service/internal/blob"
	"social-service/internal/fanout"
	"social-service/internal/post"
	"social-service/internal/store"
)

type Page struct {
	Items   []post.Post `json:"items"`
	HasMore bool        `json:"has_more"`
	Total   int         `json:"total"`
}

type Service interface {
	// ListIndex reads a pointer collection, sorts it by timestamp
	// descending, slices [offset, offset+limit) and dereferences each
	// pointer through the primary posts path, resolving a fresh media URL
	// per item. Pointers whose record is missing (partial fan-out,
	// deleted post) are dropped, never an error. An absent collection is
	// an empty page.
	ListIndex(ctx context.Context, indexPath string, limit, offset int) (Page, error)
}

type service struct {
	st    *store.Client
	blobs blob.Store
}

func NewService(st *store.Client, blobs blob.Store) Service {
	return &service{st: st, blobs: blobs}
}

func (s *service) ListIndex(ctx context.Context, indexPath string, limit, offset int) (Page, error) {
	var raw map[string]fanout.Pointer
	found, err := s.st.Get(ctx, indexPath, &raw)
	if err != nil {
		return Page{}, err
	}
	if !found || len(raw) == 0 {
		return Page{Items: []post.Post{}}, nil
	}

	ptrs := make([]fanout.Pointer, 0, len(raw))
	for _, p := range raw {
		ptrs = append(ptrs, p)
	}
	// Timestamps are fixed-width RFC3339 UTC, so string order is
	// chronological order.
	sort.Slice(ptrs, func(i, j int) bool { return ptrs[i].Timestamp > ptrs[j].Timestamp })

	total := len(ptrs)
	if offset >= total {
		return Page{Items: []post.Post{}, Total: total}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	items := make([]post.Post, 0, end-offset)
	for _, ptr := range ptrs[offset:end] {
		var p post.Post
		found, err := s.st.Get(ctx, "posts/"+ptr.ID, &p)
		if err != nil {
			return Page{}, err
		}
		if !found {
			// dangling pointer from a partial fan-out or a delete
			continue
		}
		for i := range p.Media {
			url, err := s.blobs.Resolve(ctx, p.Media[i].Ref)
			if err != nil {
				log.Warn().Err(err).Str("post", p.ID).Msg("media url resolution failed")
				continue
			}
			p.Media[i].URL = url
		}
		items = append(items, p)
	}

	return Page{
		Items:   items,
		HasMore: total > offset+limit,
		Total:   total,
	}, nil
}
