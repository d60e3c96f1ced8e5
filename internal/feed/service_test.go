package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-service/internal/blob"
	"social-service/internal/fanout"
	"social-service/internal/post"
	"social-service/internal/store"
)

type countingBlobs struct {
	mu       sync.Mutex
	resolves int
}

func (f *countingBlobs) Put(context.Context, []byte, string, string) (blob.Ref, error) {
	return blob.Ref{}, nil
}

func (f *countingBlobs) Resolve(_ context.Context, ref blob.Ref) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolves++
	return fmt.Sprintf("https://cdn.test/%s?n=%d", ref.FileID, f.resolves), nil
}

func (f *countingBlobs) Download(context.Context, blob.Ref) ([]byte, error) { return nil, nil }

type fixtureStore struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func (f *fixtureStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := strings.Trim(strings.TrimSuffix(r.URL.Path, ".json"), "/")
	if v, ok := f.data[path]; ok {
		_, _ = w.Write(v)
		return
	}
	_, _ = w.Write([]byte("null"))
}

func (f *fixtureStore) seed(path string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, _ := json.Marshal(v)
	f.data[path] = b
}

func newTestService(t *testing.T) (Service, *fixtureStore, *countingBlobs) {
	t.Helper()
	mem := &fixtureStore{data: map[string]json.RawMessage{}}
	srv := httptest.NewServer(mem)
	t.Cleanup(srv.Close)

	blobs := &countingBlobs{}
	return NewService(store.New(store.Config{BaseURL: srv.URL}), blobs), mem, blobs
}

// seedPosts plants n posts plus a timeline pointer for each, with strictly
// increasing timestamps so post n-1 is the newest.
func seedPosts(mem *fixtureStore, n int) []string {
	index := map[string]fanout.Pointer{}
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("post-%02d", i)
		ids[i] = id
		ts := fmt.Sprintf("2026-03-01T12:00:%02d.000000Z", i)
		mem.seed("posts/"+id, post.Post{ID: id, UserID: "u1", CreatedAt: ts})
		index[fmt.Sprintf("-K%02d", i)] = fanout.Pointer{ID: id, Owner: "u1", Timestamp: ts}
	}
	mem.seed("timeline", index)
	return ids
}

func TestListIndexNewestFirst(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ids := seedPosts(mem, 5)

	page, err := svc.ListIndex(context.Background(), "timeline", 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.Equal(t, 5, page.Total)
	assert.False(t, page.HasMore)
	for i, p := range page.Items {
		assert.Equal(t, ids[4-i], p.ID)
	}
}

func TestListIndexPagination(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seedPosts(mem, 7)

	cases := []struct {
		limit, offset, want int
		hasMore             bool
	}{
		{3, 0, 3, true},
		{3, 3, 3, true},
		{3, 6, 1, false},
		{3, 7, 0, false},
		{3, 100, 0, false},
		{100, 0, 7, false},
	}
	for _, tc := range cases {
		page, err := svc.ListIndex(context.Background(), "timeline", tc.limit, tc.offset)
		require.NoError(t, err)
		assert.Len(t, page.Items, tc.want, "limit=%d offset=%d", tc.limit, tc.offset)
		assert.Equal(t, tc.hasMore, page.HasMore, "limit=%d offset=%d", tc.limit, tc.offset)
		assert.Equal(t, 7, page.Total)
	}
}

func TestListIndexDropsDanglingPointers(t *testing.T) {
	svc, mem, _ := newTestService(t)
	mem.seed("timeline", map[string]fanout.Pointer{
		"-Ka": {ID: "alive", Timestamp: "2026-03-01T12:00:01.000000Z"},
		"-Kb": {ID: "deleted", Timestamp: "2026-03-01T12:00:02.000000Z"},
	})
	mem.seed("posts/alive", post.Post{ID: "alive"})

	page, err := svc.ListIndex(context.Background(), "timeline", 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alive", page.Items[0].ID)
	assert.Equal(t, 2, page.Total)
}

func TestListIndexEmptyCollection(t *testing.T) {
	svc, _, _ := newTestService(t)
	page, err := svc.ListIndex(context.Background(), "timeline", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Equal(t, 0, page.Total)
}

func TestListIndexResolvesFreshURLPerRead(t *testing.T) {
	svc, mem, blobs := newTestService(t)
	mem.seed("timeline", map[string]fanout.Pointer{
		"-Ka": {ID: "p1", Timestamp: "2026-03-01T12:00:01.000000Z"},
	})
	mem.seed("posts/p1", post.Post{ID: "p1", Media: []post.MediaItem{
		{MediaID: "m1", Ref: blob.Ref{FileID: "fid-1"}},
	}})

	first, err := svc.ListIndex(context.Background(), "timeline", 10, 0)
	require.NoError(t, err)
	second, err := svc.ListIndex(context.Background(), "timeline", 10, 0)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/fid-1?n=1", first.Items[0].Media[0].URL)
	assert.Equal(t, "https://cdn.test/fid-1?n=2", second.Items[0].Media[0].URL)
	assert.Equal(t, 2, blobs.resolves)
}

func TestListIndexOnlyDereferencesRequestedWindow(t *testing.T) {
	svc, mem, blobs := newTestService(t)
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("p%d", i)
		mem.seed("posts/"+id, post.Post{ID: id, Media: []post.MediaItem{{MediaID: id, Ref: blob.Ref{FileID: id}}}})
	}
	index := map[string]fanout.Pointer{}
	for i := 0; i < 6; i++ {
		index[fmt.Sprintf("-K%d", i)] = fanout.Pointer{
			ID:        fmt.Sprintf("p%d", i),
			Timestamp: fmt.Sprintf("2026-03-01T12:00:%02d.000000Z", i),
		}
	}
	mem.seed("timeline", index)

	_, err := svc.ListIndex(context.Background(), "timeline", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, blobs.resolves)
}
