package counter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-service/internal/store"
)

// conflictingStore serves ETag reads and conditional writes, and can inject
// a competing write between a client's read and its conditional put.
type conflictingStore struct {
	mu        sync.Mutex
	vals      map[string]int64
	revs      map[string]int
	conflicts int // number of reads after which a competing write sneaks in
}

func (f *conflictingStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.Trim(strings.TrimSuffix(r.URL.Path, ".json"), "/")
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("ETag", fmt.Sprintf("rev-%d", f.revs[path]))
		v, ok := f.vals[path]
		if !ok {
			_, _ = w.Write([]byte("null"))
			return
		}
		_, _ = w.Write([]byte(fmt.Sprintf("%d", v)))
		if f.conflicts > 0 {
			f.conflicts--
			f.vals[path] += 100
			f.revs[path]++
		}
	case http.MethodPut:
		if m := r.Header.Get("if-match"); m != fmt.Sprintf("rev-%d", f.revs[path]) {
			w.WriteHeader(http.StatusPreconditionFailed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var n int64
		_ = json.Unmarshal(body, &n)
		f.vals[path] = n
		f.revs[path]++
		_, _ = w.Write(body)
	}
}

func newCounter(t *testing.T, conflicts int) (Counter, *conflictingStore) {
	t.Helper()
	fake := &conflictingStore{vals: map[string]int64{}, revs: map[string]int{}, conflicts: conflicts}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewStore(store.New(store.Config{BaseURL: srv.URL})), fake
}

func TestStoreCounterIncrementsFromAbsent(t *testing.T) {
	c, _ := newCounter(t, 0)
	n, err := c.Incr(context.Background(), "posts/p1/engagement", "likes_count", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStoreCounterAccumulates(t *testing.T) {
	c, _ := newCounter(t, 0)
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		n, err := c.Incr(ctx, "users/u1/counts", "posts", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}
}

func TestStoreCounterRetriesPastConflicts(t *testing.T) {
	c, fake := newCounter(t, 0)
	ctx := context.Background()

	_, err := c.Incr(ctx, "posts/p1/engagement", "likes_count", 1)
	require.NoError(t, err)

	fake.mu.Lock()
	fake.conflicts = 2
	fake.mu.Unlock()

	n, err := c.Incr(ctx, "posts/p1/engagement", "likes_count", 1)
	require.NoError(t, err)
	// two competing +100 writes landed before ours did
	assert.Equal(t, int64(202), n)
	assert.Equal(t, 0, fake.conflicts)
}

func TestStoreCounterGivesUpEventually(t *testing.T) {
	c, fake := newCounter(t, 0)
	ctx := context.Background()

	_, err := c.Incr(ctx, "posts/p1/engagement", "likes_count", 1)
	require.NoError(t, err)

	fake.mu.Lock()
	fake.conflicts = 100
	fake.mu.Unlock()

	_, err = c.Incr(ctx, "posts/p1/engagement", "likes_count", 1)
	assert.Error(t, err)
}
