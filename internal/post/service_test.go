package post

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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-service/internal/activity"
	"social-service/internal/blob"
	"social-service/internal/counter"
	"social-service/internal/fanout"
	"social-service/internal/shared/httpx"
	"social-service/internal/store"
	"social-service/internal/user"
)

type fakeBlobs struct {
	mu   sync.Mutex
	puts int
}

func (f *fakeBlobs) Put(_ context.Context, data []byte, filename, contentType string) (blob.Ref, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	return blob.Ref{Provider: "telegram", FileID: "fid-" + filename, UniqueID: "uid-" + filename}, nil
}

func (f *fakeBlobs) Resolve(_ context.Context, ref blob.Ref) (string, error) {
	return "https://cdn.test/" + ref.FileID, nil
}

func (f *fakeBlobs) Download(context.Context, blob.Ref) ([]byte, error) { return nil, nil }

func (f *fakeBlobs) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

type memStore struct {
	mu    sync.Mutex
	data  map[string]json.RawMessage
	pushN int
}

func (f *memStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.Trim(strings.TrimSuffix(r.URL.Path, ".json"), "/")
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("ETag", "rev")
		v, ok := f.data[path]
		if !ok {
			_, _ = w.Write([]byte("null"))
			return
		}
		_, _ = w.Write(v)
	case http.MethodPut, http.MethodPatch:
		body, _ := io.ReadAll(r.Body)
		f.data[path] = body
		_, _ = w.Write(body)
	case http.MethodPost:
		f.pushN++
		key := fmt.Sprintf("-P%03d", f.pushN)
		body, _ := io.ReadAll(r.Body)
		f.data[path+"/"+key] = body
		_ = json.NewEncoder(w).Encode(map[string]string{"name": key})
	case http.MethodDelete:
		delete(f.data, path)
		_, _ = w.Write([]byte("null"))
	}
}

func (f *memStore) get(path string, out any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[path]
	if !ok {
		return false
	}
	_ = json.Unmarshal(v, out)
	return true
}

func (f *memStore) keysWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for p := range f.data {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func newTestService(t *testing.T) (Service, *fakeBlobs, *memStore, *activity.Notifier) {
	t.Helper()
	blobs := &fakeBlobs{}
	mem := &memStore{data: map[string]json.RawMessage{}}
	srv := httptest.NewServer(mem)
	t.Cleanup(srv.Close)

	st := store.New(store.Config{BaseURL: srv.URL})
	notifier := activity.NewNotifier(2 * time.Second)
	svc := NewService(blobs, st, fanout.NewWriter(st), user.NewService(st),
		counter.NewStore(st), activity.NewService(st, nil), notifier)
	return svc, blobs, mem, notifier
}

func carousel() []File {
	return []File{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "b.txt", ContentType: "text/plain", Data: []byte("b")},
		{Name: "c.mp4", ContentType: "video/mp4", Data: []byte("c")},
	}
}

func TestCreateSkipsInvalidAndContinues(t *testing.T) {
	svc, blobs, _, _ := newTestService(t)

	p, skipped, err := svc.Create(context.Background(), "u1", carousel(), Content{Caption: "trip"})
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, p.Media, 2)
	assert.Equal(t, 2, blobs.putCount())

	// order_index strictly increasing
	assert.Equal(t, 0, p.Media[0].OrderIndex)
	assert.Equal(t, 1, p.Media[1].OrderIndex)
	assert.Equal(t, "image", p.Media[0].Type)
	assert.Equal(t, "video", p.Media[1].Type)
}

func TestCreateAllInvalidIsValidationError(t *testing.T) {
	svc, blobs, mem, _ := newTestService(t)

	files := []File{
		{Name: "a.txt", ContentType: "text/plain", Data: []byte("a")},
		{Name: "b.png", ContentType: "image/png", Data: make([]byte, 11<<20)},
	}
	_, skipped, err := svc.Create(context.Background(), "u1", files, Content{})
	require.ErrorIs(t, err, httpx.ErrInvalid)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 0, blobs.putCount())
	assert.Empty(t, mem.keysWithPrefix(""))
}

func TestCreateFansOutToAllIndexes(t *testing.T) {
	svc, _, mem, _ := newTestService(t)

	p, _, err := svc.Create(context.Background(), "u1",
		[]File{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")}}, Content{})
	require.NoError(t, err)

	var full Post
	require.True(t, mem.get("posts/"+p.ID, &full))
	assert.Equal(t, "u1", full.UserID)
	require.Len(t, full.Media, 1)
	assert.Empty(t, full.Media[0].URL, "stored record must not embed resolved URLs")

	var ptr fanout.Pointer
	require.True(t, mem.get("users/u1/posts/"+p.ID, &ptr))
	assert.Equal(t, p.ID, ptr.ID)
	assert.Equal(t, "u1", ptr.Owner)

	timeline := mem.keysWithPrefix("timeline/")
	require.Len(t, timeline, 1)
}

func TestCreateExtractsDiscoveryTokens(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	p, _, err := svc.Create(context.Background(), "u1",
		[]File{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")}},
		Content{Caption: "at the #Beach with @carol #sunset"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beach", "sunset"}, p.Discovery.Hashtags)
	assert.Equal(t, []string{"carol"}, p.Discovery.Mentions)
}

func TestCreateRunsBackgroundCountAndActivity(t *testing.T) {
	svc, _, mem, notifier := newTestService(t)

	p, _, err := svc.Create(context.Background(), "u1",
		[]File{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")}}, Content{})
	require.NoError(t, err)
	notifier.Wait()

	var n int64
	require.True(t, mem.get("users/u1/counts/posts", &n))
	assert.Equal(t, int64(1), n)

	acts := mem.keysWithPrefix("activities/u1/")
	require.Len(t, acts, 1)

	var a activity.Activity
	require.True(t, mem.get(acts[0], &a))
	assert.Equal(t, activity.TypePost, a.Type)
	assert.Equal(t, p.ID, a.SubjectID)
}

func TestDeleteRemovesPrimaryAndUserIndex(t *testing.T) {
	svc, _, mem, notifier := newTestService(t)

	p, _, err := svc.Create(context.Background(), "u1",
		[]File{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")}}, Content{})
	require.NoError(t, err)
	notifier.Wait()

	require.NoError(t, svc.Delete(context.Background(), "u1", p.ID))
	assert.False(t, mem.get("posts/"+p.ID, new(Post)))
	assert.False(t, mem.get("users/u1/posts/"+p.ID, new(fanout.Pointer)))
}

func TestDeleteRejectsForeignPost(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	p, _, err := svc.Create(context.Background(), "u1",
		[]File{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")}}, Content{})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "u2", p.ID)
	assert.ErrorIs(t, err, httpx.ErrInvalid)
}

func TestDeleteMissingPost(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	err := svc.Delete(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, httpx.ErrInvalid)
}

func TestGetResolvesFreshURLs(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	p, _, err := svc.Create(context.Background(), "u1",
		[]File{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")}}, Content{})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "u1", p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://cdn.test/fid-a.jpg", got.Media[0].URL)

	// wrong owner reads nothing
	got, err = svc.Get(context.Background(), "u2", p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
