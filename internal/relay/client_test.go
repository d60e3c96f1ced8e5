package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTelegram serves just enough of the bot API for the client: sendPhoto,
// sendDocument, getFile and raw file downloads, per token.
type fakeTelegram struct {
	t           *testing.T
	failTokens  map[string]bool
	attempts    atomic.Int64
	photoCalls  atomic.Int64
	docCalls    atomic.Int64
	lastChatID  string
	fileContent []byte
}

func (f *fakeTelegram) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 3)
		switch {
		case strings.HasPrefix(parts[0], "file"):
			// /file/bot<token>/<path>
			_, _ = w.Write(f.fileContent)
		case len(parts) >= 2:
			token := strings.TrimPrefix(parts[0], "bot")
			f.serveMethod(w, r, token, parts[1])
		default:
			http.NotFound(w, r)
		}
	})
	return mux
}

func (f *fakeTelegram) serveMethod(w http.ResponseWriter, r *http.Request, token, method string) {
	f.attempts.Add(1)
	if f.failTokens[token] {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "Unauthorized"})
		return
	}
	switch method {
	case "sendPhoto":
		f.photoCalls.Add(1)
		require.NoError(f.t, r.ParseMultipartForm(16<<20))
		f.lastChatID = r.FormValue("chat_id")
		_, _, err := r.FormFile("photo")
		require.NoError(f.t, err)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"result": map[string]any{
				"message_id": 41,
				"photo": []map[string]any{
					{"file_id": "small-" + token, "file_unique_id": "uniq-small"},
					{"file_id": "big-" + token, "file_unique_id": "uniq-big"},
				},
			},
		})
	case "sendDocument":
		f.docCalls.Add(1)
		require.NoError(f.t, r.ParseMultipartForm(16<<20))
		f.lastChatID = r.FormValue("chat_id")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"result": map[string]any{
				"message_id": 42,
				"document":   map[string]any{"file_id": "doc-" + token, "file_unique_id": "uniq-doc"},
			},
		})
	case "getFile":
		require.NoError(f.t, r.ParseForm())
		fileID := r.FormValue("file_id")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"file_path": fmt.Sprintf("photos/%s.jpg", fileID)},
		})
	case "getMe":
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeTelegram, tokens []string, strategy Strategy) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	pool, err := NewPool(tokens, strategy)
	require.NoError(t, err)
	return New(pool, Config{ChatID: "-100555", BaseURL: srv.URL})
}

func TestPutPhotoPicksBestQualityVariant(t *testing.T) {
	fake := &fakeTelegram{t: t}
	c := newTestClient(t, fake, []string{"tok-a"}, StrategyFailover)

	ref, err := c.Put(context.Background(), []byte("jpegdata"), "x.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "big-tok-a", ref.FileID)
	assert.Equal(t, "uniq-big", ref.UniqueID)
	assert.Equal(t, int64(41), ref.MessageID)
	assert.Equal(t, 0, ref.Credential)
	assert.Equal(t, "-100555", fake.lastChatID)
	assert.Equal(t, int64(1), fake.photoCalls.Load())
	assert.Equal(t, int64(0), fake.docCalls.Load())
}

func TestPutNonImageUsesSendDocument(t *testing.T) {
	fake := &fakeTelegram{t: t}
	c := newTestClient(t, fake, []string{"tok-a"}, StrategyFailover)

	ref, err := c.Put(context.Background(), []byte("mp4data"), "v.mp4", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "doc-tok-a", ref.FileID)
	assert.Equal(t, int64(1), fake.docCalls.Load())
	assert.Equal(t, int64(0), fake.photoCalls.Load())
}

func TestPutFailoverSkipsBrokenCredential(t *testing.T) {
	fake := &fakeTelegram{t: t, failTokens: map[string]bool{"tok-a": true}}
	c := newTestClient(t, fake, []string{"tok-a", "tok-b"}, StrategyFailover)

	ref, err := c.Put(context.Background(), []byte("d"), "x.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "big-tok-b", ref.FileID)
	assert.Equal(t, 1, ref.Credential)
}

func TestPutFailoverExhaustionIsTerminal(t *testing.T) {
	fake := &fakeTelegram{t: t, failTokens: map[string]bool{"tok-a": true, "tok-b": true}}
	c := newTestClient(t, fake, []string{"tok-a", "tok-b"}, StrategyFailover)

	_, err := c.Put(context.Background(), []byte("d"), "x.jpg", "image/jpeg")
	require.Error(t, err)
	var ue *UploadError
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, int64(2), fake.attempts.Load())
}

func TestPutRandomSingleAttempt(t *testing.T) {
	fake := &fakeTelegram{t: t, failTokens: map[string]bool{"tok-a": true, "tok-b": true}}
	c := newTestClient(t, fake, []string{"tok-a", "tok-b"}, StrategyRandom)

	_, err := c.Put(context.Background(), []byte("d"), "x.jpg", "image/jpeg")
	require.Error(t, err)
	// one attempt only, whichever credential was drawn
	assert.Equal(t, int64(1), fake.attempts.Load())
}

func TestResolveUsesUploadingCredentialAndIsStable(t *testing.T) {
	fake := &fakeTelegram{t: t}
	c := newTestClient(t, fake, []string{"tok-a", "tok-b"}, StrategyRoundRobin)

	ref, err := c.Put(context.Background(), []byte("d"), "x.jpg", "image/jpeg")
	require.NoError(t, err)

	url1, err := c.Resolve(context.Background(), ref)
	require.NoError(t, err)
	url2, err := c.Resolve(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, url1, url2)
	assert.Contains(t, url1, "/file/bottok-a/")
}

func TestDownloadRoundTrip(t *testing.T) {
	fake := &fakeTelegram{t: t, fileContent: []byte("the-bytes")}
	c := newTestClient(t, fake, []string{"tok-a"}, StrategyFailover)

	ref, err := c.Put(context.Background(), []byte("the-bytes"), "x.jpg", "image/jpeg")
	require.NoError(t, err)

	got, err := c.Download(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("the-bytes"), got)
}

func TestPing(t *testing.T) {
	fake := &fakeTelegram{t: t}
	c := newTestClient(t, fake, []string{"tok-a"}, StrategyFailover)
	assert.NoError(t, c.Ping(context.Background()))
}
