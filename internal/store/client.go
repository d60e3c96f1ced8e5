// Package store is a client for a path-addressed JSON document database
// exposed over REST (Firebase Realtime Database wire format): every path
// maps to <base>/<path>.json and supports PUT/GET/POST/PATCH/DELETE.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error is the failure kind for every store operation. Operations are
// independent round-trips; there is no transactional grouping and no retry.
type Error struct {
	Op     string
	Path   string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store %s %s: status %d", e.Op, e.Path, e.Status)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrConflict reports a failed conditional write (ETag mismatch).
var ErrConflict = errors.New("store: precondition failed")

type Config struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

type Client struct {
	base  string
	auth  string
	httpc *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		auth:  cfg.AuthToken,
		httpc: &http.Client{Timeout: timeout},
	}
}

func (c *Client) url(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.auth != "" {
		query.Set("auth", c.auth)
	}
	u := c.base + "/" + strings.Trim(path, "/") + ".json"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, header http.Header) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Path: path, Err: err}
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), rd)
	if err != nil {
		return nil, &Error{Op: op, Path: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Path: path, Err: err}
	}
	return resp, nil
}

// Set writes the value at path, replacing whatever is there.
func (c *Client) Set(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, "set", http.MethodPut, path, nil, v, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &Error{Op: "set", Path: path, Status: resp.StatusCode}
	}
	return nil
}

// Get reads the value at path into out. An absent path is not an error:
// found reports whether anything was stored there.
func (c *Client) Get(ctx context.Context, path string, out any) (found bool, err error) {
	resp, err := c.do(ctx, "get", http.MethodGet, path, nil, nil, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return false, &Error{Op: "get", Path: path, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, &Error{Op: "get", Path: path, Err: err}
	}
	if isNull(body) {
		return false, nil
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return false, &Error{Op: "get", Path: path, Err: err}
		}
	}
	return true, nil
}

// Push appends the value under a server-generated key and returns the key.
func (c *Client) Push(ctx context.Context, path string, v any) (string, error) {
	resp, err := c.do(ctx, "push", http.MethodPost, path, nil, v, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", &Error{Op: "push", Path: path, Status: resp.StatusCode}
	}
	var out struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Op: "push", Path: path, Err: err}
	}
	return out.Name, nil
}

// Update patches only the given fields at path.
func (c *Client) Update(ctx context.Context, path string, fields map[string]any) error {
	resp, err := c.do(ctx, "update", http.MethodPatch, path, nil, fields, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &Error{Op: "update", Path: path, Status: resp.StatusCode}
	}
	return nil
}

// Delete removes the value at path. Deleting an absent path succeeds.
func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.do(ctx, "delete", http.MethodDelete, path, nil, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return &Error{Op: "delete", Path: path, Status: resp.StatusCode}
	}
	return nil
}

// GetWithETag reads path along with its entity tag for a later conditional
// write. Absent paths return found=false with the tag of the null value.
func (c *Client) GetWithETag(ctx context.Context, path string, out any) (etag string, found bool, err error) {
	h := http.Header{}
	h.Set("X-Firebase-ETag", "true")
	resp, err := c.do(ctx, "get", http.MethodGet, path, nil, nil, h)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", false, &Error{Op: "get", Path: path, Status: resp.StatusCode}
	}
	etag = resp.Header.Get("ETag")
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, &Error{Op: "get", Path: path, Err: err}
	}
	if isNull(body) {
		return etag, false, nil
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return "", false, &Error{Op: "get", Path: path, Err: err}
		}
	}
	return etag, true, nil
}

// SetIfMatch writes path only if it still carries etag, returning
// ErrConflict when someone else won the race.
func (c *Client) SetIfMatch(ctx context.Context, path string, v any, etag string) error {
	h := http.Header{}
	h.Set("if-match", etag)
	resp, err := c.do(ctx, "set", http.MethodPut, path, nil, v, h)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusPreconditionFailed {
		return &Error{Op: "set", Path: path, Status: resp.StatusCode, Err: ErrConflict}
	}
	if resp.StatusCode >= 300 {
		return &Error{Op: "set", Path: path, Status: resp.StatusCode}
	}
	return nil
}

// Ping issues a shallow read of the root to probe reachability.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("shallow", "true")
	resp, err := c.do(ctx, "ping", http.MethodGet, "", q, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &Error{Op: "ping", Path: "/", Status: resp.StatusCode}
	}
	return nil
}

func isNull(body []byte) bool {
	return len(bytes.TrimSpace(body)) == 0 || string(bytes.TrimSpace(body)) == "null"
}
