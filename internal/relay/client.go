// Package relay stores media by forwarding it through the Telegram bot API,
// which hands back identifiers that can be resolved to download URLs later.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"social-service/internal/blob"
)

const defaultBaseURL = "https://api.telegram.org"

// UploadError is the terminal failure kind for every relay operation.
// No call is ever retried.
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("relay %s: %v", e.Op, e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

type Config struct {
	ChatID  string
	BaseURL string
	// Timeout bounds every call; uploads get UploadTimeout since payloads
	// run up to the 10 MiB ceiling.
	Timeout       time.Duration
	UploadTimeout time.Duration
}

type Client struct {
	pool   *Pool
	chatID string
	base   string
	httpc  *http.Client
	upc    *http.Client
}

func New(pool *Pool, cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	upTimeout := cfg.UploadTimeout
	if upTimeout <= 0 {
		upTimeout = 30 * time.Second
	}
	return &Client{
		pool:   pool,
		chatID: cfg.ChatID,
		base:   strings.TrimRight(base, "/"),
		httpc:  &http.Client{Timeout: timeout},
		upc:    &http.Client{Timeout: upTimeout},
	}
}

type fileInfo struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	FileSize     int64  `json:"file_size"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64      `json:"message_id"`
		Photo     []fileInfo `json:"photo"`
		Document  *fileInfo  `json:"document"`
		FilePath  string     `json:"file_path"`
	} `json:"result"`
}

// Put uploads the payload through one of the pool's bots. Images go through
// sendPhoto so Telegram generates quality variants; everything else is sent
// as a document. In failover mode each credential is attempted once, in
// order; other strategies make exactly one attempt.
func (c *Client) Put(ctx context.Context, data []byte, filename, contentType string) (blob.Ref, error) {
	var lastErr error
	for _, idx := range c.pool.SelectForUpload() {
		cred, err := c.pool.ByIndex(idx)
		if err != nil {
			return blob.Ref{}, &UploadError{Op: "upload", Err: err}
		}
		ref, err := c.uploadWith(ctx, cred, idx, data, filename, contentType)
		if err == nil {
			return ref, nil
		}
		lastErr = err
	}
	return blob.Ref{}, &UploadError{Op: "upload", Err: lastErr}
}

func (c *Client) uploadWith(ctx context.Context, cred Credential, idx int, data []byte, filename, contentType string) (blob.Ref, error) {
	method, field := "sendDocument", "document"
	if strings.HasPrefix(contentType, "image/") {
		method, field = "sendPhoto", "photo"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("chat_id", c.chatID); err != nil {
		return blob.Ref{}, err
	}
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return blob.Ref{}, err
	}
	if _, err := fw.Write(data); err != nil {
		return blob.Ref{}, err
	}
	if err := mw.Close(); err != nil {
		return blob.Ref{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/%s", c.base, cred.Token, method), &buf)
	if err != nil {
		return blob.Ref{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.upc.Do(req)
	if err != nil {
		return blob.Ref{}, err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return blob.Ref{}, fmt.Errorf("decode response: %w", err)
	}
	if !out.OK {
		return blob.Ref{}, fmt.Errorf("remote rejected upload: %s", out.Description)
	}

	var fi fileInfo
	switch {
	case len(out.Result.Photo) > 0:
		// Telegram lists variants smallest first; take the best quality.
		fi = out.Result.Photo[len(out.Result.Photo)-1]
	case out.Result.Document != nil:
		fi = *out.Result.Document
	default:
		return blob.Ref{}, fmt.Errorf("response carries no file info")
	}

	return blob.Ref{
		Provider:   "telegram",
		FileID:     fi.FileID,
		UniqueID:   fi.FileUniqueID,
		MessageID:  out.Result.MessageID,
		Credential: idx,
	}, nil
}

// Resolve turns a ref into a fresh download URL. Stable ids are not assumed
// to resolve across bots, so the credential that uploaded is reused.
func (c *Client) Resolve(ctx context.Context, ref blob.Ref) (string, error) {
	cred, err := c.pool.ByIndex(ref.Credential)
	if err != nil {
		return "", &UploadError{Op: "resolve", Err: err}
	}

	body := strings.NewReader("file_id=" + ref.FileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/getFile", c.base, cred.Token), body)
	if err != nil {
		return "", &UploadError{Op: "resolve", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &UploadError{Op: "resolve", Err: err}
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &UploadError{Op: "resolve", Err: err}
	}
	if !out.OK || out.Result.FilePath == "" {
		return "", &UploadError{Op: "resolve", Err: fmt.Errorf("getFile failed: %s", out.Description)}
	}
	return fmt.Sprintf("%s/file/bot%s/%s", c.base, cred.Token, out.Result.FilePath), nil
}

// Download resolves the ref and fetches the bytes.
func (c *Client) Download(ctx context.Context, ref blob.Ref) ([]byte, error) {
	url, err := c.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UploadError{Op: "download", Err: err}
	}
	resp, err := c.upc.Do(req)
	if err != nil {
		return nil, &UploadError{Op: "download", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &UploadError{Op: "download", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{Op: "download", Err: err}
	}
	return data, nil
}

// Ping checks reachability with getMe on the first credential.
func (c *Client) Ping(ctx context.Context) error {
	cred, err := c.pool.ByIndex(0)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/bot%s/getMe", c.base, cred.Token), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay ping: status %d", resp.StatusCode)
	}
	return nil
}
