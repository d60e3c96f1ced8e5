// Package blob defines the storage-agnostic contract for uploaded media.
package blob

import "context"

// Ref identifies an uploaded object well enough to fetch it again later.
// FileID is transient on some providers; UniqueID is the stable identifier.
// Credential records which pool entry performed the upload, because stable
// ids are not guaranteed to resolve through a different credential.
type Ref struct {
	Provider   string `json:"provider"`
	FileID     string `json:"file_id"`
	UniqueID   string `json:"file_unique_id,omitempty"`
	MessageID  int64  `json:"message_id,omitempty"`
	Credential int    `json:"credential"`
}

// Store is implemented by the Telegram relay client and the S3 backend.
type Store interface {
	// Put uploads the payload and returns a ref that Resolve accepts.
	Put(ctx context.Context, data []byte, filename, contentType string) (Ref, error)
	// Resolve returns a fresh, short-lived download URL for the ref.
	// Callers must not cache the result.
	Resolve(ctx context.Context, ref Ref) (string, error)
	// Download fetches the object bytes.
	Download(ctx context.Context, ref Ref) ([]byte, error)
}
