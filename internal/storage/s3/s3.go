// Package s3 is the S3-compatible blob backend, selectable with
// STORAGE_BACKEND=s3 when relaying through a bot API is not wanted.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"social-service/internal/blob"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PresignTTL bounds how long resolved URLs stay valid.
	PresignTTL time.Duration
}

type Storage struct {
	cfg    Config
	client *minio.Client
}

func New(cfg Config) (*Storage, error) {
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	cl, err := minio.New(strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Storage{cfg: cfg, client: cl}, nil
}

func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Put stores the payload under a generated key. The key doubles as both the
// transient and the stable identifier; there is no credential affinity.
func (s *Storage) Put(ctx context.Context, data []byte, filename, contentType string) (blob.Ref, error) {
	key := uuid.NewString() + "-" + filename
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return blob.Ref{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return blob.Ref{Provider: "s3", FileID: key, UniqueID: key}, nil
}

// Resolve returns a fresh presigned GET URL.
func (s *Storage) Resolve(ctx context.Context, ref blob.Ref) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, ref.FileID, s.cfg.PresignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("s3 presign %s: %w", ref.FileID, err)
	}
	return u.String(), nil
}

func (s *Storage) Download(ctx context.Context, ref blob.Ref) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, ref.FileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", ref.FileID, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", ref.FileID, err)
	}
	return data, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	return err
}
