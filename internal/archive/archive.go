// Package archive uploads approved submission reports to object storage so
// an approved snapshot survives later edits. The uploader is optional; when
// not configured the portal runs without it.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// IsConfigured returns true when enough settings are present to connect.
func (c Config) IsConfigured() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// Uploader stores approved report PDFs in a bucket.
type Uploader struct {
	client *minio.Client
	bucket string
}

// NewUploader connects to object storage and ensures the bucket exists.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &Uploader{client: client, bucket: cfg.Bucket}, nil
}

// StoreApprovedReport uploads a report PDF under a per-hospital, per-approval
// object name and returns that name.
func (u *Uploader) StoreApprovedReport(ctx context.Context, hospital string, approvedAt time.Time, pdf []byte) (string, error) {
	object := objectName(hospital, approvedAt)
	_, err := u.client.PutObject(ctx, u.bucket, object,
		bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", fmt.Errorf("upload approved report: %w", err)
	}
	return object, nil
}

func objectName(hospital string, approvedAt time.Time) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(hospital), " ", "-"))
	return fmt.Sprintf("approved/%s/%s.pdf", slug, approvedAt.Format("20060102-150405"))
}
