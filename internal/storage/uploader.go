package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxUploadSize caps rich-text image uploads at 10 MiB.
const MaxUploadSize = 10 << 20

// allowedTypes maps accepted image content types to their file extension.
var allowedTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// AllowedType reports whether contentType is an accepted image type.
func AllowedType(contentType string) bool {
	_, ok := allowedTypes[contentType]
	return ok
}

// Uploader stores editor image uploads in an S3-compatible bucket and hands
// back public URLs for embedding in post bodies.
type Uploader struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
	now      func() time.Time
}

// Options configures the Uploader. Endpoint is optional; set it to point at
// MinIO or another S3-compatible store, which also switches the client to
// path-style addressing.
type Options struct {
	Bucket   string
	Region   string
	Endpoint string
	BaseURL  string
}

// NewUploader creates an Uploader from the ambient AWS credential chain.
func NewUploader(ctx context.Context, opts Options) (*Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}

	return &Uploader{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		baseURL:  baseURL,
		now:      time.Now,
	}, nil
}

// Upload reads at most MaxUploadSize bytes from r and stores them under a
// fresh key. It returns the public URL of the stored object.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, contentType string) (string, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("upload exceeds %d bytes", MaxUploadSize)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}

	key := u.keyFor(ext)
	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading to bucket %s: %w", u.bucket, err)
	}

	return u.baseURL + "/" + key, nil
}

// Delete removes a previously uploaded object by key.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}

// keyFor builds an object key bucketed by year/month so listings in the
// console stay navigable.
func (u *Uploader) keyFor(ext string) string {
	t := u.now().UTC()
	return fmt.Sprintf("uploads/%04d/%02d/%s.%s", t.Year(), t.Month(), uuid.NewString(), ext)
}
