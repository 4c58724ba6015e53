package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Config configures an S3 or S3-compatible store.
type S3Config struct {
	Region       string
	Endpoint     string // optional, e.g. a MinIO or R2 endpoint; enables path-style addressing
	BucketPrefix string // prepended to every bucket name
	PublicBase   string // optional CDN base; defaults to the bucket's own URL
}

// S3Store uploads objects with PutObject. Credentials come from the default AWS chain.
type S3Store struct {
	client s3iface.S3API
	cfg    S3Config
}

// NewS3Store creates a session and client for cfg.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return NewS3StoreWithClient(s3.New(sess), cfg), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client s3iface.S3API, cfg S3Config) *S3Store {
	cfg.PublicBase = strings.TrimSuffix(cfg.PublicBase, "/")
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
	return &S3Store{client: client, cfg: cfg}
}

// Bucket returns the named bucket.
func (s *S3Store) Bucket(name string) Bucket {
	return &s3Bucket{store: s, name: name, remote: s.cfg.BucketPrefix + name}
}

type s3Bucket struct {
	store  *S3Store
	name   string
	remote string
}

// Upload buffers r so the SDK can sign and retry the body.
func (b *s3Bucket) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	buf, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.remote),
		Key:    aws.String(k),
		Body:   bytes.NewReader(buf),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := b.store.client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", b.remote, k, err)
	}
	return StoredPath(b.name, k), nil
}

func (b *s3Bucket) PublicURL(key string) string {
	cfg := b.store.cfg
	switch {
	case cfg.PublicBase != "":
		return fmt.Sprintf("%s/%s/%s", cfg.PublicBase, b.remote, key)
	case cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", cfg.Endpoint, b.remote, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.remote, cfg.Region, key)
	}
}
