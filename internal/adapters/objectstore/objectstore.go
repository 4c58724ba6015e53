// Package objectstore uploads attachments to named buckets and resolves stored paths to public URLs.
//
// A stored path has the form "<bucket>/<key>". Rows persist that path; readers turn it into a URL
// at read time through a Resolver so the public host can change without rewriting data.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
)

// Bucket names used by submissions.
const (
	BucketEvents     = "events"
	BucketDonations  = "donations"
	BucketBusinesses = "businesses"
	BucketHostel     = "hostel"
	BucketProfiles   = "profiles"
)

// ErrInvalidKey is returned for keys that are empty, absolute, or escape the bucket.
var ErrInvalidKey = errors.New("invalid object key")

// Bucket is one named container of objects.
type Bucket interface {
	// Upload stores r under key and returns the stored path "<bucket>/<key>".
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// PublicURL returns the URL a client can fetch key from.
	PublicURL(key string) string
}

// Store hands out buckets by name.
type Store interface {
	Bucket(name string) Bucket
}

// StoredPath joins bucket and key.
func StoredPath(bucket, key string) string {
	return bucket + "/" + key
}

// SplitPath is the inverse of StoredPath.
func SplitPath(stored string) (bucket, key string, ok bool) {
	bucket, key, ok = strings.Cut(stored, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// CleanKey validates key.
// POST: Returns the cleaned key or ErrInvalidKey
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

// Extension returns the lower-cased extension of filename without the dot, or "bin".
func Extension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" || strings.ContainsAny(ext, "/\\ ") {
		return "bin"
	}
	return ext
}

// SniffContentType reads up to 512 bytes of r to detect its content type.
// POST: The returned reader yields the full original stream
func SniffContentType(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}

// Resolver maps stored paths to public URLs.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// PublicURL resolves a stored path. Absolute http(s) URLs and empty values pass through unchanged.
func (r *Resolver) PublicURL(stored string) string {
	if stored == "" || strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		return stored
	}
	if r == nil || r.store == nil {
		return stored
	}
	bucket, key, ok := SplitPath(strings.TrimPrefix(stored, "/"))
	if !ok {
		return stored
	}
	return r.store.Bucket(bucket).PublicURL(key)
}

// PublicURLs resolves each stored path.
func (r *Resolver) PublicURLs(stored []string) []string {
	out := make([]string, len(stored))
	for i, s := range stored {
		out[i] = r.PublicURL(s)
	}
	return out
}
