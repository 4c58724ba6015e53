package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects on the filesystem under root/<bucket>/<key>
// and serves them under baseURL/<bucket>/<key>.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates a filesystem store.
// PRE: root is writable; baseURL is the prefix the HTTP server exposes files under
func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Bucket returns the named bucket.
func (s *LocalStore) Bucket(name string) Bucket {
	return &localBucket{store: s, name: name}
}

// Open returns the object at bucket/key for serving.
func (s *LocalStore) Open(bucket, key string) (*os.File, error) {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *LocalStore) objectPath(bucket, key string) (string, error) {
	if _, err := CleanKey(bucket); err != nil || strings.Contains(bucket, "/") {
		return "", fmt.Errorf("%w: bucket %q", ErrInvalidKey, bucket)
	}
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(k)), nil
}

type localBucket struct {
	store *LocalStore
	name  string
}

// Upload writes to a temp file and renames it into place so readers never see partial objects.
func (b *localBucket) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest, err := b.store.objectPath(b.name, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write object %s/%s: %w", b.name, key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("commit object: %w", err)
	}
	k, _ := CleanKey(key)
	return StoredPath(b.name, k), nil
}

func (b *localBucket) PublicURL(key string) string {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return b.store.baseURL + "/" + url.PathEscape(b.name) + "/" + strings.Join(segs, "/")
}
