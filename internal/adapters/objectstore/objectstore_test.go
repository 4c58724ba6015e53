package objectstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func TestExtension(t *testing.T) {
	tests := []struct{ in, want string }{
		{"photo.JPG", "jpg"},
		{"scan.final.pdf", "pdf"},
		{"noext", "bin"},
		{"", "bin"},
		{"dir.d/file", "bin"},
	}
	for _, tt := range tests {
		if got := Extension(tt.in); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "/abs", "../up", "a/../../b", "..", `a\b`} {
		if _, err := CleanKey(bad); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("CleanKey(%q) err = %v, want ErrInvalidKey", bad, err)
		}
	}
	if k, err := CleanKey("h1/./photo.jpg"); err != nil || k != "h1/photo.jpg" {
		t.Errorf("CleanKey = %q, %v", k, err)
	}
}

func TestSniffContentType_PreservesStream(t *testing.T) {
	png := "\x89PNG\r\n\x1a\n" + strings.Repeat("x", 1000)
	ct, r, err := SniffContentType(strings.NewReader(png))
	if err != nil {
		t.Fatalf("SniffContentType: %v", err)
	}
	if ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	all, _ := io.ReadAll(r)
	if string(all) != png {
		t.Errorf("stream length = %d, want %d", len(all), len(png))
	}

	ct, r, err = SniffContentType(strings.NewReader("hi"))
	if err != nil || !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("short input: %q, %v", ct, err)
	}
	all, _ = io.ReadAll(r)
	if string(all) != "hi" {
		t.Errorf("short stream = %q", all)
	}
}

func TestLocalStore_UploadAndResolve(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:8080/files/")

	stored, err := store.Bucket(BucketHostel).Upload(context.Background(), "h1/photo.jpg", strings.NewReader("data"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if stored != "hostel/h1/photo.jpg" {
		t.Errorf("stored = %q", stored)
	}
	b, err := os.ReadFile(filepath.Join(root, "hostel", "h1", "photo.jpg"))
	if err != nil || string(b) != "data" {
		t.Errorf("file = %q, %v", b, err)
	}

	f, err := store.Open("hostel", "h1/photo.jpg")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Close()
	if _, err := store.Open("hostel", "../secret"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Open(traversal) err = %v", err)
	}

	res := NewResolver(store)
	if got := res.PublicURL(stored); got != "http://localhost:8080/files/hostel/h1/photo.jpg" {
		t.Errorf("PublicURL = %q", got)
	}
	if got := res.PublicURL("events/a b.png"); got != "http://localhost:8080/files/events/a%20b.png" {
		t.Errorf("PublicURL(escaped) = %q", got)
	}
}

func TestLocalStore_UploadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalStore(t.TempDir(), "").Bucket("events").Upload(ctx, "e1.jpg", strings.NewReader("x"), "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestResolver_PassThrough(t *testing.T) {
	res := NewResolver(NewLocalStore(t.TempDir(), "/files"))
	for _, in := range []string{"", "https://cdn.test/x.jpg", "http://old.host/y.png", "nobucket"} {
		if got := res.PublicURL(in); got != in {
			t.Errorf("PublicURL(%q) = %q, want unchanged", in, got)
		}
	}
	var nilRes *Resolver
	if got := nilRes.PublicURL("events/e1.jpg"); got != "events/e1.jpg" {
		t.Errorf("nil resolver = %q", got)
	}
	got := res.PublicURLs([]string{"events/e1.jpg", "https://x/y"})
	if got[0] != "/files/events/e1.jpg" || got[1] != "https://x/y" {
		t.Errorf("PublicURLs = %v", got)
	}
}

type fakeS3 struct {
	s3iface.S3API
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(b))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Upload(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, S3Config{Region: "ap-south-1", BucketPrefix: "dir-"})

	stored, err := store.Bucket(BucketEvents).Upload(context.Background(), "e1.png", strings.NewReader("img"), "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if stored != "events/e1.png" {
		t.Errorf("stored = %q", stored)
	}
	in := client.inputs[0]
	if aws.StringValue(in.Bucket) != "dir-events" || aws.StringValue(in.Key) != "e1.png" || aws.StringValue(in.ContentType) != "image/png" {
		t.Errorf("input = %+v", in)
	}
	if client.bodies[0] != "img" {
		t.Errorf("body = %q", client.bodies[0])
	}
	if got := NewResolver(store).PublicURL(stored); got != "https://dir-events.s3.ap-south-1.amazonaws.com/e1.png" {
		t.Errorf("PublicURL = %q", got)
	}
}

func TestS3Store_PublicURLVariants(t *testing.T) {
	minio := NewS3StoreWithClient(&fakeS3{}, S3Config{Endpoint: "http://minio:9000/"})
	if got := minio.Bucket("donations").PublicURL("d1.jpg"); got != "http://minio:9000/donations/d1.jpg" {
		t.Errorf("endpoint URL = %q", got)
	}
	cdn := NewS3StoreWithClient(&fakeS3{}, S3Config{PublicBase: "https://cdn.test", BucketPrefix: "p-"})
	if got := cdn.Bucket("donations").PublicURL("d1.jpg"); got != "https://cdn.test/p-donations/d1.jpg" {
		t.Errorf("cdn URL = %q", got)
	}
}

func TestS3Store_UploadError(t *testing.T) {
	boom := errors.New("access denied")
	store := NewS3StoreWithClient(&fakeS3{err: boom}, S3Config{Region: "us-east-1"})
	_, err := store.Bucket("events").Upload(context.Background(), "e1.jpg", strings.NewReader("x"), "")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
