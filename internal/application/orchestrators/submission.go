package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"directory/internal/adapters/email"
	"directory/internal/adapters/http/perf"
	"directory/internal/adapters/objectstore"
)

// ErrPartialSubmission is wrapped when the record was inserted but its attachments were not
// stored or linked. The inserted row is kept and nothing is retried.
var ErrPartialSubmission = errors.New("record saved without its attachments")

// ErrInvalidInput is wrapped around domain validation failures. Nothing was written.
var ErrInvalidInput = errors.New("invalid input")

// Attachment is one file supplied with a form.
type Attachment struct {
	Filename string
	Body     io.Reader
}

// SubmitResult reports the outcome of a two-phase submission.
// ID is set whenever the insert succeeded, including partial failures.
type SubmitResult struct {
	ID      string `json:"id"`
	Partial bool   `json:"partial,omitempty"`
}

// UploadDeps holds the shared dependencies for attachment handling.
type UploadDeps struct {
	Objects   objectstore.Store
	Collector *perf.Collector // optional
	Notifier  *Notifier       // optional
}

// Notifier emails the committee about new submissions.
type Notifier struct {
	Sender email.Sender
	To     []string
}

// notify sends the submission notice. Failures are logged only.
func (n *Notifier) notify(ctx context.Context, s email.Submission) {
	if n == nil || n.Sender == nil || len(n.To) == 0 {
		return
	}
	msg, err := email.SubmissionMessage(n.To, s)
	if err != nil {
		slog.Error("submission_notify_failed", "kind", s.Kind, "id", s.ID, "error", err)
		return
	}
	if _, err := n.Sender.Send(ctx, msg); err != nil {
		slog.Warn("submission_notify_failed", "kind", s.Kind, "id", s.ID, "error", err)
		return
	}
	slog.Info("submission_notified", "kind", s.Kind, "id", s.ID)
}

// upload stores one attachment under bucket/key.
// PRE: key has no extension; the attachment's extension is appended
// POST: Returns the stored path "<bucket>/<key>.<ext>"
func upload(ctx context.Context, deps UploadDeps, bucket, key string, att Attachment) (string, error) {
	start := time.Now()
	stored, err := uploadOnce(ctx, deps.Objects, bucket, key+"."+objectstore.Extension(att.Filename), att.Body)
	deps.Collector.Record(perf.Entry{
		Kind:       perf.KindUpload,
		Path:       bucket,
		Failed:     err != nil,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
	})
	if err != nil {
		slog.Warn("upload_failed", "bucket", bucket, "key", key, "error", err)
		return "", err
	}
	slog.Debug("upload_stored", "path", stored)
	return stored, nil
}

func uploadOnce(ctx context.Context, objects objectstore.Store, bucket, key string, body io.Reader) (string, error) {
	if objects == nil {
		return "", errors.New("object storage not configured")
	}
	if body == nil {
		return "", fmt.Errorf("attachment %s has no body", key)
	}
	contentType, body, err := objectstore.SniffContentType(body)
	if err != nil {
		return "", err
	}
	return objects.Bucket(bucket).Upload(ctx, key, body, contentType)
}

// partial builds the result and error for a record whose attachment step failed.
func partial(kind, id, step string, err error) (SubmitResult, error) {
	slog.Error("submission_partial", "kind", kind, "id", id, "step", step, "error", err)
	return SubmitResult{ID: id, Partial: true}, fmt.Errorf("%w: %s %s: %s: %w", ErrPartialSubmission, kind, id, step, err)
}

func nowOr(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
