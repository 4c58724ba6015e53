package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"directory/internal/adapters/email"
	"directory/internal/adapters/objectstore"
	domain "directory/internal/domain/event"
)

// EventWriter is the part of the event store used by submissions.
type EventWriter interface {
	Insert(ctx context.Context, e domain.Event) error
	SetImage(ctx context.Context, id, path string) error
}

// SubmitEventInput carries the event form.
// PRE: Event.ID is ignored; a new id is generated
type SubmitEventInput struct {
	Event domain.Event
	Image *Attachment // optional
}

// SubmitEventDeps holds dependencies for ExecuteSubmitEvent.
type SubmitEventDeps struct {
	EventStore EventWriter
	Uploads    UploadDeps
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSubmitEvent inserts an event, then uploads and links its image.
// PRE: Input.Event passes Validate
// POST: Without an image, a single insert. With one, the image is stored as events/{id}.{ext}
// and the row patched; on failure the row stays without an image and ErrPartialSubmission is returned.
func ExecuteSubmitEvent(ctx context.Context, input SubmitEventInput, deps SubmitEventDeps) (SubmitResult, error) {
	e := input.Event
	if err := e.Validate(); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	e.ID = deps.GenerateID()
	e.Image = ""
	e.CreatedAt = nowOr(deps.Now)
	if err := deps.EventStore.Insert(ctx, e); err != nil {
		return SubmitResult{}, fmt.Errorf("insert event: %w", err)
	}

	var files []string
	if input.Image != nil {
		stored, err := upload(ctx, deps.Uploads, objectstore.BucketEvents, e.ID, *input.Image)
		if err != nil {
			return partial("event", e.ID, "upload", err)
		}
		if err := deps.EventStore.SetImage(ctx, e.ID, stored); err != nil {
			return partial("event", e.ID, "patch", err)
		}
		files = append(files, objectstore.NewResolver(deps.Uploads.Objects).PublicURL(stored))
	}

	slog.Info("event_submitted", "id", e.ID, "has_image", input.Image != nil)
	deps.Uploads.Notifier.notify(ctx, email.Submission{
		Kind:  "event",
		ID:    e.ID,
		Title: e.Title,
		Details: map[string]string{
			"Venue":     e.Venue,
			"Starts":    e.StartsAt.Format(time.RFC1123),
			"Organizer": e.Organizer,
		},
		Files: files,
	})
	return SubmitResult{ID: e.ID}, nil
}
