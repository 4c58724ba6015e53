package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"directory/internal/adapters/email"
	"directory/internal/adapters/objectstore"
	domain "directory/internal/domain/hostel"
)

// maxParallelUploads bounds concurrent document uploads per application.
const maxParallelUploads = 4

// HostelWriter is the part of the hostel store used by submissions.
type HostelWriter interface {
	Insert(ctx context.Context, a domain.Application) error
	SetDocuments(ctx context.Context, id string, docs map[string]string) error
}

// SubmitHostelInput carries the hostel admission form. Documents is keyed by document field.
type SubmitHostelInput struct {
	Application domain.Application
	Documents   map[string]Attachment
}

// SubmitHostelDeps holds dependencies for ExecuteSubmitHostelApplication.
type SubmitHostelDeps struct {
	HostelStore HostelWriter
	Uploads     UploadDeps
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteSubmitHostelApplication inserts an application, uploads its documents concurrently, then links them.
// PRE: every Documents key is one of domain.DocumentFields
// POST: Each document is stored as hostel/{id}/{field}.{ext}. If any upload fails the row is not
// patched, so successfully uploaded files stay unlinked, and ErrPartialSubmission is returned.
func ExecuteSubmitHostelApplication(ctx context.Context, input SubmitHostelInput, deps SubmitHostelDeps) (SubmitResult, error) {
	a := input.Application
	a.Documents = map[string]string{}
	if err := a.Validate(); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	for field := range input.Documents {
		if !domain.IsDocumentField(field) {
			return SubmitResult{}, fmt.Errorf("%w: %w: %s", ErrInvalidInput, domain.ErrUnknownDocument, field)
		}
	}
	a.ID = deps.GenerateID()
	a.CreatedAt = nowOr(deps.Now)
	if err := deps.HostelStore.Insert(ctx, a); err != nil {
		return SubmitResult{}, fmt.Errorf("insert hostel application: %w", err)
	}

	if len(input.Documents) > 0 {
		docs, err := uploadDocuments(ctx, deps.Uploads, a.ID, input.Documents)
		if err != nil {
			return partial("hostel application", a.ID, "upload", err)
		}
		if err := deps.HostelStore.SetDocuments(ctx, a.ID, docs); err != nil {
			return partial("hostel application", a.ID, "patch", err)
		}
		a.Documents = docs
	}

	slog.Info("hostel_application_submitted", "id", a.ID, "documents", len(a.Documents))
	resolver := objectstore.NewResolver(deps.Uploads.Objects)
	fields := make([]string, 0, len(a.Documents))
	for f := range a.Documents {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	files := make([]string, 0, len(fields))
	for _, f := range fields {
		files = append(files, resolver.PublicURL(a.Documents[f]))
	}
	deps.Uploads.Notifier.notify(ctx, email.Submission{
		Kind:  "hostel application",
		ID:    a.ID,
		Title: a.ApplicantName,
		Details: map[string]string{
			"Institution": a.Institution,
			"Course":      a.Course,
			"Phone":       a.Phone,
		},
		Files: files,
	})
	return SubmitResult{ID: a.ID}, nil
}

func uploadDocuments(ctx context.Context, deps UploadDeps, id string, documents map[string]Attachment) (map[string]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)

	var mu sync.Mutex
	stored := make(map[string]string, len(documents))
	for field, att := range documents {
		g.Go(func() error {
			path, err := upload(gctx, deps, objectstore.BucketHostel, id+"/"+field, att)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			mu.Lock()
			stored[field] = path
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stored, nil
}
