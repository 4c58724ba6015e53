package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"directory/internal/adapters/email"
	"directory/internal/adapters/objectstore"
	domain "directory/internal/domain/business"
)

// BusinessWriter is the part of the business store used by submissions.
type BusinessWriter interface {
	Insert(ctx context.Context, b domain.Business) error
	SetImages(ctx context.Context, id, cover string, images []string) error
}

// SubmitBusinessInput carries the business listing form.
type SubmitBusinessInput struct {
	Business domain.Business
	Cover    *Attachment  // optional
	Gallery  []Attachment // at most domain.MaxImages
}

// SubmitBusinessDeps holds dependencies for ExecuteSubmitBusiness.
type SubmitBusinessDeps struct {
	BusinessStore BusinessWriter
	Uploads       UploadDeps
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteSubmitBusiness inserts a listing, then uploads its cover and gallery and stores their public URLs.
// PRE: Input.Business passes Validate; len(Gallery) <= domain.MaxImages
// POST: Cover is stored as businesses/cover_{owner}_{unixMillis}.{ext}, gallery entry n as
// businesses/{id}_{n}.{ext}. Any failed upload leaves the row without images.
func ExecuteSubmitBusiness(ctx context.Context, input SubmitBusinessInput, deps SubmitBusinessDeps) (SubmitResult, error) {
	b := input.Business
	b.Images = nil
	b.CoverImage = ""
	if err := b.Validate(); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(input.Gallery) > domain.MaxImages {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrTooManyImages)
	}
	now := nowOr(deps.Now)
	b.ID = deps.GenerateID()
	b.CreatedAt = now
	if err := deps.BusinessStore.Insert(ctx, b); err != nil {
		return SubmitResult{}, fmt.Errorf("insert business: %w", err)
	}
	if input.Cover == nil && len(input.Gallery) == 0 {
		slog.Info("business_submitted", "id", b.ID, "images", 0)
		deps.Uploads.Notifier.notify(ctx, businessNotice(b, nil))
		return SubmitResult{ID: b.ID}, nil
	}

	resolver := objectstore.NewResolver(deps.Uploads.Objects)
	var cover string
	if input.Cover != nil {
		key := "cover_" + b.OwnerMemberID + "_" + strconv.FormatInt(now.UnixMilli(), 10)
		stored, err := upload(ctx, deps.Uploads, objectstore.BucketBusinesses, key, *input.Cover)
		if err != nil {
			return partial("business", b.ID, "upload cover", err)
		}
		cover = resolver.PublicURL(stored)
	}
	images := make([]string, 0, len(input.Gallery))
	for n, att := range input.Gallery {
		stored, err := upload(ctx, deps.Uploads, objectstore.BucketBusinesses, b.ID+"_"+strconv.Itoa(n), att)
		if err != nil {
			return partial("business", b.ID, "upload gallery", err)
		}
		images = append(images, resolver.PublicURL(stored))
	}
	if err := deps.BusinessStore.SetImages(ctx, b.ID, cover, images); err != nil {
		return partial("business", b.ID, "patch", err)
	}

	slog.Info("business_submitted", "id", b.ID, "images", len(images), "has_cover", cover != "")
	files := images
	if cover != "" {
		files = append([]string{cover}, images...)
	}
	deps.Uploads.Notifier.notify(ctx, businessNotice(b, files))
	return SubmitResult{ID: b.ID}, nil
}

func businessNotice(b domain.Business, files []string) email.Submission {
	return email.Submission{
		Kind:  "business",
		ID:    b.ID,
		Title: b.Name,
		Details: map[string]string{
			"Category": b.Category,
			"City":     b.City,
			"Phone":    b.Phone,
			"Owner":    b.OwnerMemberID,
		},
		Files: files,
	}
}
