package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"directory/internal/adapters/email"
	"directory/internal/adapters/objectstore"
	domain "directory/internal/domain/donation"
)

// DonationWriter is the part of the donation store used by submissions.
type DonationWriter interface {
	Insert(ctx context.Context, d domain.Donation) error
	SetImage(ctx context.Context, id, path string) error
}

// SubmitDonationInput carries the donation form. Receipt is an optional photo of the receipt.
type SubmitDonationInput struct {
	Donation domain.Donation
	Receipt  *Attachment
}

// SubmitDonationDeps holds dependencies for ExecuteSubmitDonation.
type SubmitDonationDeps struct {
	DonationStore DonationWriter
	Uploads       UploadDeps
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteSubmitDonation inserts a donation, then uploads and links its receipt image.
// PRE: Input.Donation passes Validate
// POST: As ExecuteSubmitEvent, with the image stored as donations/{id}.{ext}
func ExecuteSubmitDonation(ctx context.Context, input SubmitDonationInput, deps SubmitDonationDeps) (SubmitResult, error) {
	d := input.Donation
	if err := d.Validate(); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	d.ID = deps.GenerateID()
	d.Image = ""
	d.CreatedAt = nowOr(deps.Now)
	if err := deps.DonationStore.Insert(ctx, d); err != nil {
		return SubmitResult{}, fmt.Errorf("insert donation: %w", err)
	}

	var files []string
	if input.Receipt != nil {
		stored, err := upload(ctx, deps.Uploads, objectstore.BucketDonations, d.ID, *input.Receipt)
		if err != nil {
			return partial("donation", d.ID, "upload", err)
		}
		if err := deps.DonationStore.SetImage(ctx, d.ID, stored); err != nil {
			return partial("donation", d.ID, "patch", err)
		}
		files = append(files, objectstore.NewResolver(deps.Uploads.Objects).PublicURL(stored))
	}

	slog.Info("donation_submitted", "id", d.ID, "amount_cents", d.AmountCents)
	deps.Uploads.Notifier.notify(ctx, email.Submission{
		Kind:  "donation",
		ID:    d.ID,
		Title: d.DonorName,
		Details: map[string]string{
			"Purpose": d.Purpose,
			"Amount":  d.AmountString(),
			"Phone":   d.Phone,
		},
		Files: files,
	})
	return SubmitResult{ID: d.ID}, nil
}
