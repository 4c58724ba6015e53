package business

import (
	"errors"
	"strings"
	"time"
)

// MaxImages caps the gallery size of a listing.
const MaxImages = 6

// Domain errors
var (
	ErrEmptyName     = errors.New("business name cannot be empty")
	ErrEmptyCategory = errors.New("business category cannot be empty")
	ErrNoOwner       = errors.New("business must have an owner")
	ErrInvalidOwner  = errors.New("business owner id cannot contain path separators")
	ErrTooManyImages = errors.New("business listing cannot have more than 6 images")
)

// Business is a listing published by a member.
type Business struct {
	ID            string    `json:"id"`
	OwnerMemberID string    `json:"owner_member_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Website       string    `json:"website"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	CoverImage    string    `json:"cover_image,omitempty"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks if the Business has valid data.
// PRE: Business struct is populated
// POST: Returns nil if valid, error otherwise
func (b *Business) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.OwnerMemberID == "" {
		return ErrNoOwner
	}
	if strings.ContainsAny(b.OwnerMemberID, `/\`) || strings.Contains(b.OwnerMemberID, "..") {
		return ErrInvalidOwner
	}
	if len(b.Images) > MaxImages {
		return ErrTooManyImages
	}
	return nil
}
