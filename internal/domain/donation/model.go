package donation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyDonor    = errors.New("donor name cannot be empty")
	ErrEmptyPurpose  = errors.New("donation purpose cannot be empty")
	ErrNegativeTotal = errors.New("donation amount cannot be negative")
)

// Donation records a pledge or contribution, optionally with a receipt image.
type Donation struct {
	ID          string    `json:"id"`
	DonorName   string    `json:"donor_name"`
	MemberID    *string   `json:"member_id,omitempty"`
	Purpose     string    `json:"purpose"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks if the Donation has valid data.
// PRE: Donation struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Donation) Validate() error {
	if strings.TrimSpace(d.DonorName) == "" {
		return ErrEmptyDonor
	}
	if strings.TrimSpace(d.Purpose) == "" {
		return ErrEmptyPurpose
	}
	if d.AmountCents < 0 {
		return ErrNegativeTotal
	}
	return nil
}

// AmountString renders the amount with two decimals, e.g. "1234.50".
func (d *Donation) AmountString() string {
	return fmt.Sprintf("%d.%02d", d.AmountCents/100, d.AmountCents%100)
}

// ParseAmount converts "1234.5" or "1234" into cents.
// POST: Returns an error for non-numeric input or more than two decimals
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		for i, r := range frac {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("invalid amount %q", s)
			}
			if i == 0 {
				cents += int64(r-'0') * 10
			} else {
				cents += int64(r - '0')
			}
		}
	}
	return cents, nil
}
