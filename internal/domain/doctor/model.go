package doctor

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyName      = errors.New("doctor name cannot be empty")
	ErrEmptySpecialty = errors.New("doctor specialty cannot be empty")
)

// Doctor is an entry in the community's doctor directory.
// MemberID links to the directory member when the doctor is one.
type Doctor struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Specialty     string  `json:"specialty"`
	Qualification string  `json:"qualification"`
	Hospital      string  `json:"hospital"`
	Address       string  `json:"address"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Image         string  `json:"image,omitempty"`
	MemberID      *string `json:"member_id,omitempty"`
}

// Validate checks if the Doctor has valid data.
func (d *Doctor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(d.Specialty) == "" {
		return ErrEmptySpecialty
	}
	return nil
}
