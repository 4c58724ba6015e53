package member

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Gender values stored on member rows.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Relationship values that mark the head of a family.
const (
	RelationshipSelf = "self"
	RelationshipHead = "head"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("member name cannot be empty")
	ErrNameTooLong   = errors.New("member name cannot exceed 100 characters")
	ErrInvalidEmail  = errors.New("member email must be valid")
	ErrInvalidGender = errors.New("gender must be 'male' or 'female'")
)

// Member is a directory entry as stored by the backend.
// Optional columns are nil when the backend row has no value.
type Member struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Surname            string  `json:"surname"`
	Gender             *string `json:"gender"`
	DateOfBirth        *string `json:"date_of_birth"`
	BloodGroup         *string `json:"blood_group"`
	MaritalStatus      *string `json:"marital_status"`
	Mobile             *string `json:"mobile"`
	Mobile2            *string `json:"mobile2"`
	Email              *string `json:"email"`
	Landline           *string `json:"landline"`
	ResidentialAddress *string `json:"residential_address"`
	OfficeAddress      *string `json:"office_address"`
	City               *string `json:"city"`
	Occupation         *string `json:"occupation"`
	Education          *string `json:"education"`
	FamilyNo           *string `json:"family_no"`
	Relationship       *string `json:"relationship"`
	ProfilePicture     *string `json:"profile_picture"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty; email, when present, must contain '@'
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength || len(m.Surname) > MaxNameLength {
		return ErrNameTooLong
	}
	if email := Str(m.Email); email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if g := Str(m.Gender); g != "" {
		g = strings.ToLower(g)
		if g != GenderMale && g != GenderFemale {
			return ErrInvalidGender
		}
	}
	return nil
}

// FullName returns name and surname joined by a single space.
// INVARIANT: result has no leading or trailing whitespace
func (m *Member) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(m.Name) + " " + strings.TrimSpace(m.Surname))
}

// IsFamilyHead reports whether the member heads their family.
func (m *Member) IsFamilyHead() bool {
	rel := strings.ToLower(strings.TrimSpace(Str(m.Relationship)))
	return rel == RelationshipSelf || rel == RelationshipHead
}

// Str dereferences an optional column, returning "" for nil.
func Str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Opt returns a pointer to the trimmed value, or nil when it is blank.
func Opt(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
