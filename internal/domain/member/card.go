package member

import (
	"strings"
	"time"
)

// Fallback values used when a row leaves a display field empty.
const (
	UnknownLocation        = "Unknown"
	UnspecifiedProfession  = "Not specified"
	PlaceholderMaleImage   = "/assets/avatar-male.png"
	PlaceholderFemaleImage = "/assets/avatar-female.png"
	PlaceholderImage       = "/assets/avatar.png"
)

// URLResolver turns a stored file path into a publicly reachable URL.
type URLResolver interface {
	PublicURL(path string) string
}

// Card is the display projection of a Member used by list views.
// It is lossy: contact and address details stay on the Member.
type Card struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Age          Age    `json:"age"`
	Location     string `json:"location"`
	Profession   string `json:"profession"`
	DisplayImage string `json:"display_image"`
	Gender       string `json:"gender,omitempty"`
	FamilyNo     string `json:"family_no,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// ToCard derives the display projection of m.
// PRE: resolver may be nil, in which case stored paths are used as-is
// POST: DisplayName is trimmed; Location and Profession are never empty
func ToCard(m Member, now time.Time, resolver URLResolver) Card {
	return Card{
		ID:           m.ID,
		DisplayName:  m.FullName(),
		Age:          DeriveAge(m.DateOfBirth, now),
		Location:     orDefault(Str(m.City), UnknownLocation),
		Profession:   orDefault(Str(m.Occupation), UnspecifiedProfession),
		DisplayImage: DisplayImage(m, resolver),
		Gender:       Str(m.Gender),
		FamilyNo:     Str(m.FamilyNo),
		Relationship: Str(m.Relationship),
	}
}

// ToCards maps ToCard over rows, preserving order.
func ToCards(rows []Member, now time.Time, resolver URLResolver) []Card {
	cards := make([]Card, 0, len(rows))
	for _, m := range rows {
		cards = append(cards, ToCard(m, now, resolver))
	}
	return cards
}

// DisplayImage returns the profile picture URL, or a placeholder chosen by gender.
func DisplayImage(m Member, resolver URLResolver) string {
	if pic := strings.TrimSpace(Str(m.ProfilePicture)); pic != "" {
		if resolver == nil {
			return pic
		}
		return resolver.PublicURL(pic)
	}
	switch strings.ToLower(Str(m.Gender)) {
	case GenderMale:
		return PlaceholderMaleImage
	case GenderFemale:
		return PlaceholderFemaleImage
	default:
		return PlaceholderImage
	}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
