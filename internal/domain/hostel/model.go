package hostel

import (
	"errors"
	"strings"
	"time"
)

// Document fields accepted on an application.
const (
	FieldPhoto           = "photo"
	FieldIDProof         = "id_proof"
	FieldMarksheet       = "marksheet"
	FieldAdmissionLetter = "admission_letter"
)

// DocumentFields lists the accepted document fields in form order.
var DocumentFields = []string{FieldPhoto, FieldIDProof, FieldMarksheet, FieldAdmissionLetter}

// Domain errors
var (
	ErrEmptyApplicant  = errors.New("applicant name cannot be empty")
	ErrEmptyPhone      = errors.New("applicant phone cannot be empty")
	ErrEmptyInstitute  = errors.New("institution cannot be empty")
	ErrUnknownDocument = errors.New("unknown document field")
)

// Application is a hostel admission request.
// Documents maps document field to storage path.
type Application struct {
	ID            string            `json:"id"`
	ApplicantName string            `json:"applicant_name"`
	MemberID      *string           `json:"member_id,omitempty"`
	GuardianName  string            `json:"guardian_name"`
	Phone         string            `json:"phone"`
	Email         string            `json:"email"`
	Institution   string            `json:"institution"`
	Course        string            `json:"course"`
	Documents     map[string]string `json:"documents"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Validate checks if the Application has valid data.
// PRE: Application struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Application) Validate() error {
	if strings.TrimSpace(a.ApplicantName) == "" {
		return ErrEmptyApplicant
	}
	if strings.TrimSpace(a.Phone) == "" {
		return ErrEmptyPhone
	}
	if strings.TrimSpace(a.Institution) == "" {
		return ErrEmptyInstitute
	}
	for field := range a.Documents {
		if !IsDocumentField(field) {
			return ErrUnknownDocument
		}
	}
	return nil
}

// IsDocumentField reports whether field is an accepted document field.
func IsDocumentField(field string) bool {
	for _, f := range DocumentFields {
		if f == field {
			return true
		}
	}
	return false
}
