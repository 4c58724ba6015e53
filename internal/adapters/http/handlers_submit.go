package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"directory/internal/application/orchestrators"
	businessDomain "directory/internal/domain/business"
	donationDomain "directory/internal/domain/donation"
	eventDomain "directory/internal/domain/event"
	hostelDomain "directory/internal/domain/hostel"
	memberDomain "directory/internal/domain/member"
)

// multipartMemory is how much of a form is buffered in memory before spilling to temp files.
const multipartMemory = 8 << 20

// datetimeLocal is the layout browsers send for <input type="datetime-local">.
const datetimeLocal = "2006-01-02T15:04"

// partialBody is returned when the record was saved but its attachments were not.
type partialBody struct {
	ID      string `json:"id"`
	Partial bool   `json:"partial"`
	Error   string `json:"error"`
}

// formFiles tracks the attachments opened for one request.
type formFiles struct {
	open []multipart.File
}

func (f *formFiles) add(hdr *multipart.FileHeader) (orchestrators.Attachment, error) {
	file, err := hdr.Open()
	if err != nil {
		return orchestrators.Attachment{}, fmt.Errorf("open %s: %w", hdr.Filename, err)
	}
	f.open = append(f.open, file)
	return orchestrators.Attachment{Filename: hdr.Filename, Body: file}, nil
}

// one returns the first file under field, or nil when none was sent.
func (f *formFiles) one(r *http.Request, field string) (*orchestrators.Attachment, error) {
	hdrs := r.MultipartForm.File[field]
	if len(hdrs) == 0 {
		return nil, nil
	}
	att, err := f.add(hdrs[0])
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// all returns every file under field in form order.
func (f *formFiles) all(r *http.Request, field string) ([]orchestrators.Attachment, error) {
	var out []orchestrators.Attachment
	for _, hdr := range r.MultipartForm.File[field] {
		att, err := f.add(hdr)
		if err != nil {
			return nil, err
		}
		out = append(out, att)
	}
	return out, nil
}

func (f *formFiles) close() {
	for _, file := range f.open {
		file.Close()
	}
}

// parseMultipart reads a size-bounded multipart form.
// POST: Returns false after writing a 400 or 413 response
func (s *server) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "submission too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return false
	}
	return true
}

// writeSubmitResult maps an orchestrator outcome to a response.
func writeSubmitResult(w http.ResponseWriter, res orchestrators.SubmitResult, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, res)
	case errors.Is(err, orchestrators.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orchestrators.ErrPartialSubmission):
		writeJSON(w, http.StatusBadGateway, partialBody{
			ID:      res.ID,
			Partial: true,
			Error:   orchestrators.ErrPartialSubmission.Error(),
		})
	default:
		internalError(w, err)
	}
}

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// parseFormTime accepts RFC 3339 or a datetime-local value (read as UTC). Blank yields nil.
func parseFormTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, datetimeLocal} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q", v)
}

// handleSubmitEvent handles POST /api/events
func (s *server) handleSubmitEvent(w http.ResponseWriter, r *http.Request) {
	if !s.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	event := eventDomain.Event{
		Title:        formValue(r, "title"),
		Description:  formValue(r, "description"),
		Venue:        formValue(r, "venue"),
		Organizer:    formValue(r, "organizer"),
		ContactPhone: formValue(r, "contact_phone"),
	}
	starts, err := parseFormTime(formValue(r, "starts_at"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "starts_at: "+err.Error())
		return
	}
	if starts != nil {
		event.StartsAt = *starts
	}
	if event.EndsAt, err = parseFormTime(formValue(r, "ends_at")); err != nil {
		writeError(w, http.StatusBadRequest, "ends_at: "+err.Error())
		return
	}

	var files formFiles
	defer files.close()
	image, err := files.one(r, "image")
	if err != nil {
		internalError(w, err)
		return
	}

	res, err := orchestrators.ExecuteSubmitEvent(r.Context(), orchestrators.SubmitEventInput{
		Event: event,
		Image: image,
	}, orchestrators.SubmitEventDeps{
		EventStore: s.stores.Events,
		Uploads:    s.uploads(),
		GenerateID: s.opts.GenerateID,
		Now:        s.opts.Now,
	})
	writeSubmitResult(w, res, err)
}

// handleSubmitDonation handles POST /api/donations
func (s *server) handleSubmitDonation(w http.ResponseWriter, r *http.Request) {
	if !s.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	cents, err := donationDomain.ParseAmount(formValue(r, "amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount: "+err.Error())
		return
	}
	d := donationDomain.Donation{
		DonorName:   formValue(r, "donor_name"),
		MemberID:    memberDomain.Opt(r.FormValue("member_id")),
		Purpose:     formValue(r, "purpose"),
		AmountCents: cents,
		Description: formValue(r, "description"),
		Phone:       formValue(r, "phone"),
	}

	var files formFiles
	defer files.close()
	receipt, err := files.one(r, "receipt")
	if err != nil {
		internalError(w, err)
		return
	}

	res, err := orchestrators.ExecuteSubmitDonation(r.Context(), orchestrators.SubmitDonationInput{
		Donation: d,
		Receipt:  receipt,
	}, orchestrators.SubmitDonationDeps{
		DonationStore: s.stores.Donations,
		Uploads:       s.uploads(),
		GenerateID:    s.opts.GenerateID,
		Now:           s.opts.Now,
	})
	writeSubmitResult(w, res, err)
}

// handleSubmitBusiness handles POST /api/businesses
func (s *server) handleSubmitBusiness(w http.ResponseWriter, r *http.Request) {
	if !s.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	b := businessDomain.Business{
		OwnerMemberID: formValue(r, "owner_member_id"),
		Name:          formValue(r, "name"),
		Category:      formValue(r, "category"),
		Description:   formValue(r, "description"),
		Phone:         formValue(r, "phone"),
		Email:         formValue(r, "email"),
		Website:       formValue(r, "website"),
		Address:       formValue(r, "address"),
		City:          formValue(r, "city"),
	}

	var files formFiles
	defer files.close()
	cover, err := files.one(r, "cover")
	if err != nil {
		internalError(w, err)
		return
	}
	gallery, err := files.all(r, "images")
	if err != nil {
		internalError(w, err)
		return
	}

	res, err := orchestrators.ExecuteSubmitBusiness(r.Context(), orchestrators.SubmitBusinessInput{
		Business: b,
		Cover:    cover,
		Gallery:  gallery,
	}, orchestrators.SubmitBusinessDeps{
		BusinessStore: s.stores.Businesses,
		Uploads:       s.uploads(),
		GenerateID:    s.opts.GenerateID,
		Now:           s.opts.Now,
	})
	writeSubmitResult(w, res, err)
}

// handleSubmitHostel handles POST /api/applications/hostel.
// Every file field is passed through; unknown document fields are rejected with 400.
func (s *server) handleSubmitHostel(w http.ResponseWriter, r *http.Request) {
	if !s.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	app := hostelDomain.Application{
		ApplicantName: formValue(r, "applicant_name"),
		MemberID:      memberDomain.Opt(r.FormValue("member_id")),
		GuardianName:  formValue(r, "guardian_name"),
		Phone:         formValue(r, "phone"),
		Email:         formValue(r, "email"),
		Institution:   formValue(r, "institution"),
		Course:        formValue(r, "course"),
	}

	var files formFiles
	defer files.close()
	docs := make(map[string]orchestrators.Attachment, len(r.MultipartForm.File))
	for field := range r.MultipartForm.File {
		att, err := files.one(r, field)
		if err != nil {
			internalError(w, err)
			return
		}
		if att != nil {
			docs[field] = *att
		}
	}

	res, err := orchestrators.ExecuteSubmitHostelApplication(r.Context(), orchestrators.SubmitHostelInput{
		Application: app,
		Documents:   docs,
	}, orchestrators.SubmitHostelDeps{
		HostelStore: s.stores.Hostel,
		Uploads:     s.uploads(),
		GenerateID:  s.opts.GenerateID,
		Now:         s.opts.Now,
	})
	writeSubmitResult(w, res, err)
}
