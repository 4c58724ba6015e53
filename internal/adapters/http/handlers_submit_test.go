package web

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"directory/internal/application/projections"
	"directory/internal/domain/business"
	"directory/internal/domain/event"
)

func TestSubmitEvent_WithImage(t *testing.T) {
	ts := newTestServer(t, nil)
	body, ctype := multipartForm(t, map[string]string{
		"title":     "Navratri Garba",
		"venue":     "Community Hall",
		"starts_at": "2025-10-01T19:00",
		"ends_at":   "2025-10-02T04:30:00+05:30",
		"organizer": "Youth Wing",
	}, filePart{"image", "poster.JPG", jpegBytes})

	rr := ts.post(t, "/api/events", body, ctype)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var res struct{ ID string }
	decode(t, rr, &res)
	if res.ID != "id-1" {
		t.Errorf("id = %q, want id-1", res.ID)
	}

	var got event.Event
	decode(t, ts.get(t, "/api/events/id-1"), &got)
	if got.Image != "http://test/files/events/id-1.jpg" {
		t.Errorf("image = %q", got.Image)
	}
	if got.EndsAt == nil || got.EndsAt.Hour() != 23 {
		t.Errorf("ends_at = %v, want 23:00 UTC", got.EndsAt)
	}

	file := ts.get(t, "/files/events/id-1.jpg")
	if file.Code != http.StatusOK || !bytes.Equal(file.Body.Bytes(), jpegBytes) {
		t.Errorf("file status = %d, %d bytes", file.Code, file.Body.Len())
	}
}

func TestSubmitEvent_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing title", map[string]string{"starts_at": "2025-10-01T19:00"}},
		{"missing start", map[string]string{"title": "Garba"}},
		{"bad start", map[string]string{"title": "Garba", "starts_at": "next friday"}},
		{"end before start", map[string]string{"title": "Garba", "starts_at": "2025-10-01T19:00", "ends_at": "2025-10-01T18:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			body, ctype := multipartForm(t, tt.fields)
			if rr := ts.post(t, "/api/events", body, ctype); rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rr.Code, rr.Body.String())
			}
			var list projections.GetEventsResult
			decode(t, ts.get(t, "/api/events"), &list)
			if len(list.Events) != 0 {
				t.Error("rejected event must not be stored")
			}
		})
	}
}

func TestSubmitEvent_NotMultipart(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.post(t, "/api/events", strings.NewReader(`{"title":"x"}`), "application/json")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSubmitEvent_UploadFailureIsPartial(t *testing.T) {
	ts := newTestServer(t, func(o *Options) { o.Objects = brokenObjects{} })
	body, ctype := multipartForm(t, map[string]string{
		"title":     "Garba",
		"starts_at": "2025-10-01T19:00",
	}, filePart{"image", "poster.jpg", jpegBytes})

	rr := ts.post(t, "/api/events", body, ctype)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	var res partialBody
	decode(t, rr, &res)
	if res.ID != "id-1" || !res.Partial {
		t.Errorf("body = %+v", res)
	}
	if strings.Contains(rr.Body.String(), "bucket offline") {
		t.Error("storage error detail must not be exposed")
	}

	got, err := ts.stores.Events.GetByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("row should be kept after a partial failure: %v", err)
	}
	if got.Image != "" {
		t.Errorf("image = %q, want empty", got.Image)
	}
}

func TestSubmitEvent_TooLarge(t *testing.T) {
	ts := newTestServer(t, func(o *Options) { o.MaxUploadBytes = 1024 })
	body, ctype := multipartForm(t, map[string]string{
		"title":     "Garba",
		"starts_at": "2025-10-01T19:00",
	}, filePart{"image", "poster.jpg", bytes.Repeat([]byte("x"), 4096)})

	if rr := ts.post(t, "/api/events", body, ctype); rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rr.Code)
	}
}

func TestSubmitDonation(t *testing.T) {
	ts := newTestServer(t, nil)
	body, ctype := multipartForm(t, map[string]string{
		"donor_name": "Asha Patel",
		"purpose":    "Temple renovation",
		"amount":     "1500.5",
		"member_id":  "  ",
	}, filePart{"receipt", "receipt.pdf", []byte("%PDF-1.4\n")})

	rr := ts.post(t, "/api/donations", body, ctype)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var list projections.GetDonationsResult
	decode(t, ts.get(t, "/api/donations"), &list)
	if len(list.Donations) != 1 {
		t.Fatalf("donations = %d, want 1", len(list.Donations))
	}
	d := list.Donations[0]
	if d.Amount != "1500.50" || d.MemberID != nil {
		t.Errorf("donation = %+v", d)
	}
	if d.Image != "http://test/files/donations/id-1.pdf" {
		t.Errorf("image = %q", d.Image)
	}
}

func TestSubmitDonation_BadAmount(t *testing.T) {
	ts := newTestServer(t, nil)
	body, ctype := multipartForm(t, map[string]string{"donor_name": "A", "purpose": "B", "amount": "12.345"})
	if rr := ts.post(t, "/api/donations", body, ctype); rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSubmitBusiness_CoverAndGallery(t *testing.T) {
	ts := newTestServer(t, nil)
	body, ctype := multipartForm(t, map[string]string{
		"owner_member_id": "m1",
		"name":            "Patel Sweets",
		"category":        "Food",
		"city":            "Pune",
	},
		filePart{"cover", "cover.png", []byte("\x89PNG\r\n\x1a\n")},
		filePart{"images", "a.jpg", jpegBytes},
		filePart{"images", "b.jpg", jpegBytes},
	)

	rr := ts.post(t, "/api/businesses", body, ctype)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var got business.Business
	decode(t, ts.get(t, "/api/businesses/id-1"), &got)
	if !strings.HasPrefix(got.CoverImage, "http://test/files/businesses/cover_m1_") {
		t.Errorf("cover = %q", got.CoverImage)
	}
	want := []string{"http://test/files/businesses/id-1_0.jpg", "http://test/files/businesses/id-1_1.jpg"}
	if len(got.Images) != 2 || got.Images[0] != want[0] || got.Images[1] != want[1] {
		t.Errorf("images = %v, want %v", got.Images, want)
	}

	var list projections.GetBusinessesResult
	decode(t, ts.get(t, "/api/businesses?category=Food"), &list)
	if list.Info.Total != 1 {
		t.Errorf("total = %d, want 1", list.Info.Total)
	}
}

func TestSubmitBusiness_MissingName(t *testing.T) {
	ts := newTestServer(t, nil)
	body, ctype := multipartForm(t, map[string]string{"owner_member_id": "m1", "category": "Food"})
	if rr := ts.post(t, "/api/businesses", body, ctype); rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSubmitHostel(t *testing.T) {
	ts := newTestServer(t, nil)
	fields := map[string]string{
		"applicant_name": "Kiran Shah",
		"phone":          "9876500000",
		"institution":    "COEP",
		"course":         "B.Tech",
	}
	body, ctype := multipartForm(t, fields,
		filePart{"photo", "me.jpg", jpegBytes},
		filePart{"id_proof", "aadhaar.pdf", []byte("%PDF-1.4\n")},
	)

	rr := ts.post(t, "/api/applications/hostel", body, ctype)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	app, err := ts.stores.Hostel.GetByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if app.Documents["photo"] != "hostel/id-1/photo.jpg" || app.Documents["id_proof"] != "hostel/id-1/id_proof.pdf" {
		t.Errorf("documents = %v", app.Documents)
	}
}

func TestSubmitHostel_UnknownDocument(t *testing.T) {
	ts := newTestServer(t, nil)
	body, ctype := multipartForm(t, map[string]string{
		"applicant_name": "Kiran Shah",
		"phone":          "9876500000",
		"institution":    "COEP",
	}, filePart{"passport", "p.jpg", jpegBytes})

	if rr := ts.post(t, "/api/applications/hostel", body, ctype); rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	rows, err := ts.stores.Hostel.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Error("rejected application must not be stored")
	}
}
