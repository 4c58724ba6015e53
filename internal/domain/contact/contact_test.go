package contact

import (
	"testing"

	"directory/internal/domain/member"
)

// TestNormalizePhone verifies formatting characters are stripped and a leading plus kept.
func TestNormalizePhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"+91 98765-43210", "+919876543210"},
		{"(022) 2345 6789", "02223456789"},
		{"98+76", "9876"},
		{"+", ""},
		{"n/a", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestIntents verifies each intent scheme.
func TestIntents(t *testing.T) {
	phone := "+91 98765 43210"
	if got := Tel(phone); got != "tel:+919876543210" {
		t.Errorf("Tel = %q", got)
	}
	if got := SMS(phone); got != "sms:+919876543210" {
		t.Errorf("SMS = %q", got)
	}
	if got := WhatsApp(phone); got != "whatsapp://send?phone=919876543210" {
		t.Errorf("WhatsApp = %q", got)
	}
	if got := WhatsAppWeb(phone); got != "https://wa.me/919876543210" {
		t.Errorf("WhatsAppWeb = %q", got)
	}
	if got := Mailto(" a@b.org "); got != "mailto:a@b.org" {
		t.Errorf("Mailto = %q", got)
	}
	if got := Mailto("nope"); got != "" {
		t.Errorf("Mailto(invalid) = %q, want empty", got)
	}
}

// TestForMember_EmptyFields verifies missing contact values produce no links.
func TestForMember_EmptyFields(t *testing.T) {
	links := ForMember(member.Member{ID: "m1", Name: "A"})
	if links != (Links{}) {
		t.Errorf("ForMember(empty) = %+v, want zero Links", links)
	}

	mobile := "9876543210"
	links = ForMember(member.Member{ID: "m2", Name: "B", Mobile: &mobile})
	if links.Call != "tel:9876543210" || links.WhatsAppWeb != "https://wa.me/9876543210" {
		t.Errorf("ForMember = %+v", links)
	}
	if links.Email != "" || links.CallAlt != "" {
		t.Errorf("unexpected links for absent fields: %+v", links)
	}
}
