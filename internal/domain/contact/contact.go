// Package contact builds device URL intents (dialer, SMS, mail, WhatsApp) for directory entries.
// Links are fire-and-forget; nothing here observes whether the device handled them.
package contact

import (
	"net/url"
	"strings"

	"directory/internal/domain/member"
)

// Links holds the intents offered on a member detail view. Empty fields mean no contact value.
type Links struct {
	Call        string `json:"call,omitempty"`
	CallAlt     string `json:"call_alt,omitempty"`
	CallLand    string `json:"call_landline,omitempty"`
	SMS         string `json:"sms,omitempty"`
	Email       string `json:"email,omitempty"`
	WhatsApp    string `json:"whatsapp,omitempty"`
	WhatsAppWeb string `json:"whatsapp_web,omitempty"`
}

// NormalizePhone keeps an optional leading '+' and the digits of phone.
// POST: Returns "" when no digits are present
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if strings.Trim(out, "+") == "" {
		return ""
	}
	return out
}

func digitsOnly(phone string) string {
	return strings.TrimPrefix(NormalizePhone(phone), "+")
}

// Tel returns a tel: link.
func Tel(phone string) string {
	if p := NormalizePhone(phone); p != "" {
		return "tel:" + p
	}
	return ""
}

// SMS returns an sms: link.
func SMS(phone string) string {
	if p := NormalizePhone(phone); p != "" {
		return "sms:" + p
	}
	return ""
}

// Mailto returns a mailto: link.
func Mailto(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	return "mailto:" + email
}

// WhatsApp returns the app intent whatsapp://send?phone=<digits>.
func WhatsApp(phone string) string {
	if d := digitsOnly(phone); d != "" {
		return "whatsapp://send?phone=" + url.QueryEscape(d)
	}
	return ""
}

// WhatsAppWeb returns the browser fallback https://wa.me/<digits>.
func WhatsAppWeb(phone string) string {
	if d := digitsOnly(phone); d != "" {
		return "https://wa.me/" + d
	}
	return ""
}

// ForMember bundles the intents for a member's contact fields.
func ForMember(m member.Member) Links {
	mobile := member.Str(m.Mobile)
	return Links{
		Call:        Tel(mobile),
		CallAlt:     Tel(member.Str(m.Mobile2)),
		CallLand:    Tel(member.Str(m.Landline)),
		SMS:         SMS(mobile),
		Email:       Mailto(member.Str(m.Email)),
		WhatsApp:    WhatsApp(mobile),
		WhatsAppWeb: WhatsAppWeb(mobile),
	}
}
