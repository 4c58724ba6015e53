package member

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UnknownAge is the display value for an age that could not be derived.
const UnknownAge = "Unknown"

// twoDigitYearPivot splits two-digit years: below it they are 20YY, otherwise 19YY.
const twoDigitYearPivot = 50

// Age is a whole-number age derived from a stored birth date.
// Known is false when the birth date was missing or unparsable.
type Age struct {
	Years int
	Known bool
}

// String renders the age for display.
// POST: Returns "Unknown" when the age is not known
func (a Age) String() string {
	if !a.Known {
		return UnknownAge
	}
	return strconv.Itoa(a.Years)
}

// MarshalJSON encodes known ages as numbers and unknown ages as "Unknown".
func (a Age) MarshalJSON() ([]byte, error) {
	if !a.Known {
		return []byte(`"` + UnknownAge + `"`), nil
	}
	return []byte(strconv.Itoa(a.Years)), nil
}

// UnmarshalJSON accepts a whole number, the "Unknown" sentinel or null.
func (a *Age) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `"`+UnknownAge+`"` {
		*a = Age{}
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("age: want a number or %q, got %s", UnknownAge, s)
	}
	*a = Age{Years: n, Known: true}
	return nil
}

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

// DeriveAge converts a stored birth date into an age as of now.
// Two encodings occur in the data: DD/Mon/YY (e.g. 15/Jun/90) and ISO YYYY-MM-DD.
// PRE: none; raw may be nil or malformed
// POST: Returns a known Age on success, Age{Known:false} on any parse failure
// INVARIANT: never panics, never returns an error
func DeriveAge(raw *string, now time.Time) Age {
	if raw == nil {
		return Age{}
	}
	birth, ok := parseBirthDate(strings.TrimSpace(*raw))
	if !ok {
		return Age{}
	}
	if birth.After(now) {
		return Age{}
	}
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return Age{Years: years, Known: true}
}

func parseBirthDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "/") {
		return parseTextual(s)
	}
	if strings.Contains(s, "-") {
		return parseISO(s)
	}
	return time.Time{}, false
}

// parseTextual parses DD/Mon/YY and DD/Mon/YYYY.
func parseTextual(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, ok := monthAbbrev[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return time.Time{}, false
	}
	yearText := strings.TrimSpace(parts[2])
	year, err := strconv.Atoi(yearText)
	if err != nil || year < 0 {
		return time.Time{}, false
	}
	switch len(yearText) {
	case 2:
		if year < twoDigitYearPivot {
			year += 2000
		} else {
			year += 1900
		}
	case 4:
	default:
		return time.Time{}, false
	}
	return makeDate(year, month, day)
}

// parseISO parses YYYY-MM-DD, ignoring any trailing time component.
func parseISO(s string) (time.Time, bool) {
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	return makeDate(year, time.Month(m), day)
}

// makeDate rejects days that time.Date would silently normalize (e.g. 31/Feb).
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
