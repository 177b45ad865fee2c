// Package validate holds the pure onboarding and room-creation checks.
// Functions take the current moment explicitly and never touch shared state.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

const (
	maxNameLen     = 30
	maxRoomNameLen = 50
	adultAge       = 18
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// DisplayName accepts 1-30 runes made of ASCII letters and whitespace.
func DisplayName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > maxNameLen {
		return domain.ErrInvalidName
	}
	for _, r := range name {
		if (r < unicode.MaxASCII && unicode.IsLetter(r)) || unicode.IsSpace(r) {
			continue
		}
		return domain.ErrInvalidName
	}
	return nil
}

// Email matches the raw value; surrounding whitespace is rejected.
func Email(email string) error {
	if !emailRe.MatchString(email) {
		return domain.ErrInvalidEmail
	}
	return nil
}

// Adult parses birthDate and checks the person turned 18 on or before now.
// Age is computed from calendar fields, so the 18th birthday itself passes.
// The returned time is UTC midnight of the date as written, offsets ignored.
func Adult(birthDate string, now time.Time) (time.Time, error) {
	b, ok := parseDate(birthDate)
	if !ok {
		return time.Time{}, domain.ErrInvalidDOB
	}
	now = now.UTC()

	years := now.Year() - b.Year()
	months := int(now.Month()) - int(b.Month())
	days := now.Day() - b.Day()

	if years < adultAge {
		return time.Time{}, domain.ErrInvalidDOB
	}
	if years == adultAge {
		if months < 0 || (months == 0 && days < 0) {
			return time.Time{}, domain.ErrInvalidDOB
		}
	}
	return day(b), nil
}

// RoomName returns the trimmed name when it holds 1-50 runes.
func RoomName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	if n < 1 || n > maxRoomNameLen {
		return "", domain.ErrInvalidRoomName
	}
	return trimmed, nil
}

// StartDate parses dateStr and rejects days before today. An empty value
// means today. The date keeps the calendar day written in dateStr and is
// compared with today's UTC calendar day.
func StartDate(dateStr string, now time.Time) (time.Time, error) {
	today := day(now.UTC())
	if strings.TrimSpace(dateStr) == "" {
		return today, nil
	}
	d, ok := parseDate(dateStr)
	if !ok {
		return time.Time{}, domain.ErrInvalidStartDate
	}
	if day(d).Before(today) {
		return time.Time{}, domain.ErrInvalidStartDate
	}
	return day(d), nil
}

// ClampMaxMembers bounds the requested capacity to [2,10], defaulting to 2.
func ClampMaxMembers(n *int) int {
	v := domain.DefaultRoomMembers
	if n != nil {
		v = *n
	}
	return max(domain.MinRoomMembers, min(domain.MaxRoomMembers, v))
}

// Gender maps an optional category to its canonical value. Absent means Male.
func Gender(g *string) (domain.Gender, error) {
	if g == nil || strings.TrimSpace(*g) == "" {
		return domain.GenderMale, nil
	}
	switch strings.ToLower(strings.TrimSpace(*g)) {
	case "male":
		return domain.GenderMale, nil
	case "female":
		return domain.GenderFemale, nil
	case "other":
		return domain.GenderOther, nil
	default:
		return "", domain.BadRequest("unknown gender category")
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// day keeps the calendar fields of t in its own offset.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
