package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
)

// dayLayouts are tried in order when coercing loosely formatted day input.
var dayLayouts = []string{
	constants.DateFormat,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// ParseDay parses a calendar day. Timestamps are accepted and reduced to the
// day they fall on in loc.
func ParseDay(s string, loc *time.Location) (string, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dayLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == constants.DateFormat {
			t, err = time.Parse(layout, s)
			if err == nil {
				return t.Format(constants.DateFormat), nil
			}
			continue
		}
		t, err = time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc).Format(constants.DateFormat), nil
		}
	}
	return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
}

// CoerceDay is the lenient form of ParseDay: unparseable input becomes fallback.
func CoerceDay(s string, fallback string, loc *time.Location) string {
	day, err := ParseDay(s, loc)
	if err != nil {
		return fallback
	}
	return day
}

// ValidateDateFormat checks if the string is a YYYY-MM-DD day.
func ValidateDateFormat(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD day by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}
