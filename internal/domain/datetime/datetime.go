// Package datetime parses the date notations found in inventory records and query parameters.
package datetime

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day is the length of one calendar day in UTC.
const Day = 24 * time.Hour

var (
	dateLike  = regexp.MustCompile(`^\d{4}-\d{2}`)
	dayMonth  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoPrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
)

// layouts are tried in order after the DD/MM/YYYY form.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// LooksLikeDate reports whether s starts with a "YYYY-MM" shape or is a DD/MM/YYYY date.
func LooksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	return dateLike.MatchString(s) || dayMonth.MatchString(s)
}

// Parse converts v to an instant in UTC. It accepts time.Time, unix milliseconds,
// DD/MM/YYYY, YYYY-MM-DD and the RFC 3339 family. Impossible calendar dates fail.
func Parse(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return Parse(*x)
	case string:
		return ParseText(x)
	case int64:
		return time.UnixMilli(x).UTC(), true
	case int:
		return time.UnixMilli(int64(x)).UTC(), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(x)).UTC(), true
	default:
		return time.Time{}, false
	}
}

// ParseText parses a textual date. See Parse.
func ParseText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if m := dayMonth.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		return civil(y, mo, d)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	// Unknown suffixes after a valid calendar date still carry the day.
	if m := isoPrefix.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return civil(y, mo, d)
	}
	return time.Time{}, false
}

func civil(y, mo, d int) (time.Time, bool) {
	if mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != mo {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of t's UTC day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(Day - time.Nanosecond)
}

// DaysUntil returns the number of days from now to t, rounded up.
// Past instants give zero or negative values.
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(float64(t.Sub(now)) / float64(Day)))
}
