// Package datefmt parses loosely typed date values and formats them with the
// token patterns used by grid column declarations.
//
// Supported tokens: yyyy, mm, dd, HH, MM, SS and TZHM (timezone offset as
// +hh:mm). Each token is replaced once, in that order; everything else in the
// pattern is copied as is.
package datefmt

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common patterns.
const (
	HHMM        = "HH:MM"
	HHMMSS      = "HH:MM:SS"
	SQLDate     = "yyyy-mm-dd"
	SQLDateTime = "yyyy-mm-dd HH:MM:SS"
	ISO         = "yyyy-mm-ddTHH:MM:SSTZHM"
)

var (
	sqlPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	nonDigits = regexp.MustCompile(`\D+`)
)

// fallbackLayouts are tried for strings that do not start with yyyy-mm-dd.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
}

// Parse converts a time.Time, a date string or a millisecond timestamp into a
// time in the local zone. Strings starting with yyyy-mm-dd are split on
// non-digit runs and read as year, month, day and optional hour, minute,
// second. Returns false for empty or unrecognized values.
func Parse(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return parseString(v)
	case int:
		return fromMillis(float64(v))
	case int64:
		return fromMillis(float64(v))
	case float64:
		return fromMillis(v)
	case fmt.Stringer:
		return parseString(v.String())
	default:
		return time.Time{}, false
	}
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if sqlPrefix.MatchString(s) {
		parts := nonDigits.Split(s, -1)
		nums := make([]int, 0, 6)
		for _, p := range parts {
			if p == "" {
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil {
				return time.Time{}, false
			}
			nums = append(nums, n)
			if len(nums) == 6 {
				break
			}
		}
		for len(nums) < 6 {
			nums = append(nums, 0)
		}
		return time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], nums[5], 0, time.Local), true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return fromMillis(ms)
	}
	return time.Time{}, false
}

func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).In(time.Local), true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Format renders t using a token pattern such as "yyyy-mm-dd HH:MM".
func Format(t time.Time, pattern string) string {
	s := pattern
	s = strings.Replace(s, "yyyy", pad(t.Year(), 4), 1)
	s = strings.Replace(s, "mm", pad(int(t.Month()), 2), 1)
	s = strings.Replace(s, "dd", pad(t.Day(), 2), 1)
	s = strings.Replace(s, "HH", pad(t.Hour(), 2), 1)
	s = strings.Replace(s, "MM", pad(t.Minute(), 2), 1)
	s = strings.Replace(s, "SS", pad(t.Second(), 2), 1)
	if strings.Contains(s, "TZHM") {
		_, offset := t.Zone()
		sign := "+"
		if offset < 0 {
			sign = "-"
			offset = -offset
		}
		minutes := offset / 60
		s = strings.Replace(s, "TZHM", sign+pad(minutes/60, 2)+":"+pad(minutes%60, 2), 1)
	}
	return s
}

// FormatValue parses value and formats it, returning "" when value is not a date.
func FormatValue(value any, pattern string) string {
	t, ok := Parse(value)
	if !ok {
		return ""
	}
	return Format(t, pattern)
}

// pad left-pads n with zeros and keeps the last width digits.
func pad(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s[len(s)-width:]
}
