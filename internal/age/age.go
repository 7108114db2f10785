// Package age turns --min-age / --max-age values into epoch-second boundaries.
//
// The two bounds are used asymmetrically by the filter package:
//
//   - a minimum age keeps items at least that old, so the boundary is far in the
//     past and items match when created_utc <= boundary;
//   - a maximum age keeps items at most that old, so the boundary is recent and
//     items match when created_utc >= boundary.
//
// "--min-age 1y --max-age 2y" therefore selects items between one and two years old.
package age

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseError reports an age string no supported format accepted.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid age %q: expected a duration like \"2 weeks\" or a date like 2024-01-31", e.Input)
}

const (
	day   = 24 * 60 * 60
	month = 30.44 * day
	year  = 365.25 * day
)

// seconds per unit; keys are lowercased except the month shorthand "M"
var units = map[string]float64{
	"s": 1, "sec": 1, "secs": 1, "second": 1, "seconds": 1,
	"m": 60, "min": 60, "mins": 60, "minute": 60, "minutes": 60,
	"h": 3600, "hr": 3600, "hrs": 3600, "hour": 3600, "hours": 3600,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "wk": 7 * day, "wks": 7 * day, "week": 7 * day, "weeks": 7 * day,
	"M": month, "mo": month, "mon": month, "month": month, "months": month,
	"y": year, "yr": year, "yrs": year, "year": year, "years": year,
}

var durationTerm = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]+)[\s,]*`)

var absoluteLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05Z0700", true},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
}

// Parse converts input into an epoch-second boundary relative to now.
// Relative durations win over absolute dates; naive dates are read as UTC.
func Parse(input string, now time.Time) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, &ParseError{Input: input}
	}
	if secs, ok := parseRelative(s); ok {
		return epoch(now) - secs, nil
	}
	for _, l := range absoluteLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, time.UTC)
		}
		if err == nil {
			return epoch(t), nil
		}
	}
	return 0, &ParseError{Input: input}
}

// ParseNow is Parse against the wall clock.
func ParseNow(input string) (float64, error) {
	return Parse(input, time.Now())
}

// parseRelative sums every "<amount> <unit>" term; the whole string must be consumed.
func parseRelative(s string) (float64, bool) {
	rest := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "ago"))
	if rest == "" {
		return 0, false
	}
	var total float64
	for rest != "" {
		m := durationTerm.FindStringSubmatch(rest)
		if m == nil {
			return 0, false
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		unit, ok := lookupUnit(m[2])
		if !ok {
			return 0, false
		}
		total += n * unit
		rest = rest[len(m[0]):]
	}
	return total, true
}

func lookupUnit(u string) (float64, bool) {
	if v, ok := units[u]; ok {
		return v, true
	}
	v, ok := units[strings.ToLower(u)]
	return v, ok
}

func epoch(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
