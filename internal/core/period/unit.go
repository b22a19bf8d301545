package period

import (
	"fmt"
	"strings"
	"time"
)

// Unit is a calendar unit a period can be expressed in.
type Unit string

const (
	Day   Unit = "day"
	Week  Unit = "week"
	Month Unit = "month"
	Year  Unit = "year"
)

// Units lists every supported unit, shortest first.
var Units = []Unit{Day, Week, Month, Year}

// ParseUnit accepts singular and plural unit names, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !u.Valid() {
		return "", fmt.Errorf("unsupported period unit %q (must be day, week, month or year)", s)
	}
	return u, nil
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

func (u Unit) String() string { return string(u) }

// Shift moves t by n units. Months and years clamp the day of month
// (Oct 31 minus one month is Sep 30), days and weeks are plain calendar days.
func Shift(t time.Time, u Unit, n int) time.Time {
	switch u {
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return addMonths(t, n)
	case Year:
		return addMonths(t, 12*n)
	}
	return t
}

func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + n
	targetYear := year + floorDiv(total, 12)
	targetMonth := time.Month(total - floorDiv(total, 12)*12 + 1)
	if last := DaysIn(targetYear, targetMonth); day > last {
		day = last
	}
	hour, min, sec := t.Clock()
	return time.Date(targetYear, targetMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
