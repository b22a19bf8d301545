package period

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// Layout is the wire format of period bounds: ISO-8601 UTC with milliseconds.
const Layout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrZeroBound     = errors.New("period bounds must be set")
	ErrInvertedRange = errors.New("period start must not be after end")
)

// Period is a concrete window of UTC instants. End is inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// New builds a period normalized to UTC.
func New(start, end time.Time) Period {
	return Period{Start: start.UTC(), End: end.UTC()}
}

// Validate reports whether p is a usable window.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return ErrZeroBound
	}
	if p.Start.After(p.End) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvertedRange, p.Start.Format(Layout), p.End.Format(Layout))
	}
	return nil
}

// Contains reports whether t lies in [Start, End], compared at millisecond precision.
func (p Period) Contains(t time.Time) bool {
	ms := t.UnixMilli()
	return ms >= p.Start.UnixMilli() && ms <= p.End.UnixMilli()
}

func (p Period) String() string {
	return p.Start.Format(Layout) + "/" + p.End.Format(Layout)
}

type periodJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(periodJSON{
		Start: p.Start.UTC().Format(Layout),
		End:   p.End.UTC().Format(Layout),
	})
}

func (p *Period) UnmarshalJSON(data []byte) error {
	var raw periodJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := time.Parse(time.RFC3339Nano, raw.Start)
	if err != nil {
		return fmt.Errorf("invalid period start: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, raw.End)
	if err != nil {
		return fmt.Errorf("invalid period end: %w", err)
	}
	*p = New(start, end)
	return nil
}

// Resolver turns symbolic unit descriptors into concrete periods relative to
// an injected clock and calendar locale.
type Resolver struct {
	locale Locale
	nowFn  func() time.Time
}

// NewResolver creates a resolver. A nil nowFn reads the wall clock in UTC.
func NewResolver(locale Locale, nowFn func() time.Time) *Resolver {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Resolver{locale: locale, nowFn: nowFn}
}

// Locale returns the calendar locale used for week boundaries.
func (r *Resolver) Locale() Locale { return r.locale }

// Now returns the resolver's current instant in UTC.
func (r *Resolver) Now() time.Time { return r.nowFn().UTC() }

// Current resolves the unit containing now. With toNow the window ends at now
// instead of the end of the unit.
func (r *Resolver) Current(u Unit, toNow bool) (Period, error) {
	if !u.Valid() {
		return Period{}, fmt.Errorf("unsupported period unit %q", u)
	}
	return r.bounds(r.Now(), u, toNow), nil
}

// Previous shifts now back by offset units of subtract, then resolves the
// range unit around the shifted instant. With toNow the window ends at the
// shifted instant, so "last week to now" stops at the same time last week.
func (r *Resolver) Previous(subtract, rng Unit, toNow bool, offset int) (Period, error) {
	if !subtract.Valid() {
		return Period{}, fmt.Errorf("unsupported period unit %q", subtract)
	}
	if !rng.Valid() {
		return Period{}, fmt.Errorf("unsupported period unit %q", rng)
	}
	if offset < 1 {
		return Period{}, fmt.Errorf("offset must be >= 1, got %d", offset)
	}
	shifted := Shift(r.Now(), subtract, -offset)
	return r.bounds(shifted, rng, toNow), nil
}

func (r *Resolver) bounds(t time.Time, u Unit, toNow bool) Period {
	start := r.StartOf(t, u)
	if toNow {
		return Period{Start: start, End: t}
	}
	return Period{Start: start, End: r.EndOf(t, u)}
}

// StartOf returns the first instant of the unit containing t.
func (r *Resolver) StartOf(t time.Time, u Unit) time.Time {
	cal := r.calendar(t)
	switch u {
	case Week:
		return cal.BeginningOfWeek()
	case Month:
		return cal.BeginningOfMonth()
	case Year:
		return cal.BeginningOfYear()
	default:
		return cal.BeginningOfDay()
	}
}

// EndOf returns the last millisecond of the unit containing t.
func (r *Resolver) EndOf(t time.Time, u Unit) time.Time {
	cal := r.calendar(t)
	var end time.Time
	switch u {
	case Week:
		end = cal.EndOfWeek()
	case Month:
		end = cal.EndOfMonth()
	case Year:
		end = cal.EndOfYear()
	default:
		end = cal.EndOfDay()
	}
	return end.Truncate(time.Millisecond)
}

func (r *Resolver) calendar(t time.Time) *now.Now {
	cfg := now.Config{WeekStartDay: r.locale.WeekStart, TimeLocation: time.UTC}
	return cfg.With(t.UTC())
}

// UnitsPerYear is the fractional number of units between January 1st of last
// year and January 1st of the current year.
func (r *Resolver) UnitsPerYear(u Unit) float64 {
	year := r.Now().Year()
	days := float64(DaysInYear(year - 1))
	switch u {
	case Day:
		return days
	case Week:
		return days / 7
	case Month:
		return 12
	case Year:
		return 1
	}
	return 0
}

// WindowsPerYear is how many whole windows of offset units fit in one trailing year.
func (r *Resolver) WindowsPerYear(u Unit, offset int) int {
	if offset < 1 {
		return 0
	}
	return int(r.UnitsPerYear(u) / float64(offset))
}
