package period

import (
	"fmt"
	"strings"
	"time"
)

// Locale carries the calendar convention that affects period resolution.
// Only the first day of the week differs between locales.
type Locale struct {
	Name      string
	WeekStart time.Weekday
}

// DefaultLocale matches the "en" convention: weeks start on Sunday.
var DefaultLocale = Locale{Name: "en", WeekStart: time.Sunday}

var weekStarts = map[string]time.Weekday{
	"en":    time.Sunday,
	"en-us": time.Sunday,
	"en-ca": time.Sunday,
	"ja":    time.Sunday,
	"pt-br": time.Sunday,
	"en-gb": time.Monday,
	"it":    time.Monday,
	"de":    time.Monday,
	"fr":    time.Monday,
	"es":    time.Monday,
	"nl":    time.Monday,
	"pt":    time.Monday,
	"iso":   time.Monday,
	"ar":    time.Saturday,
}

// LookupLocale resolves a locale name such as "it" or "en_GB".
// A region-qualified name falls back to its language when the region is unknown.
func LookupLocale(name string) (Locale, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if key == "" {
		return DefaultLocale, nil
	}
	if ws, ok := weekStarts[key]; ok {
		return Locale{Name: key, WeekStart: ws}, nil
	}
	if lang, _, found := strings.Cut(key, "-"); found {
		if ws, ok := weekStarts[lang]; ok {
			return Locale{Name: key, WeekStart: ws}, nil
		}
	}
	return Locale{}, fmt.Errorf("unknown calendar locale %q", name)
}
