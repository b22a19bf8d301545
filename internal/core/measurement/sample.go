package measurement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SampleState distinguishes a real reading from the two kinds of "no reading".
type SampleState uint8

const (
	// Missing means the wire value was empty: no reading for that slot.
	Missing SampleState = iota
	// Present carries an exact decimal reading.
	Present
	// Invalid means the wire value could not be parsed as a number.
	Invalid
)

func (s SampleState) String() string {
	switch s {
	case Present:
		return "present"
	case Invalid:
		return "invalid"
	default:
		return "missing"
	}
}

// Sample is one optional reading. The zero value is Missing.
type Sample struct {
	Value decimal.Decimal
	State SampleState
}

// Of returns a present sample.
func Of(v decimal.Decimal) Sample {
	return Sample{Value: v, State: Present}
}

// Ok reports whether the sample holds a usable reading.
func (s Sample) Ok() bool { return s.State == Present }

// String renders the wire form: the decimal for present samples, empty otherwise.
func (s Sample) String() string {
	if s.State != Present {
		return ""
	}
	return s.Value.String()
}

// ParseSample is the parse boundary for wire values. An empty string is
// Missing, an unparsable one is Invalid.
func ParseSample(raw string) Sample {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Sample{State: Missing}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Sample{State: Invalid}
	}
	return Of(d)
}

// ParseSamples parses each wire value in order.
func ParseSamples(raw []string) []Sample {
	out := make([]Sample, len(raw))
	for i, v := range raw {
		out[i] = ParseSample(v)
	}
	return out
}

// ParseValues parses the comma-joined wire form ("1.5,,2.25").
// An empty string yields no samples.
func ParseValues(csv string) []Sample {
	if csv == "" {
		return nil
	}
	return ParseSamples(strings.Split(csv, ","))
}

// FormatValues is the inverse of ParseValues.
func FormatValues(samples []Sample) string {
	return strings.Join(Strings(samples), ",")
}

// Strings renders every sample in its wire form.
func Strings(samples []Sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.String()
	}
	return out
}

// Complete reports whether samples is non-empty and every sample is present.
func Complete(samples []Sample) bool {
	if len(samples) == 0 {
		return false
	}
	for _, s := range samples {
		if s.State != Present {
			return false
		}
	}
	return true
}
