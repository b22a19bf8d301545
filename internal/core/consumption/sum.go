package consumption

import (
	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/shopspring/decimal"
)

// Sum adds every present sample exactly. Missing and invalid samples count as zero.
func Sum(samples []measurement.Sample) decimal.Decimal {
	total := decimal.Zero
	for _, s := range samples {
		if s.Ok() {
			total = total.Add(s.Value)
		}
	}
	return total
}

// Tally counts the samples of a window by state. Sum cannot tell an invalid
// sample from a zero, so callers report the tally next to the value.
type Tally struct {
	Present int `json:"present"`
	Missing int `json:"missing"`
	Invalid int `json:"invalid"`
}

// Count tallies samples by state.
func Count(samples []measurement.Sample) Tally {
	var t Tally
	for _, s := range samples {
		switch s.State {
		case measurement.Present:
			t.Present++
		case measurement.Invalid:
			t.Invalid++
		default:
			t.Missing++
		}
	}
	return t
}
