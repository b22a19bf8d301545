package consumption

import (
	"fmt"

	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/shopspring/decimal"
)

// GatePolicy decides whether a sub-window's data is complete enough to take
// part in an average.
type GatePolicy string

const (
	// GateMissingSample rejects a window that is empty or holds any missing
	// or invalid sample. A legitimate zero reading is kept.
	GateMissingSample GatePolicy = "missing_sample"
	// GateZeroSum rejects a window that is empty, holds an invalid sample,
	// or sums to exactly zero. Missing samples alone do not reject it.
	GateZeroSum GatePolicy = "zero_sum"
)

// ParseGatePolicy validates a configured policy name. Empty selects GateMissingSample.
func ParseGatePolicy(s string) (GatePolicy, error) {
	switch GatePolicy(s) {
	case "", GateMissingSample:
		return GateMissingSample, nil
	case GateZeroSum:
		return GateZeroSum, nil
	}
	return "", fmt.Errorf("unsupported gate policy %q (must be %s or %s)", s, GateMissingSample, GateZeroSum)
}

// Admits reports whether a window with these samples and this sum counts.
func (g GatePolicy) Admits(samples []measurement.Sample, sum decimal.Decimal) bool {
	if len(samples) == 0 {
		return false
	}
	if g == GateZeroSum {
		for _, s := range samples {
			if s.State == measurement.Invalid {
				return false
			}
		}
		return !sum.IsZero()
	}
	return measurement.Complete(samples)
}
