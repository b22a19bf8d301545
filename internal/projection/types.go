package projection

import (
	"time"

	"github.com/aevon-lab/aevon-consumption/internal/core/consumption"
	"github.com/aevon-lab/aevon-consumption/internal/core/period"
	"github.com/aevon-lab/aevon-consumption/internal/report"
	"github.com/shopspring/decimal"
)

// PreviousPeriodRequest resolves "offset subtract-units ago, range-unit wide".
type PreviousPeriodRequest struct {
	Subtract string `form:"subtract" binding:"required"`
	Range    string `form:"range" binding:"required"`
	ToNow    bool   `form:"to_now"`
	Offset   int    `form:"offset,default=1"`
}

// PeriodResponse is a resolved window.
type PeriodResponse struct {
	Unit   period.Unit   `json:"unit"`
	ToNow  bool          `json:"to_now"`
	Period period.Period `json:"period"`
	Now    time.Time     `json:"now"`
}

// SumRequest sums one sensor's readings over [Start, End].
// ToNow reads sub-daily day records instead of year records.
type SumRequest struct {
	SensorID string
	Start    time.Time
	End      time.Time
	ToNow    bool
}

type SumResponse struct {
	SensorID string            `json:"sensor_id"`
	Period   period.Period     `json:"period"`
	ToNow    bool              `json:"to_now"`
	Value    decimal.Decimal   `json:"value"`
	Samples  consumption.Tally `json:"samples"`
}

// AverageRequest averages the past year of unit-wide windows, one every
// Offset units.
type AverageRequest struct {
	SensorID string
	Unit     string
	Offset   int
	ToNow    bool
}

type AverageResponse struct {
	SensorID        string                  `json:"sensor_id"`
	Unit            period.Unit             `json:"unit"`
	Offset          int                     `json:"offset"`
	ToNow           bool                    `json:"to_now"`
	Value           decimal.Decimal         `json:"value"`
	CompleteWindows int                     `json:"complete_windows"`
	Windows         []consumption.WindowSum `json:"windows"`
}

// Snapshot is every configured report evaluated for one sensor at one instant.
type Snapshot struct {
	ID         string          `json:"id"`
	SensorID   string          `json:"sensor_id"`
	ComputedAt time.Time       `json:"computed_at"`
	Reports    []report.Result `json:"reports"`
}

// FreshOn reports whether the snapshot was computed on the same UTC day as now.
func (s *Snapshot) FreshOn(now time.Time) bool {
	y1, m1, d1 := s.ComputedAt.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
