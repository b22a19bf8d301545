package v1

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
)

// RecordBatch is the body of a record ingestion request and the document
// format of the import command.
type RecordBatch struct {
	// Yearly records carry one comma separated sample per day of the year.
	Yearly []measurement.RawYearRecord `json:"yearly"`

	// Daily records carry parallel arrays of epoch-millisecond times and values.
	Daily []measurement.RawDayRecord `json:"daily"`
}

// RecordError locates one rejected record of a batch.
type RecordError struct {
	Kind  string `json:"kind"` // yearly | daily
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// ValidationError lists every rejected record of a batch.
type ValidationError struct {
	Records []RecordError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d invalid record(s), first: %s[%d]: %s",
		len(e.Records), e.Records[0].Kind, e.Records[0].Index, e.Records[0].Error)
}

// Len returns the number of records in the batch.
func (b *RecordBatch) Len() int { return len(b.Yearly) + len(b.Daily) }

// Validate decodes every record through the measurement parse boundary.
// The returned error is a *ValidationError when any record is rejected.
func (b *RecordBatch) Validate() error {
	if b.Len() == 0 {
		return errors.New("batch contains no records")
	}

	var rejected []RecordError
	for i, raw := range b.Yearly {
		err := requireSensor(raw.SensorID)
		if err == nil {
			_, err = raw.Decode()
		}
		if err != nil {
			rejected = append(rejected, RecordError{Kind: "yearly", Index: i, ID: raw.ID, Error: err.Error()})
		}
	}
	for i, raw := range b.Daily {
		err := requireSensor(raw.SensorID)
		if err == nil {
			_, err = raw.Decode()
		}
		if err != nil {
			rejected = append(rejected, RecordError{Kind: "daily", Index: i, ID: raw.ID, Error: err.Error()})
		}
	}
	if len(rejected) > 0 {
		return &ValidationError{Records: rejected}
	}
	return nil
}

func requireSensor(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("sensorId is required")
	}
	return nil
}

// SensorIDs returns the distinct sensors referenced by the batch, sorted.
func (b *RecordBatch) SensorIDs() []string {
	seen := make(map[string]struct{})
	for _, raw := range b.Yearly {
		seen[raw.SensorID] = struct{}{}
	}
	for _, raw := range b.Daily {
		seen[raw.SensorID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IngestResponse reports how many records were written.
type IngestResponse struct {
	Status  string   `json:"status"`
	Yearly  int      `json:"yearly"`
	Daily   int      `json:"daily"`
	Sensors []string `json:"sensors"`
}
