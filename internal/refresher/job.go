package refresher

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aevon-lab/aevon-consumption/internal/metrics"
	"github.com/aevon-lab/aevon-consumption/internal/projection"
	"golang.org/x/sync/errgroup"
)

// SnapshotRefresher rebuilds the snapshot of one sensor.
type SnapshotRefresher interface {
	Refresh(ctx context.Context, sensorID string) (*projection.Snapshot, error)
}

// SnapshotJob returns a Job that refreshes the snapshot of every sensor,
// at most workers at a time. A sensor failure does not stop the others.
func SnapshotJob(svc SnapshotRefresher, sensors []string, workers int, m *metrics.Metrics) Job {
	if workers < 1 {
		workers = 1
	}
	return func(ctx context.Context, now time.Time) error {
		started := time.Now()
		var failed atomic.Int64

		var g errgroup.Group
		g.SetLimit(workers)
		for _, sensorID := range sensors {
			g.Go(func() error {
				if _, err := svc.Refresh(ctx, sensorID); err != nil {
					failed.Add(1)
					slog.Warn("[Refresher] Snapshot refresh failed", "sensor_id", sensorID, "error", err)
				}
				return nil
			})
		}
		_ = g.Wait()

		n := int(failed.Load())
		m.RefreshRun(time.Since(started), n)
		slog.Info("[Refresher] Snapshots refreshed",
			"sensors", len(sensors),
			"failed", n,
			"day", now.Format("2006-01-02"),
			"duration", time.Since(started))

		if n > 0 {
			return fmt.Errorf("%d of %d sensor refreshes failed", n, len(sensors))
		}
		return nil
	}
}
