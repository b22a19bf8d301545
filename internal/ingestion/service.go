package ingestion

import (
	"github.com/aevon-lab/aevon-consumption/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// SnapshotInvalidator drops cached results derived from a sensor's records.
type SnapshotInvalidator interface {
	Invalidate(sensorID string)
}

type Service struct {
	store            storage.RecordWriter
	snapshots        SnapshotInvalidator
	maxBodySizeBytes int
}

func NewService(store storage.RecordWriter, snapshots SnapshotInvalidator, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		snapshots:        snapshots,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/records", s.IngestHandler)
}
