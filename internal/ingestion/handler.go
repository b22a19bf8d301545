package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/aevon-consumption/internal/api/v1"
	httperr "github.com/aevon-lab/aevon-consumption/internal/core/errors"
	"github.com/aevon-lab/aevon-consumption/internal/core/storage"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgInvalidRecords = "Batch contains invalid records"
	msgPersistFailed  = "Failed to persist records"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler handles HTTP POST requests carrying a batch of raw records.
func (s *Service) IngestHandler(c *gin.Context) {
	batch, payloadSize, err := s.parseBatch(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := validateBatch(batch); err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Ingestion] Received records",
		"yearly", len(batch.Yearly),
		"daily", len(batch.Daily),
		"payload_size", payloadSize)

	resp, err := s.persistBatch(c.Request.Context(), batch)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parseBatch reads the raw request body and binds it into a RecordBatch.
// Returns the parsed batch and the raw payload size (used for structured logging upstream).
func (s *Service) parseBatch(c *gin.Context) (*v1.RecordBatch, int, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var batch v1.RecordBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	return &batch, len(bodyBytes), nil
}

// validateBatch decodes every record. A batch with any invalid record is
// rejected whole and the response lists every offending record.
func validateBatch(batch *v1.RecordBatch) *ingestionError {
	err := batch.Validate()
	if err == nil {
		return nil
	}

	var verr *v1.ValidationError
	if errors.As(err, &verr) {
		slog.Warn("[Ingestion] Record validation failed", "rejected", len(verr.Records), "error", err)
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRecordError,
			message:    msgInvalidRecords,
			details:    verr.Records,
		}
	}
	return &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpInvalidRecordError,
		message:    err.Error(),
	}
}

// persistBatch upserts the records and drops cached snapshots of the
// sensors they belong to.
func (s *Service) persistBatch(ctx context.Context, batch *v1.RecordBatch) (*v1.IngestResponse, *ingestionError) {
	years, err := s.store.UpsertYearRecords(ctx, batch.Yearly)
	if err == nil {
		var days int
		days, err = s.store.UpsertDayRecords(ctx, batch.Daily)
		if err == nil {
			sensors := batch.SensorIDs()
			if s.snapshots != nil {
				for _, id := range sensors {
					s.snapshots.Invalidate(id)
				}
			}
			return &v1.IngestResponse{Status: "ok", Yearly: years, Daily: days, Sensors: sensors}, nil
		}
	}

	if errors.Is(err, storage.ErrInvalidQuery) {
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRecordError,
			message:    err.Error(),
		}
	}
	slog.Error("[Ingestion] Failed to persist records", "error", err)
	return nil, &ingestionError{
		statusCode: http.StatusInternalServerError,
		errorType:  httperr.HttpStoreUnavailable,
		message:    msgPersistFailed,
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
