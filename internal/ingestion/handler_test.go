package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v1 "github.com/aevon-lab/aevon-consumption/internal/api/v1"
	httperr "github.com/aevon-lab/aevon-consumption/internal/core/errors"
	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/aevon-lab/aevon-consumption/internal/core/storage"
	storagemocks "github.com/aevon-lab/aevon-consumption/internal/mocks/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invalidations struct{ ids []string }

func (i *invalidations) Invalidate(sensorID string) { i.ids = append(i.ids, sensorID) }

func yearly(sensor, values string) measurement.RawYearRecord {
	return measurement.RawYearRecord{
		Year:              "2016",
		SensorID:          sensor,
		Source:            "reading",
		MeasurementType:   "activeEnergy",
		MeasurementValues: values,
	}
}

func post(t *testing.T, svc *Service, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	svc.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/v1/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestIngestHandler_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	batch := v1.RecordBatch{Yearly: []measurement.RawYearRecord{yearly("sensor1", "1,2,3"), yearly("sensor2", "4")}}
	body, _ := json.Marshal(batch)

	mockStore := storagemocks.NewRecordWriter(t)
	mockStore.EXPECT().
		UpsertYearRecords(mock.Anything, mock.MatchedBy(func(recs []measurement.RawYearRecord) bool {
			return len(recs) == 2 && recs[0].SensorID == "sensor1"
		})).
		Return(2, nil).
		Once()
	mockStore.EXPECT().UpsertDayRecords(mock.Anything, mock.Anything).Return(0, nil).Once()

	inv := &invalidations{}
	resp := post(t, NewService(mockStore, inv, 1), body)

	require.Equal(t, http.StatusOK, resp.Code)
	var result v1.IngestResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, 2, result.Yearly)
	require.Equal(t, []string{"sensor1", "sensor2"}, result.Sensors)
	require.Equal(t, []string{"sensor1", "sensor2"}, inv.ids)
}

func TestIngestHandler_InvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resp := post(t, NewService(storagemocks.NewRecordWriter(t), nil, 1), []byte(`{"yearly": [`))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var result httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, httperr.HttpInvalidJsonError, result.ErrorType)
}

func TestIngestHandler_InvalidRecords(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tooMany := strings.TrimSuffix(strings.Repeat("1,", 367), ",")
	batch := v1.RecordBatch{Yearly: []measurement.RawYearRecord{yearly("sensor1", "1"), yearly("sensor1", tooMany)}}
	body, _ := json.Marshal(batch)

	resp := post(t, NewService(storagemocks.NewRecordWriter(t), nil, 1), body)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var result struct {
		ErrorType string           `json:"error_type"`
		Details   []v1.RecordError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, httperr.HttpInvalidRecordError, result.ErrorType)
	require.Len(t, result.Details, 1)
	require.Equal(t, 1, result.Details[0].Index)
}

func TestIngestHandler_EmptyBatch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resp := post(t, NewService(storagemocks.NewRecordWriter(t), nil, 1), []byte(`{}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestIngestHandler_PayloadTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	values := strings.TrimSuffix(strings.Repeat("123456.789,", 100000), ",")
	body, _ := json.Marshal(v1.RecordBatch{Yearly: []measurement.RawYearRecord{yearly("sensor1", values)}})
	require.Greater(t, len(body), 1024*1024)

	resp := post(t, NewService(storagemocks.NewRecordWriter(t), nil, 1), body)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestIngestHandler_StoreErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		storeErr       error
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "rejected by store returns 400",
			storeErr:       fmt.Errorf("%w: record too long", storage.ErrInvalidQuery),
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidRecordError,
		},
		{
			name:           "database failure returns 500",
			storeErr:       errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedType:   httperr.HttpStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(v1.RecordBatch{Yearly: []measurement.RawYearRecord{yearly("sensor1", "1")}})

			mockStore := storagemocks.NewRecordWriter(t)
			mockStore.EXPECT().UpsertYearRecords(mock.Anything, mock.Anything).Return(0, tt.storeErr).Once()

			inv := &invalidations{}
			resp := post(t, NewService(mockStore, inv, 1), body)

			require.Equal(t, tt.expectedStatus, resp.Code)
			var result httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
			require.Equal(t, tt.expectedType, result.ErrorType)
			require.Empty(t, inv.ids)
		})
	}
}
