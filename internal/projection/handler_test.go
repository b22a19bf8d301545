package projection

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httperr "github.com/aevon-lab/aevon-consumption/internal/core/errors"
	"github.com/aevon-lab/aevon-consumption/internal/core/period"
	"github.com/aevon-lab/aevon-consumption/internal/core/storage"
	storagemocks "github.com/aevon-lab/aevon-consumption/internal/mocks/storage"
	"github.com/aevon-lab/aevon-consumption/internal/report"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_HandleSum_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedType   string
		configure      func(store *storagemocks.RecordStore)
	}{
		{
			name:           "missing end returns 400",
			query:          "start=2016-01-01T00:00:00Z",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
			configure:      func(_ *storagemocks.RecordStore) {},
		},
		{
			name:           "start after end returns 400",
			query:          "start=2016-02-01T00:00:00Z&end=2016-01-01T00:00:00Z",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
			configure:      func(_ *storagemocks.RecordStore) {},
		},
		{
			name:           "store rejects query returns 400",
			query:          "start=2016-01-01T00:00:00Z&end=2016-02-01T00:00:00Z",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
			configure: func(store *storagemocks.RecordStore) {
				store.EXPECT().
					YearRecords(mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: bad source", storage.ErrInvalidQuery)).
					Once()
			},
		},
		{
			name:           "store error returns 500",
			query:          "start=2016-01-01T00:00:00Z&end=2016-02-01T00:00:00Z",
			expectedStatus: http.StatusInternalServerError,
			expectedType:   httperr.HttpStoreUnavailable,
			configure: func(store *storagemocks.RecordStore) {
				store.EXPECT().
					YearRecords(mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("db failure")).
					Once()
			},
		},
		{
			name:           "success returns 200",
			query:          "start=2016-01-01T00:00:00Z&end=2016-01-31T23:59:59Z",
			expectedStatus: http.StatusOK,
			configure: func(store *storagemocks.RecordStore) {
				store.EXPECT().
					YearRecords(mock.Anything, mock.Anything).
					Return(yearRecords(t), nil).
					Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storagemocks.NewRecordStore(t)
			tt.configure(store)
			svc := newTestService(t, store, &clock{now: referenceNow})

			router := gin.New()
			svc.RegisterRoutes(router)

			req := httptest.NewRequest(http.MethodGet, "/v1/consumption/sensor1/sum?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedType != "" {
				var body httperr.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, tt.expectedType, body.ErrorType)
			}
		})
	}
}

func TestService_HandleSum_ReturnsValue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := storagemocks.NewRecordStore(t)
	store.EXPECT().YearRecords(mock.Anything, mock.Anything).Return(yearRecords(t), nil).Once()
	svc := newTestService(t, store, &clock{now: referenceNow})

	router := gin.New()
	svc.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/v1/consumption/sensor1/sum?start=2016-01-01T00:00:00Z&end=2016-01-31T23:59:59Z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		SensorID string `json:"sensor_id"`
		Value    string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "sensor1", body.SensorID)
	require.Equal(t, "31", body.Value)
}

func TestService_HandleAverage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		configure      func(store *storagemocks.RecordStore)
	}{
		{
			name:           "missing unit returns 400",
			query:          "",
			expectedStatus: http.StatusBadRequest,
			configure:      func(_ *storagemocks.RecordStore) {},
		},
		{
			name:           "unknown unit returns 400",
			query:          "unit=hour",
			expectedStatus: http.StatusBadRequest,
			configure:      func(_ *storagemocks.RecordStore) {},
		},
		{
			name:           "monthly average returns 200",
			query:          "unit=month",
			expectedStatus: http.StatusOK,
			configure: func(store *storagemocks.RecordStore) {
				store.EXPECT().
					YearRecords(mock.Anything, mock.Anything).
					Return(yearRecords(t), nil).
					Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storagemocks.NewRecordStore(t)
			tt.configure(store)
			svc := newTestService(t, store, &clock{now: referenceNow})

			router := gin.New()
			svc.RegisterRoutes(router)

			req := httptest.NewRequest(http.MethodGet, "/v1/consumption/sensor1/average?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestService_HandleCurrentPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := newTestService(t, storagemocks.NewRecordStore(t), &clock{now: referenceNow})
	router := gin.New()
	svc.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/v1/periods/current?unit=month", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Unit   string `json:"unit"`
		Period struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"period"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "month", body.Unit)
	require.Equal(t, "2016-10-01T00:00:00.000Z", body.Period.Start)
	require.Equal(t, "2016-10-31T23:59:59.999Z", body.Period.End)
}

func TestService_HandlePreviousPeriod_InvalidOffset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := newTestService(t, storagemocks.NewRecordStore(t), &clock{now: referenceNow})
	router := gin.New()
	svc.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/v1/periods/previous?subtract=year&range=month&offset=-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestService_HandleReports(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := newTestService(t, storagemocks.NewRecordStore(t), &clock{now: referenceNow},
		report.Report{Name: "current_month", Kind: report.KindCurrentSum, Unit: period.Month},
		report.Report{Name: "monthly_average", Kind: report.KindAverage, Unit: period.Month, OffsetNumber: 1},
	)
	router := gin.New()
	svc.RegisterRoutes(router)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedNames  []string
	}{
		{name: "list all", path: "/v1/reports", expectedStatus: http.StatusOK, expectedNames: []string{"current_month", "monthly_average"}},
		{name: "list by kind", path: "/v1/reports?kind=average", expectedStatus: http.StatusOK, expectedNames: []string{"monthly_average"}},
		{name: "unknown kind returns 400", path: "/v1/reports?kind=median", expectedStatus: http.StatusBadRequest},
		{name: "get by name", path: "/v1/reports/current_month", expectedStatus: http.StatusOK, expectedNames: []string{"current_month"}},
		{name: "unknown name returns 404", path: "/v1/reports/nope", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedNames == nil {
				return
			}

			var names []string
			var list struct {
				Reports []report.Report `json:"reports"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
			if list.Reports == nil {
				var single report.Report
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &single))
				list.Reports = []report.Report{single}
			}
			for _, r := range list.Reports {
				names = append(names, r.Name)
			}
			require.Equal(t, tt.expectedNames, names)
		})
	}
}
