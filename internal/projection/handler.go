package projection

import (
	"errors"
	"net/http"
	"time"

	"github.com/aevon-lab/aevon-consumption/internal/core/consumption"
	httperr "github.com/aevon-lab/aevon-consumption/internal/core/errors"
	"github.com/aevon-lab/aevon-consumption/internal/core/storage"
	"github.com/aevon-lab/aevon-consumption/internal/report"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1")

	v1.GET("/reports", s.HandleListReports)
	v1.GET("/reports/:name", s.HandleGetReport)

	v1.GET("/periods/current", s.HandleCurrentPeriod)
	v1.GET("/periods/previous", s.HandlePreviousPeriod)

	v1.GET("/consumption/:sensor_id/sum", s.HandleSum)
	v1.GET("/consumption/:sensor_id/average", s.HandleAverage)
	v1.GET("/consumption/:sensor_id/summary", s.HandleSummary)
}

// HandleListReports handles GET /v1/reports?kind=
func (s *Service) HandleListReports(c *gin.Context) {
	var query struct {
		Kind string `form:"kind"`
	}
	if !bindQuery(c, &query) {
		return
	}

	reports, err := s.ListReports(c.Request.Context(), query.Kind)
	if err != nil {
		writeError(c, err, "Failed to list reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// HandleGetReport handles GET /v1/reports/:name
func (s *Service) HandleGetReport(c *gin.Context) {
	rep, err := s.Report(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err, "Failed to get report")
		return
	}
	c.JSON(http.StatusOK, rep)
}

// HandleCurrentPeriod handles GET /v1/periods/current?unit=&to_now=
func (s *Service) HandleCurrentPeriod(c *gin.Context) {
	var query struct {
		Unit  string `form:"unit" binding:"required"`
		ToNow bool   `form:"to_now"`
	}
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.CurrentPeriod(query.Unit, query.ToNow)
	if err != nil {
		writeError(c, err, "Failed to resolve period")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandlePreviousPeriod handles GET /v1/periods/previous?subtract=&range=&to_now=&offset=
func (s *Service) HandlePreviousPeriod(c *gin.Context) {
	var query PreviousPeriodRequest
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.PreviousPeriod(query)
	if err != nil {
		writeError(c, err, "Failed to resolve period")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleSum handles GET /v1/consumption/:sensor_id/sum?start=&end=&to_now=
func (s *Service) HandleSum(c *gin.Context) {
	var query struct {
		Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
		End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
		ToNow bool      `form:"to_now"`
	}
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.Sum(c.Request.Context(), SumRequest{
		SensorID: c.Param("sensor_id"),
		Start:    query.Start,
		End:      query.End,
		ToNow:    query.ToNow,
	})
	if err != nil {
		writeError(c, err, "Failed to sum consumption")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleAverage handles GET /v1/consumption/:sensor_id/average?unit=&offset=&to_now=
func (s *Service) HandleAverage(c *gin.Context) {
	var query struct {
		Unit   string `form:"unit" binding:"required"`
		Offset int    `form:"offset,default=1"`
		ToNow  bool   `form:"to_now"`
	}
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.Average(c.Request.Context(), AverageRequest{
		SensorID: c.Param("sensor_id"),
		Unit:     query.Unit,
		Offset:   query.Offset,
		ToNow:    query.ToNow,
	})
	if err != nil {
		writeError(c, err, "Failed to average consumption")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleSummary handles GET /v1/consumption/:sensor_id/summary?fresh=
func (s *Service) HandleSummary(c *gin.Context) {
	var query struct {
		Fresh bool `form:"fresh"`
	}
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.Summary(c.Request.Context(), c.Param("sensor_id"), query.Fresh)
	if err != nil {
		writeError(c, err, "Failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return false
	}
	return true
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, storage.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   message,
			Details:   err.Error(),
		})
	case errors.Is(err, report.ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFound,
			Message:   message,
			Details:   err.Error(),
		})
	case errors.Is(err, consumption.ErrContractViolation):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpContractViolation,
			Message:   message,
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpStoreUnavailable,
			Message:   message,
			Details:   err.Error(),
		})
	}
}
