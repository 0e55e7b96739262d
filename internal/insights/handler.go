package insights

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	httperr "github.com/pulso-lab/pulso/internal/core/errors"
)

// RegisterRoutes registers all insight and stats API routes on the router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/insights/best-times", s.HandleBestTimes)
	r.GET("/v1/insights/formats", s.HandleEffectiveFormats)
	r.GET("/v1/insights/estimate", s.HandleEstimate)
	r.GET("/v1/insights/link-impact", s.HandleLinkImpact)
	r.GET("/v1/insights/composition", s.HandleComposition)
	r.GET("/v1/insights/retention", s.HandleRetention)
	r.GET("/v1/insights/trend", s.HandleTrend)

	r.GET("/v1/stats/dashboard", s.HandleDashboard)
	r.GET("/v1/stats/interactions-overview", s.HandleInteractionsOverview)
}

const dateFormat = "2006-01-02"

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFormat, raw)
	if err != nil {
		return nil, invalidQueryf("%s must be YYYY-MM-DD", name)
	}
	return &t, nil
}

// writeInsightError maps service errors onto the wire. Internal failures are
// logged but never echoed back to the caller.
func writeInsightError(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   message,
			Details:   err.Error(),
		})
		return
	}
	slog.Error(message, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   message,
	})
}

// HandleBestTimes handles GET /v1/insights/best-times
// Query parameters: username, metric, start_date, end_date
func (s *Service) HandleBestTimes(c *gin.Context) {
	req := BestTimesRequest{
		Username: c.Query("username"),
		Metric:   c.Query("metric"),
	}
	var err error
	if req.StartDate, err = parseDateParam(c, "start_date"); err == nil {
		req.EndDate, err = parseDateParam(c, "end_date")
	}
	if err != nil {
		writeInsightError(c, err, "Invalid best-times query")
		return
	}
	resp, err := s.BestTimes(c.Request.Context(), req)
	if err != nil {
		writeInsightError(c, err, "Failed to compute best posting times")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleEffectiveFormats handles GET /v1/insights/formats
// Query parameters: username, metric, start_date, end_date
func (s *Service) HandleEffectiveFormats(c *gin.Context) {
	req := FormatsRequest{
		Username: c.Query("username"),
		Metric:   c.Query("metric"),
	}
	var err error
	if req.StartDate, err = parseDateParam(c, "start_date"); err == nil {
		req.EndDate, err = parseDateParam(c, "end_date")
	}
	if err != nil {
		writeInsightError(c, err, "Invalid formats query")
		return
	}
	resp, err := s.EffectiveFormats(c.Request.Context(), req)
	if err != nil {
		writeInsightError(c, err, "Failed to rank post formats")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleEstimate handles GET /v1/insights/estimate
// Query parameters: username, tipo_post, dia_semana, hora
func (s *Service) HandleEstimate(c *gin.Context) {
	weekday, err := strconv.Atoi(c.Query("dia_semana"))
	if err != nil {
		writeInsightError(c, invalidQueryf("dia_semana must be an integer"), "Invalid estimate query")
		return
	}
	hour, err := strconv.Atoi(c.Query("hora"))
	if err != nil {
		writeInsightError(c, invalidQueryf("hora must be an integer"), "Invalid estimate query")
		return
	}
	resp, err := s.Estimate(c.Request.Context(), EstimateRequest{
		Username: c.Query("username"),
		PostType: c.Query("tipo_post"),
		Weekday:  weekday,
		Hour:     hour,
	})
	if err != nil {
		writeInsightError(c, err, "Failed to estimate post performance")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleLinkImpact handles GET /v1/insights/link-impact
func (s *Service) HandleLinkImpact(c *gin.Context) {
	resp, err := s.LinkImpactStats(c.Request.Context(), c.Query("username"))
	if err != nil {
		writeInsightError(c, err, "Failed to compare link impact")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleComposition handles GET /v1/insights/composition
func (s *Service) HandleComposition(c *gin.Context) {
	resp, err := s.InteractionComposition(c.Request.Context(), c.Query("username"))
	if err != nil {
		writeInsightError(c, err, "Failed to decompose interactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRetention handles GET /v1/insights/retention
func (s *Service) HandleRetention(c *gin.Context) {
	resp, err := s.RetentionImpact(c.Request.Context(), c.Query("username"))
	if err != nil {
		writeInsightError(c, err, "Failed to bucket retention")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTrend handles GET /v1/insights/trend
// Query parameters: username, start_date, end_date, tipo_post
func (s *Service) HandleTrend(c *gin.Context) {
	var query struct {
		Username  string    `form:"username" binding:"required"`
		StartDate time.Time `form:"start_date" binding:"required" time_format:"2006-01-02"`
		EndDate   time.Time `form:"end_date" binding:"required" time_format:"2006-01-02"`
		PostType  string    `form:"tipo_post"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid trend query",
			Details:   err.Error(),
		})
		return
	}
	resp, err := s.Trend(c.Request.Context(), TrendRequest{
		Username:  query.Username,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		PostType:  query.PostType,
	})
	if err != nil {
		writeInsightError(c, err, "Failed to build performance trend")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleDashboard handles GET /v1/stats/dashboard
// Query parameters: username, start_date, end_date, tipo_post
func (s *Service) HandleDashboard(c *gin.Context) {
	var query struct {
		Username  string    `form:"username" binding:"required"`
		StartDate time.Time `form:"start_date" binding:"required" time_format:"2006-01-02"`
		EndDate   time.Time `form:"end_date" binding:"required" time_format:"2006-01-02"`
		PostType  string    `form:"tipo_post"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid dashboard query",
			Details:   err.Error(),
		})
		return
	}
	resp, err := s.Dashboard(c.Request.Context(), DashboardRequest{
		Username:  query.Username,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		PostType:  query.PostType,
	})
	if err != nil {
		writeInsightError(c, err, "Failed to assemble dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleInteractionsOverview handles GET /v1/stats/interactions-overview
func (s *Service) HandleInteractionsOverview(c *gin.Context) {
	resp, err := s.InteractionsOverview(c.Request.Context(), c.Query("username"))
	if err != nil {
		writeInsightError(c, err, "Failed to build interactions overview")
		return
	}
	c.JSON(http.StatusOK, resp)
}
