package ui

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serviceboard/app"
	"serviceboard/domain/core"
	"serviceboard/domain/report"
)

const (
	msgNoData      = "No data yet. Upload an .xlsx first."
	maxReportLimit = 500
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleData(c *gin.Context) {
	doc, ok := s.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleMeta(c *gin.Context) {
	doc, ok := s.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc.Meta)
}

func (s *Server) handleSummary(c *gin.Context) {
	summary, err := s.reports.Summary(c.Request.Context())
	if err != nil {
		s.respondLatestError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": summary})
}

// latest writes the error response itself when no document is available.
func (s *Server) latest(c *gin.Context) (*report.Document, bool) {
	doc, err := s.reports.Latest(c.Request.Context())
	if err != nil {
		s.respondLatestError(c, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) respondLatestError(c *gin.Context, err error) {
	if errors.Is(err, core.ErrNoDocument) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNoData})
		return
	}
	s.logger.Error("failed to load latest report", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report"})
}

func (s *Server) handleListReports(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxReportLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and " + strconv.Itoa(maxReportLimit)})
			return
		}
		limit = n
	}

	reports, err := s.reports.ListReports(c.Request.Context(), limit)
	if err != nil {
		s.respondArchiveError(c, err)
		return
	}
	if reports == nil {
		reports = []*report.ArchivedReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) handleGetReport(c *gin.Context) {
	id, err := core.ParseReportID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := s.reports.GetReport(c.Request.Context(), id)
	if err != nil {
		s.respondArchiveError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) respondArchiveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report archive is not configured."})
	case errors.Is(err, core.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found."})
	default:
		s.logger.Error("report archive query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query report archive"})
	}
}
