package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solobill/solobill/internal/orgcontext"
	reportdomain "github.com/solobill/solobill/internal/report/domain"
)

type generateMonthlyReportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// GenerateMonthlyReport builds (or finds) the monthly report for the acting
// organization. Defaults to the previous month when no period is given.
func (s *Server) GenerateMonthlyReport(c *gin.Context) {
	var req generateMonthlyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, invalidRequestError())
		return
	}

	if req.Year == 0 && req.Month == 0 {
		now := s.clock.Now()
		previous := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		req.Year = previous.Year()
		req.Month = int(previous.Month())
	}

	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, reportdomain.ErrInvalidOrganization)
		return
	}

	resp, err := s.reportSvc.GenerateMonthly(c.Request.Context(), reportdomain.GenerateMonthlyRequest{
		OrgID: orgID,
		Year:  req.Year,
		Month: time.Month(req.Month),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
