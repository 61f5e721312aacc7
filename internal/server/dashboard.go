package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	dashboarddomain "github.com/smallbiznis/washdesk/internal/dashboard/domain"
)

func (s *Server) GetDashboardOverview(c *gin.Context) {
	resp, err := s.dashboardSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isDashboardValidationError(err error) bool {
	return errors.Is(err, dashboarddomain.ErrInvalidOrganization)
}
