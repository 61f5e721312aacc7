package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
)

func (s *Server) ListFollowUps(c *gin.Context) {
	var query followupdomain.ListFollowUpRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.followUpSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateFollowUpStatus(c *gin.Context) {
	var req followupdomain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.followUpSvc.UpdateStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isFollowUpValidationError(err error) bool {
	switch {
	case errors.Is(err, followupdomain.ErrInvalidOrganization),
		errors.Is(err, followupdomain.ErrInvalidID),
		errors.Is(err, followupdomain.ErrInvalidStatus),
		errors.Is(err, followupdomain.ErrInvalidPeriod):
		return true
	default:
		return false
	}
}

func isFollowUpNotFoundError(err error) bool {
	return errors.Is(err, followupdomain.ErrNotFound)
}
