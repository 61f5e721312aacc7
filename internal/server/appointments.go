package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appointmentdomain "github.com/smallbiznis/washdesk/internal/appointment/domain"
)

func (s *Server) ListAppointments(c *gin.Context) {
	var query appointmentdomain.ListAppointmentRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appointmentSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateAppointment(c *gin.Context) {
	var req appointmentdomain.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appointmentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateAppointment(c *gin.Context) {
	var req appointmentdomain.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appointmentSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isAppointmentValidationError(err error) bool {
	switch {
	case errors.Is(err, appointmentdomain.ErrInvalidOrganization),
		errors.Is(err, appointmentdomain.ErrInvalidID),
		errors.Is(err, appointmentdomain.ErrInvalidPeriod),
		errors.Is(err, appointmentdomain.ErrInvalidStatus),
		errors.Is(err, appointmentdomain.ErrInvalidOrigin):
		return true
	default:
		return false
	}
}

func isAppointmentNotFoundError(err error) bool {
	return errors.Is(err, appointmentdomain.ErrNotFound)
}
