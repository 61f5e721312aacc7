package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
)

func (s *Server) ListSpaces(c *gin.Context) {
	resp, err := s.spaceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateSpace(c *gin.Context) {
	var req spacedomain.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.spaceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateSpace(c *gin.Context) {
	var req spacedomain.UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.spaceSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteSpace(c *gin.Context) {
	if err := s.spaceSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) OpenOccupation(c *gin.Context) {
	var req spacedomain.OpenOccupationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.spaceSvc.OpenOccupation(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) CloseOccupation(c *gin.Context) {
	var req spacedomain.CloseOccupationRequest
	// An empty body closes the occupation now.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.spaceSvc.CloseOccupation(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetSpaceSummaryToday(c *gin.Context) {
	resp, err := s.spaceSvc.SummaryToday(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListOccupationsToday(c *gin.Context) {
	resp, err := s.spaceSvc.OccupationsToday(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isSpaceValidationError(err error) bool {
	switch {
	case errors.Is(err, spacedomain.ErrInvalidOrganization),
		errors.Is(err, spacedomain.ErrInvalidID),
		errors.Is(err, spacedomain.ErrInvalidName),
		errors.Is(err, spacedomain.ErrInvalidPeriod):
		return true
	default:
		return false
	}
}

func isSpaceNotFoundError(err error) bool {
	switch {
	case errors.Is(err, spacedomain.ErrNotFound),
		errors.Is(err, spacedomain.ErrOccupationNotFound),
		errors.Is(err, spacedomain.ErrWorkOrderNotFound),
		errors.Is(err, spacedomain.ErrAppointmentNotFound):
		return true
	default:
		return false
	}
}

func isSpaceConflictError(err error) bool {
	return errors.Is(err, spacedomain.ErrSpaceOccupied) || errors.Is(err, spacedomain.ErrOccupationClosed)
}
