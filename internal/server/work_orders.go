package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	workorderdomain "github.com/smallbiznis/washdesk/internal/workorder/domain"
)

func (s *Server) ListWorkOrders(c *gin.Context) {
	var query workorderdomain.ListWorkOrderRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	query.Search = strings.TrimSpace(query.Search)

	resp, err := s.workOrderSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetWorkOrderByID(c *gin.Context) {
	resp, err := s.workOrderSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateWorkOrder(c *gin.Context) {
	var req workorderdomain.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.workOrderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateWorkOrderStatus(c *gin.Context) {
	var req workorderdomain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.workOrderSvc.UpdateStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) AddWorkOrderPayment(c *gin.Context) {
	var req workorderdomain.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.workOrderSvc.AddPayment(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) DeleteWorkOrder(c *gin.Context) {
	if err := s.workOrderSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func isWorkOrderValidationError(err error) bool {
	switch {
	case errors.Is(err, workorderdomain.ErrInvalidOrganization),
		errors.Is(err, workorderdomain.ErrInvalidStatus),
		errors.Is(err, workorderdomain.ErrInvalidItems),
		errors.Is(err, workorderdomain.ErrInvalidQuantity),
		errors.Is(err, workorderdomain.ErrInvalidPrice),
		errors.Is(err, workorderdomain.ErrInvalidMethod),
		errors.Is(err, workorderdomain.ErrInvalidAmount):
		return true
	default:
		return false
	}
}

func isWorkOrderForbiddenError(err error) bool {
	return errors.Is(err, workorderdomain.ErrCompletedImmutable)
}

func isWorkOrderNotFoundError(err error) bool {
	return errors.Is(err, workorderdomain.ErrNotFound)
}

func isWorkOrderConflictError(err error) bool {
	return errors.Is(err, workorderdomain.ErrSequenceExhausted)
}
