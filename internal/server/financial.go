package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	financialdomain "github.com/smallbiznis/washdesk/internal/financial/domain"
)

func (s *Server) ListPayables(c *gin.Context) {
	var query financialdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.financialSvc.ListPayables(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreatePayable(c *gin.Context) {
	var req financialdomain.CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.financialSvc.CreatePayable(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdatePayable(c *gin.Context) {
	var req financialdomain.UpdatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.financialSvc.UpdatePayable(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListReceivables(c *gin.Context) {
	var query financialdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.financialSvc.ListReceivables(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateReceivable(c *gin.Context) {
	var req financialdomain.CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.financialSvc.CreateReceivable(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateReceivable(c *gin.Context) {
	var req financialdomain.UpdateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.financialSvc.UpdateReceivable(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetCashflow(c *gin.Context) {
	var query financialdomain.CashflowRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.financialSvc.Cashflow(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isFinancialValidationError(err error) bool {
	switch {
	case errors.Is(err, financialdomain.ErrInvalidOrganization),
		errors.Is(err, financialdomain.ErrInvalidID),
		errors.Is(err, financialdomain.ErrInvalidDescription),
		errors.Is(err, financialdomain.ErrInvalidCategory),
		errors.Is(err, financialdomain.ErrInvalidStatus),
		errors.Is(err, financialdomain.ErrInvalidAmount),
		errors.Is(err, financialdomain.ErrInvalidDate),
		errors.Is(err, financialdomain.ErrInvalidPeriod):
		return true
	default:
		return false
	}
}

func isFinancialNotFoundError(err error) bool {
	switch {
	case errors.Is(err, financialdomain.ErrPayableNotFound),
		errors.Is(err, financialdomain.ErrReceivableNotFound),
		errors.Is(err, financialdomain.ErrClientNotFound),
		errors.Is(err, financialdomain.ErrWorkOrderNotFound):
		return true
	default:
		return false
	}
}
