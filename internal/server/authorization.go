package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
)

func (s *Server) authorizeCompanyAction(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authorizeCompanyActionWithContext(c, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) authorizeCompanyActionWithContext(c *gin.Context, object string, action string) error {
	ctx := c.Request.Context()
	user, ok := orgcontext.UserFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if s.authzSvc == nil {
		return ErrForbidden
	}
	return s.authzSvc.Authorize(ctx, fmt.Sprintf("user:%s", user.ID), companyID.String(), object, action)
}
