package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	CompanyID snowflake.ID
	Status    Status
	From      *time.Time
	To        *time.Time
}

type Repository interface {
	InsertMany(ctx context.Context, db *gorm.DB, followUps []FollowUp) error
	UpdateStatus(ctx context.Context, db *gorm.DB, followUp *FollowUp) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*FollowUp, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]FollowUp, error)
	ListByWorkOrder(ctx context.Context, db *gorm.DB, companyID, workOrderID snowflake.ID) ([]FollowUp, error)
	DetachWorkOrder(ctx context.Context, db *gorm.DB, companyID, workOrderID snowflake.ID) error
	// CountByStatus counts follow-ups with contactAt in [from, to).
	CountByStatus(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (map[Status]int64, error)
	// CountDueByCompany groups PENDING follow-ups in [from, to) by company, across tenants.
	CountDueByCompany(ctx context.Context, db *gorm.DB, from, to time.Time) (map[snowflake.ID]int64, error)
}
