package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, space *Space) error
	Update(ctx context.Context, db *gorm.DB, space *Space) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Space, error)
	// LockByID is FindByID holding a row lock until tx ends, on dialects that support it.
	LockByID(ctx context.Context, tx *gorm.DB, companyID, id snowflake.ID) (*Space, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]Space, error)
	Count(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error)

	InsertOccupation(ctx context.Context, db *gorm.DB, occupation *SpaceOccupation) error
	UpdateOccupation(ctx context.Context, db *gorm.DB, occupation *SpaceOccupation) error
	FindOccupation(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*SpaceOccupation, error)
	// ListOccupations returns occupations started in [from, to) with space, work order and appointment.
	ListOccupations(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) ([]SpaceOccupation, error)
	CountOccupations(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (map[OccupationStatus]int64, error)
	HasOpenOccupation(ctx context.Context, db *gorm.DB, companyID, spaceID snowflake.ID) (bool, error)
	DeleteOccupationsBySpace(ctx context.Context, db *gorm.DB, companyID, spaceID snowflake.ID) error
	DetachWorkOrder(ctx context.Context, db *gorm.DB, companyID, workOrderID snowflake.ID) error
	// CountOverdue counts open occupations whose expected end is before now, across tenants.
	CountOverdue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)

	WorkOrderExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
	AppointmentExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
}
