package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, appointment *Appointment) error
	Update(ctx context.Context, db *gorm.DB, appointment *Appointment) error
	ReplaceServices(ctx context.Context, db *gorm.DB, appointmentID snowflake.ID, serviceIDs []snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Appointment, error)
	// FindHydrated loads client, vehicle and services with their catalog rows.
	FindHydrated(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Appointment, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, start, end *time.Time) ([]Appointment, error)
}
