package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, search string, page pagination.Params) ([]Client, int64, error)

	InsertVehicle(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	UpdateVehicle(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	// FindVehicle scopes by client only when clientID is non-zero.
	FindVehicle(ctx context.Context, db *gorm.DB, companyID, clientID, id snowflake.ID) (*Vehicle, error)
	ListVehicles(ctx context.Context, db *gorm.DB, companyID snowflake.ID, clientIDs []snowflake.ID) ([]Vehicle, error)
}
