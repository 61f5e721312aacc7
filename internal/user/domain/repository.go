package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	Update(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, companyID snowflake.ID, email string) (*User, error)
	// FindActiveByEmail searches every company; login without a company id relies on it.
	FindActiveByEmail(ctx context.Context, db *gorm.DB, email string) ([]User, error)
	HasRole(ctx context.Context, db *gorm.DB, companyID snowflake.ID, role Role) (bool, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, search string, page pagination.Params) ([]User, int64, error)
}
