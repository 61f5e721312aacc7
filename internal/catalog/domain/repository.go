package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *CatalogItem) error
	Update(ctx context.Context, db *gorm.DB, item *CatalogItem) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*CatalogItem, error)
	FindByIDs(ctx context.Context, db *gorm.DB, companyID snowflake.ID, ids []snowflake.ID) ([]CatalogItem, error)
	// CountOwned counts rows among ids that belong to the company.
	CountOwned(ctx context.Context, db *gorm.DB, companyID snowflake.ID, ids []snowflake.ID) (int64, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, search string, active *bool, page pagination.Params) ([]CatalogItem, int64, error)
}
