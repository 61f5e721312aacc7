package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*CompanyOnboarding, error)
	Upsert(ctx context.Context, db *gorm.DB, onboarding *CompanyOnboarding) error
}
