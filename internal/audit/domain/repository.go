package domain

import (
	"context"

	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Params) ([]AuditLog, int64, error)
}
