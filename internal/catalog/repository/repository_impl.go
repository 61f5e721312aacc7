package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/catalog/domain"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *domain.CatalogItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, item *domain.CatalogItem) error {
	return db.WithContext(ctx).Save(item).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, companyID snowflake.ID, ids []snowflake.ID) ([]domain.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.CatalogItem
	err := db.WithContext(ctx).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&items).Error
	return items, err
}

func (r *repo) CountOwned(ctx context.Context, db *gorm.DB, companyID snowflake.ID, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := db.WithContext(ctx).Model(&domain.CatalogItem{}).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Count(&count).Error
	return count, err
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, search string, active *bool, page pagination.Params) ([]domain.CatalogItem, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.CatalogItem{}).Where("company_id = ?", companyID)
	if active != nil {
		stmt = stmt.Where("active = ?", *active)
	}
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		stmt = stmt.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.CatalogItem
	if err := stmt.Scopes(page.Scope()).Order("name asc, id asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
