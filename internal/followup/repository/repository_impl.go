package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/followup/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertMany(ctx context.Context, db *gorm.DB, followUps []domain.FollowUp) error {
	if len(followUps) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(&followUps).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, followUp *domain.FollowUp) error {
	return db.WithContext(ctx).Model(&domain.FollowUp{}).
		Where("company_id = ? AND id = ?", followUp.CompanyID, followUp.ID).
		Updates(map[string]any{
			"status":     followUp.Status,
			"updated_at": followUp.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.FollowUp, error) {
	var followUp domain.FollowUp
	err := hydrate(db.WithContext(ctx)).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&followUp).Error
	if err != nil {
		return nil, err
	}
	if followUp.ID == 0 {
		return nil, nil
	}
	return &followUp, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.FollowUp, error) {
	stmt := hydrate(db.WithContext(ctx)).Where("company_id = ?", filter.CompanyID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.From != nil && filter.To != nil {
		stmt = stmt.Where("contact_at >= ? AND contact_at < ?", *filter.From, *filter.To)
	}

	var followUps []domain.FollowUp
	err := stmt.Order("contact_at asc, id asc").Find(&followUps).Error
	return followUps, err
}

func (r *repo) ListByWorkOrder(ctx context.Context, db *gorm.DB, companyID, workOrderID snowflake.ID) ([]domain.FollowUp, error) {
	var followUps []domain.FollowUp
	err := db.WithContext(ctx).
		Where("company_id = ? AND work_order_id = ?", companyID, workOrderID).
		Order("contact_at asc, id asc").
		Find(&followUps).Error
	return followUps, err
}

func (r *repo) DetachWorkOrder(ctx context.Context, db *gorm.DB, companyID, workOrderID snowflake.ID) error {
	return db.WithContext(ctx).Model(&domain.FollowUp{}).
		Where("company_id = ? AND work_order_id = ?", companyID, workOrderID).
		Update("work_order_id", nil).Error
}

type statusCount struct {
	Status domain.Status
	Total  int64
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (map[domain.Status]int64, error) {
	var rows []statusCount
	err := db.WithContext(ctx).Model(&domain.FollowUp{}).
		Select("status, COUNT(*) AS total").
		Where("company_id = ? AND contact_at >= ? AND contact_at < ?", companyID, from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

type companyCount struct {
	CompanyID snowflake.ID
	Total     int64
}

func (r *repo) CountDueByCompany(ctx context.Context, db *gorm.DB, from, to time.Time) (map[snowflake.ID]int64, error) {
	var rows []companyCount
	err := db.WithContext(ctx).Model(&domain.FollowUp{}).
		Select("company_id, COUNT(*) AS total").
		Where("status = ? AND contact_at >= ? AND contact_at < ?", domain.StatusPending, from, to).
		Group("company_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[snowflake.ID]int64, len(rows))
	for _, row := range rows {
		out[row.CompanyID] = row.Total
	}
	return out, nil
}

func hydrate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client").
		Preload("WorkOrder").
		Preload("Service")
}
