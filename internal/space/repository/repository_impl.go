package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/space/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, space *domain.Space) error {
	return db.WithContext(ctx).Create(space).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, space *domain.Space) error {
	return db.WithContext(ctx).Save(space).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&domain.Space{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Space, error) {
	var space domain.Space
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&space).Error
	if err != nil {
		return nil, err
	}
	if space.ID == 0 {
		return nil, nil
	}
	return &space, nil
}

func (r *repo) LockByID(ctx context.Context, tx *gorm.DB, companyID, id snowflake.ID) (*domain.Space, error) {
	stmt := tx.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id)
	if tx.Dialector.Name() == "postgres" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var space domain.Space
	if err := stmt.Limit(1).Find(&space).Error; err != nil {
		return nil, err
	}
	if space.ID == 0 {
		return nil, nil
	}
	return &space, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]domain.Space, error) {
	var spaces []domain.Space
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name asc, id asc").
		Find(&spaces).Error
	return spaces, err
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Space{}).
		Where("company_id = ?", companyID).
		Count(&total).Error
	return total, err
}

func (r *repo) InsertOccupation(ctx context.Context, db *gorm.DB, occupation *domain.SpaceOccupation) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(occupation).Error
}

func (r *repo) UpdateOccupation(ctx context.Context, db *gorm.DB, occupation *domain.SpaceOccupation) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(occupation).Error
}

func (r *repo) FindOccupation(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.SpaceOccupation, error) {
	var occupation domain.SpaceOccupation
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&occupation).Error
	if err != nil {
		return nil, err
	}
	if occupation.ID == 0 {
		return nil, nil
	}
	return &occupation, nil
}

func (r *repo) ListOccupations(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) ([]domain.SpaceOccupation, error) {
	var occupations []domain.SpaceOccupation
	err := db.WithContext(ctx).
		Preload("Space").
		Preload("WorkOrder").
		Preload("WorkOrder.Client").
		Preload("Appointment").
		Preload("Appointment.Client").
		Where("company_id = ? AND started_at >= ? AND started_at < ?", companyID, from, to).
		Order("started_at asc, id asc").
		Find(&occupations).Error
	return occupations, err
}

type statusCount struct {
	Status domain.OccupationStatus
	Total  int64
}

func (r *repo) CountOccupations(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (map[domain.OccupationStatus]int64, error) {
	var rows []statusCount
	err := db.WithContext(ctx).Model(&domain.SpaceOccupation{}).
		Select("status, COUNT(*) AS total").
		Where("company_id = ? AND started_at >= ? AND started_at < ?", companyID, from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.OccupationStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *repo) HasOpenOccupation(ctx context.Context, db *gorm.DB, companyID, spaceID snowflake.ID) (bool, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.SpaceOccupation{}).
		Where("company_id = ? AND space_id = ? AND status = ?", companyID, spaceID, domain.OccupationInProgress).
		Count(&total).Error
	return total > 0, err
}

func (r *repo) DeleteOccupationsBySpace(ctx context.Context, db *gorm.DB, companyID, spaceID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND space_id = ?", companyID, spaceID).
		Delete(&domain.SpaceOccupation{}).Error
}

func (r *repo) DetachWorkOrder(ctx context.Context, db *gorm.DB, companyID, workOrderID snowflake.ID) error {
	return db.WithContext(ctx).Model(&domain.SpaceOccupation{}).
		Where("company_id = ? AND work_order_id = ?", companyID, workOrderID).
		Update("work_order_id", nil).Error
}

func (r *repo) CountOverdue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.SpaceOccupation{}).
		Where("status = ? AND expected_end_at IS NOT NULL AND expected_end_at < ?", domain.OccupationInProgress, now).
		Count(&total).Error
	return total, err
}

func (r *repo) WorkOrderExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.WorkOrderRef{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Count(&total).Error
	return total > 0, err
}

func (r *repo) AppointmentExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.AppointmentRef{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Count(&total).Error
	return total > 0, err
}
