package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/appointment/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, appointment *domain.Appointment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(appointment).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, appointment *domain.Appointment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(appointment).Error
}

func (r *repo) ReplaceServices(ctx context.Context, db *gorm.DB, appointmentID snowflake.ID, serviceIDs []snowflake.ID) error {
	if err := db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&domain.AppointmentService{}).Error; err != nil {
		return err
	}
	if len(serviceIDs) == 0 {
		return nil
	}

	rows := make([]domain.AppointmentService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		rows = append(rows, domain.AppointmentService{AppointmentID: appointmentID, ServiceID: id})
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&rows).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Appointment, error) {
	return first(db.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id))
}

func (r *repo) FindHydrated(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Appointment, error) {
	return first(hydrate(db.WithContext(ctx)).Where("company_id = ? AND id = ?", companyID, id))
}

// List keeps appointments fully inside [start, end] when both bounds are set.
func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, start, end *time.Time) ([]domain.Appointment, error) {
	stmt := hydrate(db.WithContext(ctx)).Where("company_id = ?", companyID)
	if start != nil && end != nil {
		stmt = stmt.Where("start_at >= ? AND end_at <= ?", *start, *end)
	}

	var appointments []domain.Appointment
	err := stmt.Order("start_at asc, id asc").Find(&appointments).Error
	return appointments, err
}

func hydrate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client").
		Preload("Vehicle").
		Preload("Services").
		Preload("Services.Service")
}

func first(stmt *gorm.DB) (*domain.Appointment, error) {
	var appointment domain.Appointment
	if err := stmt.Limit(1).Find(&appointment).Error; err != nil {
		return nil, err
	}
	if appointment.ID == 0 {
		return nil, nil
	}
	return &appointment, nil
}
