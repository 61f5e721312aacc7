package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/client/domain"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Omit("Vehicles").Create(client).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Omit("Vehicles").Save(client).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

// List matches search against contact fields, any vehicle plate, or an exact tag.
func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, search string, page pagination.Params) ([]domain.Client, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Client{}).Where("company_id = ?", companyID)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		stmt = stmt.Where(
			"LOWER(name) LIKE ? OR LOWER(whatsapp) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ? "+
				"OR EXISTS (SELECT 1 FROM vehicles v WHERE v.client_id = clients.id AND LOWER(v.plate) LIKE ?) "+
				"OR CAST(tags AS TEXT) LIKE ?",
			like, like, like, like, like, "%\""+search+"\"%",
		)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []domain.Client
	if err := stmt.Scopes(page.Scope()).Order("created_at desc, id desc").Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *repo) InsertVehicle(ctx context.Context, db *gorm.DB, vehicle *domain.Vehicle) error {
	return db.WithContext(ctx).Create(vehicle).Error
}

func (r *repo) UpdateVehicle(ctx context.Context, db *gorm.DB, vehicle *domain.Vehicle) error {
	return db.WithContext(ctx).Save(vehicle).Error
}

func (r *repo) FindVehicle(ctx context.Context, db *gorm.DB, companyID, clientID, id snowflake.ID) (*domain.Vehicle, error) {
	stmt := db.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id)
	if clientID != 0 {
		stmt = stmt.Where("client_id = ?", clientID)
	}

	var vehicle domain.Vehicle
	if err := stmt.Limit(1).Find(&vehicle).Error; err != nil {
		return nil, err
	}
	if vehicle.ID == 0 {
		return nil, nil
	}
	return &vehicle, nil
}

func (r *repo) ListVehicles(ctx context.Context, db *gorm.DB, companyID snowflake.ID, clientIDs []snowflake.ID) ([]domain.Vehicle, error) {
	if len(clientIDs) == 0 {
		return nil, nil
	}
	var vehicles []domain.Vehicle
	err := db.WithContext(ctx).
		Where("company_id = ? AND client_id IN ?", companyID, clientIDs).
		Order("created_at desc, id desc").
		Find(&vehicles).Error
	return vehicles, err
}
