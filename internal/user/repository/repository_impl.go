package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/user/domain"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Save(user).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.User, error) {
	return first(db.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id))
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, companyID snowflake.ID, email string) (*domain.User, error) {
	return first(db.WithContext(ctx).Where("company_id = ? AND LOWER(email) = ?", companyID, strings.ToLower(email)))
}

func (r *repo) FindActiveByEmail(ctx context.Context, db *gorm.DB, email string) ([]domain.User, error) {
	var users []domain.User
	err := db.WithContext(ctx).
		Where("LOWER(email) = ? AND active = ?", strings.ToLower(email), true).
		Limit(2).
		Find(&users).Error
	return users, err
}

func (r *repo) HasRole(ctx context.Context, db *gorm.DB, companyID snowflake.ID, role domain.Role) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.User{}).
		Where("company_id = ? AND role = ?", companyID, role).
		Count(&count).Error
	return count > 0, err
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, search string, page pagination.Params) ([]domain.User, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.User{}).Where("company_id = ?", companyID)
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		stmt = stmt.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR whatsapp LIKE ?", like, like, like)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	if err := stmt.Scopes(page.Scope()).Order("created_at desc, id desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func first(stmt *gorm.DB) (*domain.User, error) {
	var user domain.User
	if err := stmt.Limit(1).Find(&user).Error; err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}
