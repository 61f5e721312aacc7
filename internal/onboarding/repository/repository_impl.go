package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/onboarding/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.CompanyOnboarding, error) {
	var onboarding domain.CompanyOnboarding
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Limit(1).
		Find(&onboarding).Error
	if err != nil {
		return nil, err
	}
	if onboarding.ID == 0 {
		return nil, nil
	}
	return &onboarding, nil
}

// Upsert keys on company_id; the row id and created_at survive a conflict.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, onboarding *domain.CompanyOnboarding) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ramo_atuacao",
			"qtd_funcionarios",
			"faturamento_mensal",
			"prioridade",
			"como_conheceu",
			"completed_at",
			"updated_at",
		}),
	}).Create(onboarding).Error
}
