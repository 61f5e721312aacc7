package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// CompanyOnboarding is the one-per-company questionnaire answered after signup.
type CompanyOnboarding struct {
	ID                snowflake.ID                `gorm:"primaryKey" json:"id"`
	CompanyID         snowflake.ID                `gorm:"not null;uniqueIndex" json:"companyId"`
	RamoAtuacao       datatypes.JSONSlice[string] `json:"ramoAtuacao"`
	QtdFuncionarios   string                      `json:"qtdFuncionarios,omitempty"`
	FaturamentoMensal string                      `json:"faturamentoMensal,omitempty"`
	Prioridade        string                      `json:"prioridade,omitempty"`
	ComoConheceu      string                      `json:"comoConheceu,omitempty"`
	CompletedAt       *time.Time                  `json:"completedAt"`
	CreatedAt         time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt         time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (CompanyOnboarding) TableName() string { return "company_onboardings" }
