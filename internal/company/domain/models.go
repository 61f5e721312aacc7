package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is the tenant. Every other record carries its id.
type Company struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	NomeFantasia    string       `gorm:"not null" json:"nomeFantasia"`
	RazaoSocial     string       `json:"razaoSocial,omitempty"`
	CNPJ            string       `gorm:"column:cnpj" json:"cnpj,omitempty"`
	Telefone        string       `json:"telefone,omitempty"`
	Whatsapp        string       `json:"whatsapp,omitempty"`
	Email           string       `json:"email,omitempty"`
	Endereco        string       `json:"endereco,omitempty"`
	LogoURL         string       `gorm:"column:logo_url" json:"logoUrl,omitempty"`
	ThemePrimary    string       `json:"themePrimary,omitempty"`
	ThemeSecondary  string       `json:"themeSecondary,omitempty"`
	ThemeBackground string       `json:"themeBackground,omitempty"`
	Slug            string       `gorm:"not null;uniqueIndex" json:"slug"`
	CreatedAt       time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time    `gorm:"not null" json:"updatedAt"`
}
