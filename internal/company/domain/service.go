package domain

import (
	"context"
	"errors"
)

type CreateCompanyRequest struct {
	NomeFantasia    string `json:"nomeFantasia"`
	RazaoSocial     string `json:"razaoSocial"`
	CNPJ            string `json:"cnpj"`
	Telefone        string `json:"telefone"`
	Whatsapp        string `json:"whatsapp"`
	Email           string `json:"email"`
	Endereco        string `json:"endereco"`
	LogoURL         string `json:"logoUrl"`
	ThemePrimary    string `json:"themePrimary"`
	ThemeSecondary  string `json:"themeSecondary"`
	ThemeBackground string `json:"themeBackground"`
}

// UpdateCompanyRequest leaves nil fields untouched.
type UpdateCompanyRequest struct {
	NomeFantasia    *string `json:"nomeFantasia"`
	RazaoSocial     *string `json:"razaoSocial"`
	CNPJ            *string `json:"cnpj"`
	Telefone        *string `json:"telefone"`
	Whatsapp        *string `json:"whatsapp"`
	Email           *string `json:"email"`
	Endereco        *string `json:"endereco"`
	LogoURL         *string `json:"logoUrl"`
	ThemePrimary    *string `json:"themePrimary"`
	ThemeSecondary  *string `json:"themeSecondary"`
	ThemeBackground *string `json:"themeBackground"`
}

type Service interface {
	Create(context.Context, CreateCompanyRequest) (Company, error)
	GetCurrent(context.Context) (Company, error)
	UpdateCurrent(context.Context, UpdateCompanyRequest) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrNotFound            = errors.New("not_found")
)
