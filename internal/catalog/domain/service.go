package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/smallbiznis/washdesk/pkg/money"
)

type ListCatalogRequest struct {
	pagination.Params
	Search string `form:"search"`
	Active *bool  `form:"active"`
}

type CreateCatalogItemRequest struct {
	Nome               string       `json:"nome"`
	Descricao          string       `json:"descricao"`
	Categoria          string       `json:"categoria"`
	DuracaoEstimadaMin *int         `json:"duracaoEstimadaMin"`
	PrecoBase          money.Amount `json:"precoBase"`
	Ativo              *bool        `json:"ativo"`
	GeraPosVenda       *bool        `json:"geraPosVenda"`
	DiasFollowUp       *int         `json:"diasFollowUp"`
}

type UpdateCatalogItemRequest struct {
	Nome               *string       `json:"nome"`
	Descricao          *string       `json:"descricao"`
	Categoria          *string       `json:"categoria"`
	DuracaoEstimadaMin *int          `json:"duracaoEstimadaMin"`
	PrecoBase          *money.Amount `json:"precoBase"`
	Ativo              *bool         `json:"ativo"`
	GeraPosVenda       *bool         `json:"geraPosVenda"`
	DiasFollowUp       *int          `json:"diasFollowUp"`
}

type Service interface {
	List(context.Context, ListCatalogRequest) (pagination.Page[CatalogItem], error)
	Get(ctx context.Context, id string) (CatalogItem, error)
	Create(context.Context, CreateCatalogItemRequest) (CatalogItem, error)
	Update(ctx context.Context, id string, req UpdateCatalogItemRequest) (CatalogItem, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidDuration     = errors.New("invalid_duration")
	ErrNotFound            = errors.New("service_not_found")
	// ErrForeignService is returned when a referenced service id is not in the company catalog.
	ErrForeignService = errors.New("service_not_in_company")
)
