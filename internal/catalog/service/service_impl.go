package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/catalog/domain"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Business *config.BusinessConfigHolder `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	business *config.BusinessConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("catalog.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		business: p.Business,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListCatalogRequest) (pagination.Page[domain.CatalogItem], error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return pagination.Page[domain.CatalogItem]{}, domain.ErrInvalidOrganization
	}

	cfg := s.business.Get().Pagination
	page := req.Params.Normalize(cfg.DefaultPerPage, cfg.MaxPerPage)

	items, total, err := s.repo.List(ctx, s.db, companyID, req.Search, req.Active, page)
	if err != nil {
		return pagination.Page[domain.CatalogItem]{}, err
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.CatalogItem, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.CatalogItem{}, domain.ErrInvalidOrganization
	}
	itemID, err := parseID(id)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	return s.load(ctx, companyID, itemID)
}

func (s *Service) Create(ctx context.Context, req domain.CreateCatalogItemRequest) (domain.CatalogItem, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.CatalogItem{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Nome)
	if name == "" {
		return domain.CatalogItem{}, domain.ErrInvalidName
	}
	if req.PrecoBase.IsNegative() {
		return domain.CatalogItem{}, domain.ErrInvalidPrice
	}
	if negative(req.DuracaoEstimadaMin) || negative(req.DiasFollowUp) {
		return domain.CatalogItem{}, domain.ErrInvalidDuration
	}

	now := s.clock.Now().UTC()
	item := domain.CatalogItem{
		ID:               s.genID.Generate(),
		CompanyID:        companyID,
		Name:             name,
		Description:      strings.TrimSpace(req.Descricao),
		Category:         strings.TrimSpace(req.Categoria),
		EstimatedMinutes: req.DuracaoEstimadaMin,
		BasePrice:        req.PrecoBase,
		Active:           boolOr(req.Ativo, true),
		FollowUpEnabled:  boolOr(req.GeraPosVenda, false),
		FollowUpDays:     req.DiasFollowUp,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, &item); err != nil {
		return domain.CatalogItem{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateCatalogItemRequest) (domain.CatalogItem, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.CatalogItem{}, domain.ErrInvalidOrganization
	}
	itemID, err := parseID(id)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	item, err := s.load(ctx, companyID, itemID)
	if err != nil {
		return domain.CatalogItem{}, err
	}

	if req.Nome != nil {
		name := strings.TrimSpace(*req.Nome)
		if name == "" {
			return domain.CatalogItem{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Descricao != nil {
		item.Description = strings.TrimSpace(*req.Descricao)
	}
	if req.Categoria != nil {
		item.Category = strings.TrimSpace(*req.Categoria)
	}
	if req.DuracaoEstimadaMin != nil {
		if negative(req.DuracaoEstimadaMin) {
			return domain.CatalogItem{}, domain.ErrInvalidDuration
		}
		item.EstimatedMinutes = req.DuracaoEstimadaMin
	}
	if req.PrecoBase != nil {
		if req.PrecoBase.IsNegative() {
			return domain.CatalogItem{}, domain.ErrInvalidPrice
		}
		item.BasePrice = *req.PrecoBase
	}
	if req.Ativo != nil {
		item.Active = *req.Ativo
	}
	if req.GeraPosVenda != nil {
		item.FollowUpEnabled = *req.GeraPosVenda
	}
	if req.DiasFollowUp != nil {
		if negative(req.DiasFollowUp) {
			return domain.CatalogItem{}, domain.ErrInvalidDuration
		}
		item.FollowUpDays = req.DiasFollowUp
	}

	item.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, &item); err != nil {
		return domain.CatalogItem{}, err
	}
	return item, nil
}

func (s *Service) load(ctx context.Context, companyID, id snowflake.ID) (domain.CatalogItem, error) {
	item, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	if item == nil {
		return domain.CatalogItem{}, domain.ErrNotFound
	}
	return *item, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func negative(v *int) bool {
	return v != nil && *v < 0
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
