package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/company/domain"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
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
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("company.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCompanyRequest) (domain.Company, error) {
	name := strings.TrimSpace(req.NomeFantasia)
	if name == "" {
		return domain.Company{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.Company{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	company := domain.Company{
		ID:              s.genID.Generate(),
		NomeFantasia:    name,
		RazaoSocial:     strings.TrimSpace(req.RazaoSocial),
		CNPJ:            strings.TrimSpace(req.CNPJ),
		Telefone:        strings.TrimSpace(req.Telefone),
		Whatsapp:        strings.TrimSpace(req.Whatsapp),
		Email:           email,
		Endereco:        strings.TrimSpace(req.Endereco),
		LogoURL:         strings.TrimSpace(req.LogoURL),
		ThemePrimary:    strings.TrimSpace(req.ThemePrimary),
		ThemeSecondary:  strings.TrimSpace(req.ThemeSecondary),
		ThemeBackground: strings.TrimSpace(req.ThemeBackground),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	companySlug, err := s.uniqueSlug(ctx, name, company.ID)
	if err != nil {
		return domain.Company{}, err
	}
	company.Slug = companySlug

	if err := s.repo.Insert(ctx, s.db, &company); err != nil {
		return domain.Company{}, err
	}

	s.log.Info("company created", zap.String("company_id", company.ID.String()), zap.String("slug", company.Slug))
	s.audit(ctx, company.ID, "company.created", map[string]any{"slug": company.Slug})
	return company, nil
}

func (s *Service) GetCurrent(ctx context.Context) (domain.Company, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Company{}, domain.ErrInvalidOrganization
	}
	return s.load(ctx, companyID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Company, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || companyID == 0 {
		return domain.Company{}, domain.ErrInvalidID
	}
	return s.load(ctx, companyID)
}

func (s *Service) UpdateCurrent(ctx context.Context, req domain.UpdateCompanyRequest) (domain.Company, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Company{}, domain.ErrInvalidOrganization
	}

	company, err := s.load(ctx, companyID)
	if err != nil {
		return domain.Company{}, err
	}

	if req.NomeFantasia != nil && strings.TrimSpace(*req.NomeFantasia) == "" {
		return domain.Company{}, domain.ErrInvalidName
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" && !strings.Contains(*req.Email, "@") {
		return domain.Company{}, domain.ErrInvalidEmail
	}

	changed := make([]string, 0, 4)
	apply := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		*dst = strings.TrimSpace(*src)
		changed = append(changed, field)
	}
	apply("nomeFantasia", &company.NomeFantasia, req.NomeFantasia)
	apply("razaoSocial", &company.RazaoSocial, req.RazaoSocial)
	apply("cnpj", &company.CNPJ, req.CNPJ)
	apply("telefone", &company.Telefone, req.Telefone)
	apply("whatsapp", &company.Whatsapp, req.Whatsapp)
	apply("email", &company.Email, req.Email)
	apply("endereco", &company.Endereco, req.Endereco)
	apply("logoUrl", &company.LogoURL, req.LogoURL)
	apply("themePrimary", &company.ThemePrimary, req.ThemePrimary)
	apply("themeSecondary", &company.ThemeSecondary, req.ThemeSecondary)
	apply("themeBackground", &company.ThemeBackground, req.ThemeBackground)

	if len(changed) == 0 {
		return company, nil
	}

	company.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, &company); err != nil {
		return domain.Company{}, err
	}

	s.audit(ctx, company.ID, "company.updated", map[string]any{"fields": changed})
	return company, nil
}

func (s *Service) load(ctx context.Context, id snowflake.ID) (domain.Company, error) {
	company, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *company, nil
}

// uniqueSlug falls back to suffixing the company id when the plain slug is taken.
func (s *Service) uniqueSlug(ctx context.Context, name string, id snowflake.ID) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "empresa"
	}
	exists, err := s.repo.SlugExists(ctx, s.db, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return base + "-" + strings.ToLower(id.Base36()), nil
}

func (s *Service) audit(ctx context.Context, companyID snowflake.ID, action string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	targetID := companyID.String()
	_ = s.auditSvc.AuditLog(ctx, &companyID, "", nil, action, "company", &targetID, metadata)
}
