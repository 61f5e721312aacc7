package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/onboarding/domain"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("onboarding.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.Status, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Status{}, domain.ErrInvalidOrganization
	}

	onboarding, err := s.repo.FindByCompany(ctx, s.db, companyID)
	if err != nil {
		return domain.Status{}, err
	}
	return domain.Status{
		Completed: onboarding != nil && onboarding.CompletedAt != nil,
		Data:      onboarding,
	}, nil
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertOnboardingRequest) (domain.Status, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Status{}, domain.ErrInvalidOrganization
	}

	ramos := make([]string, 0, len(req.RamoAtuacao))
	for _, ramo := range req.RamoAtuacao {
		if ramo = strings.TrimSpace(ramo); ramo != "" {
			ramos = append(ramos, ramo)
		}
	}
	if len(ramos) == 0 {
		return domain.Status{}, domain.ErrInvalidRamoAtuacao
	}

	now := s.clock.Now().UTC()
	onboarding := domain.CompanyOnboarding{
		ID:                s.genID.Generate(),
		CompanyID:         companyID,
		RamoAtuacao:       datatypes.NewJSONSlice(ramos),
		QtdFuncionarios:   strings.TrimSpace(req.QtdFuncionarios),
		FaturamentoMensal: strings.TrimSpace(req.FaturamentoMensal),
		Prioridade:        strings.TrimSpace(req.Prioridade),
		ComoConheceu:      strings.TrimSpace(req.ComoConheceu),
		CompletedAt:       &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Upsert(ctx, s.db, &onboarding); err != nil {
		return domain.Status{}, err
	}

	stored, err := s.repo.FindByCompany(ctx, s.db, companyID)
	if err != nil {
		return domain.Status{}, err
	}
	s.log.Info("onboarding completed", zap.String("company_id", companyID.String()))
	return domain.Status{Completed: true, Data: stored}, nil
}
