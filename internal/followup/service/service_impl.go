package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/followup/domain"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/internal/timeutil"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Config config.Config `optional:"true"`
	Repo   domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	loc   *time.Location
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("followup.service"),
		clock: p.Clock,
		loc:   p.Config.Location(),
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListFollowUpRequest) ([]domain.FollowUp, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	period, err := timeutil.OptionalRange(req.Start, req.End, s.loc)
	if err != nil {
		return nil, domain.ErrInvalidPeriod
	}

	filter := domain.ListFilter{CompanyID: companyID, Status: req.Status}
	if period != nil {
		filter.From, filter.To = &period.Start, &period.End
	}
	followUps, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	if followUps == nil {
		followUps = []domain.FollowUp{}
	}
	return followUps, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, req domain.UpdateStatusRequest) (domain.FollowUp, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.FollowUp{}, domain.ErrInvalidOrganization
	}
	followUpID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || followUpID == 0 {
		return domain.FollowUp{}, domain.ErrInvalidID
	}
	if !req.Status.Valid() {
		return domain.FollowUp{}, domain.ErrInvalidStatus
	}

	followUp, err := s.repo.FindByID(ctx, s.db, companyID, followUpID)
	if err != nil {
		return domain.FollowUp{}, err
	}
	if followUp == nil {
		return domain.FollowUp{}, domain.ErrNotFound
	}

	followUp.Status = req.Status
	followUp.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, s.db, followUp); err != nil {
		return domain.FollowUp{}, err
	}
	return *followUp, nil
}
