package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/internal/space/domain"
	"github.com/smallbiznis/washdesk/internal/timeutil"
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
	Config   config.Config `optional:"true"`
	Repo     domain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	loc      *time.Location
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("space.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		loc:      p.Config.Location(),
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Space, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	spaces, err := s.repo.List(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if spaces == nil {
		spaces = []domain.Space{}
	}
	return spaces, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateSpaceRequest) (domain.Space, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Space{}, domain.ErrInvalidOrganization
	}
	name := strings.TrimSpace(req.Nome)
	if name == "" {
		return domain.Space{}, domain.ErrInvalidName
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.DefaultSpaceStatus
	}

	now := s.clock.Now().UTC()
	space := domain.Space{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Name:      name,
		Type:      strings.TrimSpace(req.Tipo),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &space); err != nil {
		return domain.Space{}, err
	}
	return space, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateSpaceRequest) (domain.Space, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Space{}, domain.ErrInvalidOrganization
	}
	spaceID, err := parseID(id)
	if err != nil {
		return domain.Space{}, err
	}
	space, err := s.loadSpace(ctx, companyID, spaceID)
	if err != nil {
		return domain.Space{}, err
	}

	if req.Nome != nil {
		name := strings.TrimSpace(*req.Nome)
		if name == "" {
			return domain.Space{}, domain.ErrInvalidName
		}
		space.Name = name
	}
	if req.Tipo != nil {
		space.Type = strings.TrimSpace(*req.Tipo)
	}
	if req.Status != nil {
		if status := strings.TrimSpace(*req.Status); status != "" {
			space.Status = status
		}
	}

	space.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, space); err != nil {
		return domain.Space{}, err
	}
	return *space, nil
}

// Delete refuses while the space has an open occupation. Closed occupations go with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}
	spaceID, err := parseID(id)
	if err != nil {
		return err
	}
	space, err := s.loadSpace(ctx, companyID, spaceID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := s.repo.HasOpenOccupation(ctx, tx, companyID, spaceID)
		if err != nil {
			return err
		}
		if open {
			return domain.ErrSpaceOccupied
		}
		if err := s.repo.DeleteOccupationsBySpace(ctx, tx, companyID, spaceID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, companyID, spaceID)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, companyID, spaceID, "space.deleted", map[string]any{"name": space.Name})
	return nil
}

// OpenOccupation starts an occupation now. A space holds at most one open occupation.
func (s *Service) OpenOccupation(ctx context.Context, req domain.OpenOccupationRequest) (domain.SpaceOccupation, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.SpaceOccupation{}, domain.ErrInvalidOrganization
	}
	spaceID, err := parseID(req.SpaceID)
	if err != nil {
		return domain.SpaceOccupation{}, err
	}
	if _, err := s.loadSpace(ctx, companyID, spaceID); err != nil {
		return domain.SpaceOccupation{}, err
	}

	workOrderID, err := optionalID(req.WorkOrderID)
	if err != nil {
		return domain.SpaceOccupation{}, err
	}
	if workOrderID != nil {
		exists, err := s.repo.WorkOrderExists(ctx, s.db, companyID, *workOrderID)
		if err != nil {
			return domain.SpaceOccupation{}, err
		}
		if !exists {
			return domain.SpaceOccupation{}, domain.ErrWorkOrderNotFound
		}
	}

	appointmentID, err := optionalID(req.AppointmentID)
	if err != nil {
		return domain.SpaceOccupation{}, err
	}
	if appointmentID != nil {
		exists, err := s.repo.AppointmentExists(ctx, s.db, companyID, *appointmentID)
		if err != nil {
			return domain.SpaceOccupation{}, err
		}
		if !exists {
			return domain.SpaceOccupation{}, domain.ErrAppointmentNotFound
		}
	}

	now := s.clock.Now().UTC()
	if req.ExpectedEndAt != nil && req.ExpectedEndAt.Before(now) {
		return domain.SpaceOccupation{}, domain.ErrInvalidPeriod
	}
	occupation := domain.SpaceOccupation{
		ID:            s.genID.Generate(),
		CompanyID:     companyID,
		SpaceID:       spaceID,
		WorkOrderID:   workOrderID,
		AppointmentID: appointmentID,
		StartedAt:     now,
		ExpectedEndAt: utcPtr(req.ExpectedEndAt),
		Status:        domain.OccupationInProgress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		space, err := s.repo.LockByID(ctx, tx, companyID, spaceID)
		if err != nil {
			return err
		}
		if space == nil {
			return domain.ErrNotFound
		}
		open, err := s.repo.HasOpenOccupation(ctx, tx, companyID, spaceID)
		if err != nil {
			return err
		}
		if open {
			return domain.ErrSpaceOccupied
		}
		return s.repo.InsertOccupation(ctx, tx, &occupation)
	})
	if err != nil {
		return domain.SpaceOccupation{}, err
	}
	return occupation, nil
}

func (s *Service) CloseOccupation(ctx context.Context, id string, req domain.CloseOccupationRequest) (domain.SpaceOccupation, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.SpaceOccupation{}, domain.ErrInvalidOrganization
	}
	occupationID, err := parseID(id)
	if err != nil {
		return domain.SpaceOccupation{}, err
	}
	occupation, err := s.repo.FindOccupation(ctx, s.db, companyID, occupationID)
	if err != nil {
		return domain.SpaceOccupation{}, err
	}
	if occupation == nil {
		return domain.SpaceOccupation{}, domain.ErrOccupationNotFound
	}
	if occupation.Status == domain.OccupationCompleted {
		return domain.SpaceOccupation{}, domain.ErrOccupationClosed
	}

	now := s.clock.Now().UTC()
	endedAt := now
	if req.EndedAt != nil {
		endedAt = req.EndedAt.UTC()
	}
	if endedAt.Before(occupation.StartedAt) {
		return domain.SpaceOccupation{}, domain.ErrInvalidPeriod
	}

	occupation.EndedAt = &endedAt
	occupation.Status = domain.OccupationCompleted
	occupation.UpdatedAt = now
	if err := s.repo.UpdateOccupation(ctx, s.db, occupation); err != nil {
		return domain.SpaceOccupation{}, err
	}
	return *occupation, nil
}

func (s *Service) SummaryToday(ctx context.Context) (domain.TodaySummary, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.TodaySummary{}, domain.ErrInvalidOrganization
	}
	today := timeutil.Day(s.clock.Now(), s.loc)

	total, err := s.repo.Count(ctx, s.db, companyID)
	if err != nil {
		return domain.TodaySummary{}, err
	}
	counts, err := s.repo.CountOccupations(ctx, s.db, companyID, today.Start, today.End)
	if err != nil {
		return domain.TodaySummary{}, err
	}
	return domain.TodaySummary{
		TotalVagas: total,
		Ocupadas:   counts[domain.OccupationInProgress],
		Concluidas: counts[domain.OccupationCompleted],
	}, nil
}

func (s *Service) OccupationsToday(ctx context.Context) ([]domain.SpaceOccupation, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	today := timeutil.Day(s.clock.Now(), s.loc)

	occupations, err := s.repo.ListOccupations(ctx, s.db, companyID, today.Start, today.End)
	if err != nil {
		return nil, err
	}
	if occupations == nil {
		occupations = []domain.SpaceOccupation{}
	}
	return occupations, nil
}

func (s *Service) loadSpace(ctx context.Context, companyID, id snowflake.ID) (*domain.Space, error) {
	space, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, domain.ErrNotFound
	}
	return space, nil
}

func (s *Service) audit(ctx context.Context, companyID, spaceID snowflake.ID, action string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	targetID := spaceID.String()
	if err := s.auditSvc.AuditLog(ctx, &companyID, "", nil, action, "space", &targetID, metadata); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func optionalID(raw string) (*snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
