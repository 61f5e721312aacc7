package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/appointment/domain"
	catalogdomain "github.com/smallbiznis/washdesk/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/internal/timeutil"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Config      config.Config `optional:"true"`
	Repo        domain.Repository
	ClientRepo  clientdomain.Repository
	CatalogRepo catalogdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	loc         *time.Location
	repo        domain.Repository
	clientRepo  clientdomain.Repository
	catalogRepo catalogdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("appointment.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		loc:         p.Config.Location(),
		repo:        p.Repo,
		clientRepo:  p.ClientRepo,
		catalogRepo: p.CatalogRepo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListAppointmentRequest) ([]domain.Appointment, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	period, err := timeutil.OptionalRange(req.Start, req.End, s.loc)
	if err != nil {
		return nil, domain.ErrInvalidPeriod
	}
	var start, end *time.Time
	if period != nil {
		start, end = &period.Start, &period.End
	}

	appointments, err := s.repo.List(ctx, s.db, companyID, start, end)
	if err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	return appointments, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateAppointmentRequest) (domain.Appointment, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Appointment{}, domain.ErrInvalidOrganization
	}

	clientID, err := parseID(req.ClienteID)
	if err != nil {
		return domain.Appointment{}, err
	}
	vehicleID, err := parseOptionalID(req.VeiculoID)
	if err != nil {
		return domain.Appointment{}, err
	}
	responsibleID, err := parseOptionalID(req.ResponsavelID)
	if err != nil {
		return domain.Appointment{}, err
	}
	serviceIDs, err := parseIDs(req.ServicoIDs)
	if err != nil {
		return domain.Appointment{}, err
	}
	if req.DataHoraInicio.IsZero() || req.DataHoraFim.IsZero() || req.DataHoraFim.Before(req.DataHoraInicio) {
		return domain.Appointment{}, domain.ErrInvalidPeriod
	}

	status := req.Status
	if status == "" {
		status = domain.StatusScheduled
	}
	if !status.Valid() {
		return domain.Appointment{}, domain.ErrInvalidStatus
	}
	origin := req.Origem
	if origin == "" {
		origin = domain.OriginManual
	}
	if !origin.Valid() {
		return domain.Appointment{}, domain.ErrInvalidOrigin
	}

	if err := s.ensureReferences(ctx, companyID, clientID, vehicleID, serviceIDs); err != nil {
		return domain.Appointment{}, err
	}

	now := s.clock.Now().UTC()
	appointment := domain.Appointment{
		ID:            s.genID.Generate(),
		CompanyID:     companyID,
		ClientID:      clientID,
		VehicleID:     vehicleID,
		StartAt:       req.DataHoraInicio.UTC(),
		EndAt:         req.DataHoraFim.UTC(),
		Status:        status,
		Origin:        origin,
		Notes:         strings.TrimSpace(req.Observacoes),
		ResponsibleID: responsibleID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &appointment); err != nil {
			return err
		}
		return s.repo.ReplaceServices(ctx, tx, appointment.ID, serviceIDs)
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return s.hydrated(ctx, companyID, appointment.ID)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateAppointmentRequest) (domain.Appointment, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Appointment{}, domain.ErrInvalidOrganization
	}
	appointmentID, err := parseID(id)
	if err != nil {
		return domain.Appointment{}, err
	}

	appointment, err := s.repo.FindByID(ctx, s.db, companyID, appointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}
	if appointment == nil {
		return domain.Appointment{}, domain.ErrNotFound
	}

	var serviceIDs []snowflake.ID
	if req.ServicoIDs != nil {
		if serviceIDs, err = parseIDs(req.ServicoIDs); err != nil {
			return domain.Appointment{}, err
		}
		if err := s.ensureServices(ctx, companyID, serviceIDs); err != nil {
			return domain.Appointment{}, err
		}
	}

	if req.DataHoraInicio != nil {
		appointment.StartAt = req.DataHoraInicio.UTC()
	}
	if req.DataHoraFim != nil {
		appointment.EndAt = req.DataHoraFim.UTC()
	}
	if appointment.EndAt.Before(appointment.StartAt) {
		return domain.Appointment{}, domain.ErrInvalidPeriod
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return domain.Appointment{}, domain.ErrInvalidStatus
		}
		appointment.Status = *req.Status
	}
	if req.Observacoes != nil {
		appointment.Notes = strings.TrimSpace(*req.Observacoes)
	}
	appointment.UpdatedAt = s.clock.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.ServicoIDs != nil {
			if err := s.repo.ReplaceServices(ctx, tx, appointment.ID, serviceIDs); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, tx, appointment)
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return s.hydrated(ctx, companyID, appointment.ID)
}

func (s *Service) ensureReferences(ctx context.Context, companyID, clientID snowflake.ID, vehicleID *snowflake.ID, serviceIDs []snowflake.ID) error {
	client, err := s.clientRepo.FindByID(ctx, s.db, companyID, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return clientdomain.ErrNotFound
	}
	if vehicleID != nil {
		vehicle, err := s.clientRepo.FindVehicle(ctx, s.db, companyID, 0, *vehicleID)
		if err != nil {
			return err
		}
		if vehicle == nil {
			return clientdomain.ErrVehicleNotFound
		}
	}
	return s.ensureServices(ctx, companyID, serviceIDs)
}

// ensureServices compares a plain count, so a repeated id also fails.
func (s *Service) ensureServices(ctx context.Context, companyID snowflake.ID, serviceIDs []snowflake.ID) error {
	if len(serviceIDs) == 0 {
		return nil
	}
	count, err := s.catalogRepo.CountOwned(ctx, s.db, companyID, serviceIDs)
	if err != nil {
		return err
	}
	if count != int64(len(serviceIDs)) {
		return catalogdomain.ErrForeignService
	}
	return nil
}

func (s *Service) hydrated(ctx context.Context, companyID, id snowflake.ID) (domain.Appointment, error) {
	appointment, err := s.repo.FindHydrated(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if appointment == nil {
		return domain.Appointment{}, domain.ErrNotFound
	}
	return *appointment, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseOptionalID(raw string) (*snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseIDs(raw []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
