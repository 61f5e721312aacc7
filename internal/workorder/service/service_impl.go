package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	catalogdomain "github.com/smallbiznis/washdesk/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	financialdomain "github.com/smallbiznis/washdesk/internal/financial/domain"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	"github.com/smallbiznis/washdesk/internal/observability/metrics"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	"github.com/smallbiznis/washdesk/internal/workorder/domain"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxCreateAttempts bounds retries when the (company_id, sequential) index rejects an insert.
const maxCreateAttempts = 3

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          domain.Repository
	ClientRepo    clientdomain.Repository
	CatalogRepo   catalogdomain.Repository
	FollowUpRepo  followupdomain.Repository
	SpaceRepo     spacedomain.Repository
	FinancialRepo financialdomain.Repository
	Metrics       *metrics.Metrics             `optional:"true"`
	AuditSvc      auditdomain.Service          `optional:"true"`
	Business      *config.BusinessConfigHolder `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          domain.Repository
	clientRepo    clientdomain.Repository
	catalogRepo   catalogdomain.Repository
	followUpRepo  followupdomain.Repository
	spaceRepo     spacedomain.Repository
	financialRepo financialdomain.Repository
	metrics       *metrics.Metrics
	auditSvc      auditdomain.Service
	business      *config.BusinessConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("workorder.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		clientRepo:    p.ClientRepo,
		catalogRepo:   p.CatalogRepo,
		followUpRepo:  p.FollowUpRepo,
		spaceRepo:     p.SpaceRepo,
		financialRepo: p.FinancialRepo,
		metrics:       p.Metrics,
		auditSvc:      p.AuditSvc,
		business:      p.Business,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateWorkOrderRequest) (domain.WorkOrder, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.WorkOrder{}, domain.ErrInvalidOrganization
	}

	status := req.Status
	if status == "" {
		status = domain.StatusBudget
	}
	if !status.Valid() {
		return domain.WorkOrder{}, domain.ErrInvalidStatus
	}
	serviceIDs, err := validateItems(req.Itens)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	totals, lineTotals, err := domain.ComputeTotals(req.Itens)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	for _, payment := range req.Pagamentos {
		if err := validatePayment(payment); err != nil {
			return domain.WorkOrder{}, err
		}
	}

	clientID, ok := parseID(req.ClienteID)
	if !ok {
		return domain.WorkOrder{}, clientdomain.ErrNotFound
	}
	var vehicleID *snowflake.ID
	if strings.TrimSpace(req.VeiculoID) != "" {
		id, ok := parseID(req.VeiculoID)
		if !ok {
			return domain.WorkOrder{}, clientdomain.ErrVehicleNotFound
		}
		vehicleID = &id
	}
	if err := s.ensureReferences(ctx, companyID, clientID, vehicleID, serviceIDs); err != nil {
		return domain.WorkOrder{}, err
	}

	now := s.clock.Now().UTC()
	openedAt := now
	if req.DataAbertura != nil && !req.DataAbertura.IsZero() {
		openedAt = req.DataAbertura.UTC()
	}

	order := domain.WorkOrder{
		ID:            s.genID.Generate(),
		CompanyID:     companyID,
		ClientID:      clientID,
		VehicleID:     vehicleID,
		ResponsibleID: orgcontext.UserIDFromContext(ctx),
		Status:        status,
		TotalGross:    totals.Gross,
		DiscountTotal: totals.Discount,
		TotalNet:      totals.Net,
		PaymentTerm:   strings.TrimSpace(req.FormaRecebimento),
		OpenedAt:      openedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	items := make([]domain.WorkOrderItem, len(req.Itens))
	for i, in := range req.Itens {
		items[i] = domain.WorkOrderItem{
			ID:          s.genID.Generate(),
			WorkOrderID: order.ID,
			ServiceID:   serviceIDs[i],
			Quantity:    in.Quantidade,
			UnitPrice:   in.PrecoUnitario,
			Discount:    in.Desconto,
			Total:       lineTotals[i],
		}
	}
	payments := make([]domain.Payment, len(req.Pagamentos))
	for i, in := range req.Pagamentos {
		payments[i] = s.newPayment(companyID, &order.ID, in, now)
	}

	for attempt := 1; ; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			sequential, err := s.repo.NextSequential(ctx, tx, companyID, now)
			if err != nil {
				return err
			}
			order.Sequential = sequential
			if err := s.repo.Insert(ctx, tx, &order); err != nil {
				return err
			}
			if err := s.repo.InsertItems(ctx, tx, items); err != nil {
				return err
			}
			return s.repo.InsertPayments(ctx, tx, payments)
		})
		if err == nil {
			break
		}
		if !db.IsDuplicateKeyErr(err) {
			return domain.WorkOrder{}, err
		}
		if attempt >= maxCreateAttempts {
			s.log.Error("work order sequential kept colliding",
				zap.String("company_id", companyID.String()),
				zap.Int("attempts", attempt),
			)
			return domain.WorkOrder{}, domain.ErrSequenceExhausted
		}
		s.log.Warn("work order sequential collided, retrying",
			zap.String("company_id", companyID.String()),
			zap.Int("attempt", attempt),
		)
	}

	s.metrics.RecordWorkOrderCreated(ctx, string(order.Status))
	for _, payment := range payments {
		s.metrics.RecordPayment(ctx, string(payment.Method))
	}
	s.audit(ctx, companyID, order.ID, "work_order.created", map[string]any{
		"sequential": order.Sequential,
		"status":     string(order.Status),
		"total_net":  order.TotalNet.String(),
	})
	return s.load(ctx, companyID, order.ID, false)
}

func (s *Service) List(ctx context.Context, req domain.ListWorkOrderRequest) (pagination.Page[domain.WorkOrder], error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return pagination.Page[domain.WorkOrder]{}, domain.ErrInvalidOrganization
	}
	if req.Status != "" && !req.Status.Valid() {
		return pagination.Page[domain.WorkOrder]{}, domain.ErrInvalidStatus
	}

	cfg := s.business.Get().Pagination
	page := req.Params.Normalize(cfg.DefaultPerPage, cfg.MaxPerPage)

	orders, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		CompanyID: companyID,
		Search:    req.Search,
		Status:    req.Status,
	}, page)
	if err != nil {
		return pagination.Page[domain.WorkOrder]{}, err
	}
	return pagination.NewPage(orders, page, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.WorkOrder, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.WorkOrder{}, domain.ErrInvalidOrganization
	}
	orderID, err := parseOrderID(id)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	return s.load(ctx, companyID, orderID, true)
}

// UpdateStatus accepts any target status. COMPLETED stamps closedAt and generates
// follow-ups in the same transaction; completing twice generates them twice.
func (s *Service) UpdateStatus(ctx context.Context, id string, req domain.UpdateStatusRequest) (domain.WorkOrder, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.WorkOrder{}, domain.ErrInvalidOrganization
	}
	orderID, err := parseOrderID(id)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	if !req.Status.Valid() {
		return domain.WorkOrder{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now().UTC()
	var (
		previous  domain.Status
		generated int
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindHydrated(ctx, tx, companyID, orderID, false)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		previous = order.Status

		order.Status = req.Status
		order.UpdatedAt = now
		if req.Status == domain.StatusCompleted {
			closedAt := now
			if closedAt.Before(order.OpenedAt) {
				closedAt = order.OpenedAt
			}
			order.ClosedAt = &closedAt
		}
		if err := s.repo.UpdateStatus(ctx, tx, order); err != nil {
			return err
		}
		if req.Status != domain.StatusCompleted {
			return nil
		}

		followUps := s.followUpsFor(order, now)
		generated = len(followUps)
		return s.followUpRepo.InsertMany(ctx, tx, followUps)
	})
	if err != nil {
		return domain.WorkOrder{}, err
	}

	s.metrics.RecordStatusTransition(ctx, string(req.Status))
	s.metrics.RecordFollowUpsGenerated(ctx, generated)
	s.audit(ctx, companyID, orderID, "work_order.status_changed", map[string]any{
		"from":               string(previous),
		"to":                 string(req.Status),
		"follow_ups_created": generated,
	})
	return s.load(ctx, companyID, orderID, false)
}

func (s *Service) followUpsFor(order *domain.WorkOrder, now time.Time) []followupdomain.FollowUp {
	var out []followupdomain.FollowUp
	for _, item := range order.Items {
		if item.Service == nil || !item.Service.GeneratesFollowUp() {
			continue
		}
		serviceID := item.ServiceID
		orderID := order.ID
		out = append(out, followupdomain.FollowUp{
			ID:          s.genID.Generate(),
			CompanyID:   order.CompanyID,
			ClientID:    order.ClientID,
			WorkOrderID: &orderID,
			ServiceID:   &serviceID,
			ContactAt:   now.Add(time.Duration(*item.Service.FollowUpDays) * 24 * time.Hour),
			Status:      followupdomain.StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out
}

// AddPayment records a payment without touching totals or status.
func (s *Service) AddPayment(ctx context.Context, id string, req domain.PaymentInput) (domain.Payment, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Payment{}, domain.ErrInvalidOrganization
	}
	orderID, err := parseOrderID(id)
	if err != nil {
		return domain.Payment{}, err
	}
	if err := validatePayment(req); err != nil {
		return domain.Payment{}, err
	}

	order, err := s.repo.FindByID(ctx, s.db, companyID, orderID)
	if err != nil {
		return domain.Payment{}, err
	}
	if order == nil {
		return domain.Payment{}, domain.ErrNotFound
	}

	payment := s.newPayment(companyID, &order.ID, req, s.clock.Now().UTC())
	if err := s.repo.InsertPayments(ctx, s.db, []domain.Payment{payment}); err != nil {
		return domain.Payment{}, err
	}
	s.metrics.RecordPayment(ctx, string(payment.Method))
	return payment, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}
	orderID, err := parseOrderID(id)
	if err != nil {
		return err
	}

	var sequential int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, companyID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == domain.StatusCompleted {
			return domain.ErrCompletedImmutable
		}
		sequential = order.Sequential

		if err := s.followUpRepo.DetachWorkOrder(ctx, tx, companyID, orderID); err != nil {
			return err
		}
		if err := s.spaceRepo.DetachWorkOrder(ctx, tx, companyID, orderID); err != nil {
			return err
		}
		if err := s.financialRepo.DetachWorkOrder(ctx, tx, companyID, orderID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, companyID, orderID)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, companyID, orderID, "work_order.deleted", map[string]any{"sequential": sequential})
	return nil
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

	// Count match only: a repeated service id undercounts and is rejected here too.
	owned, err := s.catalogRepo.CountOwned(ctx, s.db, companyID, serviceIDs)
	if err != nil {
		return err
	}
	if owned != int64(len(serviceIDs)) {
		return catalogdomain.ErrForeignService
	}
	return nil
}

func (s *Service) newPayment(companyID snowflake.ID, orderID *snowflake.ID, in domain.PaymentInput, now time.Time) domain.Payment {
	paidAt := now
	if in.DataPagamento != nil && !in.DataPagamento.IsZero() {
		paidAt = in.DataPagamento.UTC()
	}
	return domain.Payment{
		ID:                s.genID.Generate(),
		CompanyID:         companyID,
		WorkOrderID:       orderID,
		Method:            in.Metodo,
		Amount:            in.Valor,
		PaidAt:            paidAt,
		InstallmentNumber: in.NumeroParcela,
		TotalInstallments: in.TotalParcelas,
		CreatedAt:         now,
	}
}

func (s *Service) load(ctx context.Context, companyID, id snowflake.ID, withFollowUps bool) (domain.WorkOrder, error) {
	order, err := s.repo.FindHydrated(ctx, s.db, companyID, id, withFollowUps)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	if order == nil {
		return domain.WorkOrder{}, domain.ErrNotFound
	}
	return *order, nil
}

func (s *Service) audit(ctx context.Context, companyID, orderID snowflake.ID, action string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	targetID := orderID.String()
	if err := s.auditSvc.AuditLog(ctx, &companyID, "", nil, action, "work_order", &targetID, metadata); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func validateItems(items []domain.ItemInput) ([]snowflake.ID, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidItems
	}
	ids := make([]snowflake.ID, len(items))
	for i, item := range items {
		id, ok := parseID(item.ServicoID)
		if !ok {
			return nil, catalogdomain.ErrForeignService
		}
		if item.Quantidade <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if item.PrecoUnitario.IsNegative() || item.Desconto.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		ids[i] = id
	}
	return ids, nil
}

func validatePayment(in domain.PaymentInput) error {
	if !in.Metodo.Valid() {
		return domain.ErrInvalidMethod
	}
	if !in.Valor.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if (in.NumeroParcela != nil && *in.NumeroParcela < 1) || (in.TotalParcelas != nil && *in.TotalParcelas < 1) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// parseID reports false for anything that cannot name a row.
func parseID(raw string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseOrderID treats a malformed order id like an unknown one.
func parseOrderID(raw string) (snowflake.ID, error) {
	id, ok := parseID(raw)
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}
