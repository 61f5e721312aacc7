package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/financial/domain"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/internal/timeutil"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/smallbiznis/washdesk/pkg/money"
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
	Business *config.BusinessConfigHolder `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	loc      *time.Location
	repo     domain.Repository
	business *config.BusinessConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("financial.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		loc:      p.Config.Location(),
		repo:     p.Repo,
		business: p.Business,
	}
}

func (s *Service) ListPayables(ctx context.Context, req domain.ListRequest) (pagination.Page[domain.AccountPayable], error) {
	filter, page, err := s.listFilter(ctx, req)
	if err != nil {
		return pagination.Page[domain.AccountPayable]{}, err
	}
	items, total, err := s.repo.ListPayables(ctx, s.db, filter, page)
	if err != nil {
		return pagination.Page[domain.AccountPayable]{}, err
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) CreatePayable(ctx context.Context, req domain.CreatePayableRequest) (domain.AccountPayable, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.AccountPayable{}, domain.ErrInvalidOrganization
	}

	description := strings.TrimSpace(req.Descricao)
	if description == "" {
		return domain.AccountPayable{}, domain.ErrInvalidDescription
	}
	category := req.Categoria
	if category == "" {
		category = domain.CategoryFixed
	}
	if !category.Valid() {
		return domain.AccountPayable{}, domain.ErrInvalidCategory
	}
	if req.DataVencimento.IsZero() {
		return domain.AccountPayable{}, domain.ErrInvalidDate
	}
	paid := amountOr(req.ValorPago, 0)
	if req.ValorPrevisto.IsNegative() || paid.IsNegative() {
		return domain.AccountPayable{}, domain.ErrInvalidAmount
	}
	if err := validStatus(req.Status); err != nil {
		return domain.AccountPayable{}, err
	}

	now := s.clock.Now().UTC()
	payable := domain.AccountPayable{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Description: description,
		Category:    category,
		Expected:    req.ValorPrevisto,
		Paid:        paid,
		DueDate:     req.DataVencimento.UTC(),
		PaidDate:    utcPtr(req.DataPagamento),
		Supplier:    strings.TrimSpace(req.Fornecedor),
		Status:      domain.DerivePayableStatus(req.Status, paid),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertPayable(ctx, s.db, &payable); err != nil {
		return domain.AccountPayable{}, err
	}
	return payable, nil
}

func (s *Service) UpdatePayable(ctx context.Context, id string, req domain.UpdatePayableRequest) (domain.AccountPayable, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.AccountPayable{}, domain.ErrInvalidOrganization
	}
	payableID, err := parseID(id)
	if err != nil {
		return domain.AccountPayable{}, err
	}
	payable, err := s.repo.FindPayable(ctx, s.db, companyID, payableID)
	if err != nil {
		return domain.AccountPayable{}, err
	}
	if payable == nil {
		return domain.AccountPayable{}, domain.ErrPayableNotFound
	}
	if err := validStatus(req.Status); err != nil {
		return domain.AccountPayable{}, err
	}

	if req.Descricao != nil {
		description := strings.TrimSpace(*req.Descricao)
		if description == "" {
			return domain.AccountPayable{}, domain.ErrInvalidDescription
		}
		payable.Description = description
	}
	if req.Categoria != nil {
		if !req.Categoria.Valid() {
			return domain.AccountPayable{}, domain.ErrInvalidCategory
		}
		payable.Category = *req.Categoria
	}
	if req.ValorPrevisto != nil {
		if req.ValorPrevisto.IsNegative() {
			return domain.AccountPayable{}, domain.ErrInvalidAmount
		}
		payable.Expected = *req.ValorPrevisto
	}
	if req.ValorPago != nil {
		if req.ValorPago.IsNegative() {
			return domain.AccountPayable{}, domain.ErrInvalidAmount
		}
		payable.Paid = *req.ValorPago
	}
	if req.DataVencimento != nil && !req.DataVencimento.IsZero() {
		payable.DueDate = req.DataVencimento.UTC()
	}
	if req.DataPagamento != nil {
		payable.PaidDate = utcPtr(req.DataPagamento)
	}
	if req.Fornecedor != nil {
		payable.Supplier = strings.TrimSpace(*req.Fornecedor)
	}

	payable.Status = domain.DerivePayableStatus(req.Status, payable.Paid)
	payable.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdatePayable(ctx, s.db, payable); err != nil {
		return domain.AccountPayable{}, err
	}
	return *payable, nil
}

func (s *Service) ListReceivables(ctx context.Context, req domain.ListRequest) (pagination.Page[domain.AccountReceivable], error) {
	filter, page, err := s.listFilter(ctx, req)
	if err != nil {
		return pagination.Page[domain.AccountReceivable]{}, err
	}
	items, total, err := s.repo.ListReceivables(ctx, s.db, filter, page)
	if err != nil {
		return pagination.Page[domain.AccountReceivable]{}, err
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) CreateReceivable(ctx context.Context, req domain.CreateReceivableRequest) (domain.AccountReceivable, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.AccountReceivable{}, domain.ErrInvalidOrganization
	}
	if req.DataPrevista.IsZero() {
		return domain.AccountReceivable{}, domain.ErrInvalidDate
	}
	received := amountOr(req.ValorRecebido, 0)
	if req.ValorPrevisto.IsNegative() || received.IsNegative() {
		return domain.AccountReceivable{}, domain.ErrInvalidAmount
	}
	if err := validStatus(req.Status); err != nil {
		return domain.AccountReceivable{}, err
	}

	clientID, err := s.ensureClient(ctx, companyID, req.ClienteID)
	if err != nil {
		return domain.AccountReceivable{}, err
	}
	workOrderID, err := s.ensureWorkOrder(ctx, companyID, req.OsID)
	if err != nil {
		return domain.AccountReceivable{}, err
	}

	now := s.clock.Now().UTC()
	receivable := domain.AccountReceivable{
		ID:           s.genID.Generate(),
		CompanyID:    companyID,
		ClientID:     clientID,
		WorkOrderID:  workOrderID,
		Expected:     req.ValorPrevisto,
		ExpectedDate: req.DataPrevista.UTC(),
		Received:     received,
		ReceivedDate: utcPtr(req.DataRecebimento),
		Status:       domain.DeriveReceivableStatus(req.Status, received),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertReceivable(ctx, s.db, &receivable); err != nil {
		return domain.AccountReceivable{}, err
	}
	return s.loadReceivable(ctx, companyID, receivable.ID)
}

func (s *Service) UpdateReceivable(ctx context.Context, id string, req domain.UpdateReceivableRequest) (domain.AccountReceivable, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.AccountReceivable{}, domain.ErrInvalidOrganization
	}
	receivableID, err := parseID(id)
	if err != nil {
		return domain.AccountReceivable{}, err
	}
	receivable, err := s.loadReceivable(ctx, companyID, receivableID)
	if err != nil {
		return domain.AccountReceivable{}, err
	}
	if err := validStatus(req.Status); err != nil {
		return domain.AccountReceivable{}, err
	}

	if req.ClienteID != nil && strings.TrimSpace(*req.ClienteID) != "" {
		clientID, err := s.ensureClient(ctx, companyID, *req.ClienteID)
		if err != nil {
			return domain.AccountReceivable{}, err
		}
		receivable.ClientID = clientID
	}
	if req.ValorPrevisto != nil {
		if req.ValorPrevisto.IsNegative() {
			return domain.AccountReceivable{}, domain.ErrInvalidAmount
		}
		receivable.Expected = *req.ValorPrevisto
	}
	if req.ValorRecebido != nil {
		if req.ValorRecebido.IsNegative() {
			return domain.AccountReceivable{}, domain.ErrInvalidAmount
		}
		receivable.Received = *req.ValorRecebido
	}
	if req.DataPrevista != nil && !req.DataPrevista.IsZero() {
		receivable.ExpectedDate = req.DataPrevista.UTC()
	}
	if req.DataRecebimento != nil {
		receivable.ReceivedDate = utcPtr(req.DataRecebimento)
	}

	receivable.Status = domain.DeriveReceivableStatus(req.Status, receivable.Received)
	receivable.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateReceivable(ctx, s.db, &receivable); err != nil {
		return domain.AccountReceivable{}, err
	}
	return s.loadReceivable(ctx, companyID, receivable.ID)
}

func (s *Service) Cashflow(ctx context.Context, req domain.CashflowRequest) (domain.Cashflow, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Cashflow{}, domain.ErrInvalidOrganization
	}
	period, err := timeutil.OptionalRange(req.Start, req.End, s.loc)
	if err != nil {
		return domain.Cashflow{}, domain.ErrInvalidPeriod
	}

	var from, to *time.Time
	var label any = "completo"
	if period != nil {
		from, to = &period.Start, &period.End
		label = domain.Period{Start: strings.TrimSpace(req.Start), End: strings.TrimSpace(req.End)}
	}

	totals, err := s.repo.Totals(ctx, s.db, companyID, from, to)
	if err != nil {
		return domain.Cashflow{}, err
	}

	in := money.Sum(totals.PaymentsReceived, totals.ReceivablesCashed)
	out := totals.PayablesPaid
	return domain.Cashflow{
		Periodo:           label,
		EntradasRecebidas: in,
		SaidasPagas:       out,
		Saldo:             in - out,
		EntradasPrevistas: totals.ReceivablesPlanned,
		SaidasPrevistas:   totals.PayablesPlanned,
		SaldoPrevisto:     totals.ReceivablesPlanned - totals.PayablesPlanned,
	}, nil
}

func (s *Service) listFilter(ctx context.Context, req domain.ListRequest) (domain.ListFilter, pagination.Params, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.ListFilter{}, pagination.Params{}, domain.ErrInvalidOrganization
	}
	if req.Status != "" && !req.Status.Valid() {
		return domain.ListFilter{}, pagination.Params{}, domain.ErrInvalidStatus
	}
	period, err := timeutil.OptionalRange(req.Start, req.End, s.loc)
	if err != nil {
		return domain.ListFilter{}, pagination.Params{}, domain.ErrInvalidPeriod
	}

	cfg := s.business.Get().Pagination
	page := req.Params.Normalize(cfg.DefaultPerPage, cfg.MaxPerPage)

	filter := domain.ListFilter{CompanyID: companyID, Status: req.Status}
	if period != nil {
		filter.From, filter.To = &period.Start, &period.End
	}
	return filter, page, nil
}

func (s *Service) loadReceivable(ctx context.Context, companyID, id snowflake.ID) (domain.AccountReceivable, error) {
	receivable, err := s.repo.FindReceivable(ctx, s.db, companyID, id)
	if err != nil {
		return domain.AccountReceivable{}, err
	}
	if receivable == nil {
		return domain.AccountReceivable{}, domain.ErrReceivableNotFound
	}
	return *receivable, nil
}

func (s *Service) ensureClient(ctx context.Context, companyID snowflake.ID, raw string) (*snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ClientExists(ctx, s.db, companyID, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrClientNotFound
	}
	return &id, nil
}

func (s *Service) ensureWorkOrder(ctx context.Context, companyID snowflake.ID, raw string) (*snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.WorkOrderExists(ctx, s.db, companyID, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrWorkOrderNotFound
	}
	return &id, nil
}

func validStatus(status *domain.Status) error {
	if status != nil && *status != "" && !status.Valid() {
		return domain.ErrInvalidStatus
	}
	return nil
}

func amountOr(v *money.Amount, def money.Amount) money.Amount {
	if v == nil {
		return def
	}
	return *v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
