package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/washdesk/internal/clock"
	companydomain "github.com/smallbiznis/washdesk/internal/company/domain"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/dashboard/domain"
	financialdomain "github.com/smallbiznis/washdesk/internal/financial/domain"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	"github.com/smallbiznis/washdesk/internal/timeutil"
	workorderdomain "github.com/smallbiznis/washdesk/internal/workorder/domain"
	"github.com/smallbiznis/washdesk/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const fallbackClientName = "Cliente"

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	Config        config.Config                `optional:"true"`
	Business      *config.BusinessConfigHolder `optional:"true"`
	CompanyRepo   companydomain.Repository
	WorkOrderRepo workorderdomain.Repository
	FinancialRepo financialdomain.Repository
	SpaceRepo     spacedomain.Repository
	FollowUpRepo  followupdomain.Repository
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	clock         clock.Clock
	loc           *time.Location
	business      *config.BusinessConfigHolder
	companyRepo   companydomain.Repository
	workOrderRepo workorderdomain.Repository
	financialRepo financialdomain.Repository
	spaceRepo     spacedomain.Repository
	followUpRepo  followupdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("dashboard.service"),
		clock:         p.Clock,
		loc:           p.Config.Location(),
		business:      p.Business,
		companyRepo:   p.CompanyRepo,
		workOrderRepo: p.WorkOrderRepo,
		financialRepo: p.FinancialRepo,
		spaceRepo:     p.SpaceRepo,
		followUpRepo:  p.FollowUpRepo,
	}
}

func (s *Service) Overview(ctx context.Context) (domain.Overview, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Overview{}, domain.ErrInvalidOrganization
	}

	now := s.clock.Now()
	today := timeutil.Day(now, s.loc)
	month := timeutil.Month(now, s.loc)
	cfg := s.business.Get().Dashboard

	var out domain.Overview

	monthSales, err := s.workOrderRepo.SumPaymentsByMethod(ctx, s.db, companyID, month.Start, month.End)
	if err != nil {
		return domain.Overview{}, err
	}
	out.VendasPagasMes = salesByMethod(monthSales)

	todaySales, err := s.workOrderRepo.SumPaymentsByMethod(ctx, s.db, companyID, today.Start, today.End)
	if err != nil {
		return domain.Overview{}, err
	}
	received, paid, err := s.financialRepo.DayTotals(ctx, s.db, companyID, today.Start, today.End)
	if err != nil {
		return domain.Overview{}, err
	}
	entradas := sumMethods(todaySales) + received
	out.FinanceiroHoje = domain.TodayFinancials{
		Entradas: entradas,
		Saidas:   paid,
		Saldo:    entradas - paid,
	}

	budgets, err := s.workOrderRepo.CountByStatusOpened(ctx, s.db, companyID, month.Start, month.End)
	if err != nil {
		return domain.Overview{}, err
	}
	out.OrcamentosMes = domain.BudgetCounts{
		Pendentes: budgets[workorderdomain.StatusBudget],
		Aprovados: budgets[workorderdomain.StatusCompleted],
	}

	spaces, err := s.spaceRepo.Count(ctx, s.db, companyID)
	if err != nil {
		return domain.Overview{}, err
	}
	occupations, err := s.spaceRepo.CountOccupations(ctx, s.db, companyID, today.Start, today.End)
	if err != nil {
		return domain.Overview{}, err
	}
	out.VagasHoje = domain.SpaceCounts{
		Total:      spaces,
		Ocupadas:   occupations[spacedomain.OccupationInProgress],
		Concluidas: occupations[spacedomain.OccupationCompleted],
	}

	followUps, err := s.followUpRepo.CountByStatus(ctx, s.db, companyID, today.Start, today.End)
	if err != nil {
		return domain.Overview{}, err
	}
	out.PosVendaHoje = domain.FollowUpCounts{
		Pendentes:  followUps[followupdomain.StatusPending],
		Realizadas: followUps[followupdomain.StatusDone],
	}

	ranking, err := s.workOrderRepo.TopClients(ctx, s.db, companyID, cfg.TopClients)
	if err != nil {
		return domain.Overview{}, err
	}
	out.TopClientes = make([]domain.TopClient, 0, len(ranking))
	for _, row := range ranking {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			name = fallbackClientName
		}
		out.TopClientes = append(out.TopClientes, domain.TopClient{
			ID:       row.ClientID,
			Nome:     name,
			Total:    row.Total,
			Servicos: row.Orders,
		})
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Overview{}, err
	}
	out.Empresa = domain.CompanyInfo{Assinatura: cfg.PlanLabel}
	if company != nil {
		createdAt := company.CreatedAt
		out.Empresa.Nome = company.NomeFantasia
		out.Empresa.Desde = &createdAt
	} else {
		s.log.Warn("dashboard requested for unknown company", zap.String("company_id", companyID.String()))
	}
	return out, nil
}

// salesByMethod reports OTHER under transferencia; each method counts once in the total.
func salesByMethod(sums map[workorderdomain.PaymentMethod]money.Amount) domain.SalesByMethod {
	return domain.SalesByMethod{
		Total: sumMethods(sums),
		PorMetodo: domain.MethodTotals{
			Debito:        sums[workorderdomain.MethodDebit],
			Credito:       sums[workorderdomain.MethodCredit],
			Pix:           sums[workorderdomain.MethodPix],
			Dinheiro:      sums[workorderdomain.MethodCash],
			Boleto:        sums[workorderdomain.MethodBoleto],
			Transferencia: sums[workorderdomain.MethodOther],
		},
	}
}

func sumMethods(sums map[workorderdomain.PaymentMethod]money.Amount) money.Amount {
	var total money.Amount
	for _, v := range sums {
		total += v
	}
	return total
}
