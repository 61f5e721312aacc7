package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
	"github.com/smallbiznis/washdesk/internal/clock"
	companydomain "github.com/smallbiznis/washdesk/internal/company/domain"
	companyrepo "github.com/smallbiznis/washdesk/internal/company/repository"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/dashboard/domain"
	financialdomain "github.com/smallbiznis/washdesk/internal/financial/domain"
	financialrepo "github.com/smallbiznis/washdesk/internal/financial/repository"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	followuprepo "github.com/smallbiznis/washdesk/internal/followup/repository"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	spacerepo "github.com/smallbiznis/washdesk/internal/space/repository"
	workorderdomain "github.com/smallbiznis/washdesk/internal/workorder/domain"
	workorderrepo "github.com/smallbiznis/washdesk/internal/workorder/repository"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/smallbiznis/washdesk/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 02:00 UTC on June 10 is still June 9 in São Paulo.
var testNow = time.Date(2025, 6, 10, 2, 0, 0, 0, time.UTC)

type fixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	companyID snowflake.ID
	ctx       context.Context
}

func newFixture(t *testing.T, business *config.BusinessConfigHolder) fixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	conn := db.NewTest(t,
		&companydomain.Company{},
		&clientdomain.Client{},
		&workorderdomain.WorkOrder{}, &workorderdomain.Payment{},
		&financialdomain.AccountPayable{}, &financialdomain.AccountReceivable{},
		&spacedomain.Space{}, &spacedomain.SpaceOccupation{},
		&followupdomain.FollowUp{},
	)
	companyID := node.Generate()

	return fixture{
		db:        conn,
		node:      node,
		companyID: companyID,
		ctx:       orgcontext.WithCompanyID(context.Background(), companyID),
		svc: New(Params{
			DB:            conn,
			Log:           zap.NewNop(),
			Clock:         clock.NewFakeClock(testNow),
			Config:        config.Config{BusinessTimezone: "America/Sao_Paulo"},
			Business:      business,
			CompanyRepo:   companyrepo.Provide(),
			WorkOrderRepo: workorderrepo.Provide(),
			FinancialRepo: financialrepo.Provide(),
			SpaceRepo:     spacerepo.Provide(),
			FollowUpRepo:  followuprepo.Provide(),
		}),
	}
}

func (f fixture) client(t *testing.T, name string) snowflake.ID {
	t.Helper()
	c := clientdomain.Client{ID: f.node.Generate(), CompanyID: f.companyID, Name: name, CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, f.db.Omit("Vehicles").Create(&c).Error)
	return c.ID
}

func (f fixture) order(t *testing.T, seq int64, clientID snowflake.ID, status workorderdomain.Status, net int64, openedAt time.Time) {
	t.Helper()
	wo := workorderdomain.WorkOrder{
		ID:         f.node.Generate(),
		CompanyID:  f.companyID,
		Sequential: seq,
		ClientID:   clientID,
		Status:     status,
		TotalGross: money.FromCents(net),
		TotalNet:   money.FromCents(net),
		OpenedAt:   openedAt,
		CreatedAt:  openedAt,
		UpdatedAt:  openedAt,
	}
	require.NoError(t, f.db.Omit(clause.Associations).Create(&wo).Error)
}

func (f fixture) payment(t *testing.T, method workorderdomain.PaymentMethod, cents int64, paidAt time.Time) {
	t.Helper()
	p := workorderdomain.Payment{ID: f.node.Generate(), CompanyID: f.companyID, Method: method, Amount: money.FromCents(cents), PaidAt: paidAt, CreatedAt: paidAt}
	require.NoError(t, f.db.Create(&p).Error)
}

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2025, month, day, hour, 0, 0, 0, time.UTC)
}

func TestOverviewAggregatesInBusinessTimezone(t *testing.T) {
	f := newFixture(t, config.NewStaticBusinessConfigHolder(config.BusinessConfig{
		Dashboard:  config.DashboardConfig{TopClients: 2, PlanLabel: "Plano Pro"},
		Pagination: config.PaginationConfig{DefaultPerPage: 20, MaxPerPage: 100},
	}))

	company := companydomain.Company{ID: f.companyID, NomeFantasia: "Lava Rápido Centro", Slug: "lava-rapido-centro", CreatedAt: at(time.January, 15, 12), UpdatedAt: at(time.January, 15, 12)}
	require.NoError(t, f.db.Create(&company).Error)

	ana := f.client(t, "Ana Souza")
	bruno := f.client(t, "Bruno Dias")
	f.order(t, 1, ana, workorderdomain.StatusCompleted, 10000, at(time.June, 2, 12))
	f.order(t, 2, ana, workorderdomain.StatusCompleted, 5000, at(time.June, 3, 12))
	f.order(t, 3, bruno, workorderdomain.StatusCompleted, 30000, at(time.June, 4, 12))
	f.order(t, 4, bruno, workorderdomain.StatusBudget, 7000, at(time.June, 5, 12))
	// May 31 21:00 local, outside the month.
	f.order(t, 5, ana, workorderdomain.StatusBudget, 7000, at(time.June, 1, 0))

	f.payment(t, workorderdomain.MethodPix, 10000, at(time.June, 2, 12))
	f.payment(t, workorderdomain.MethodOther, 3000, at(time.June, 5, 12))
	f.payment(t, workorderdomain.MethodCash, 2000, at(time.June, 9, 12))
	f.payment(t, workorderdomain.MethodDebit, 9900, at(time.June, 1, 2))

	dueToday := at(time.June, 9, 20)
	require.NoError(t, f.db.Create(&financialdomain.AccountReceivable{ID: f.node.Generate(), CompanyID: f.companyID, Expected: money.FromCents(4000), Received: money.FromCents(4000), ExpectedDate: at(time.June, 9, 15), Status: financialdomain.StatusReceived, CreatedAt: testNow, UpdatedAt: testNow}).Error)
	require.NoError(t, f.db.Create(&financialdomain.AccountReceivable{ID: f.node.Generate(), CompanyID: f.companyID, Expected: money.FromCents(9900), ExpectedDate: at(time.June, 9, 16), Status: financialdomain.StatusPending, CreatedAt: testNow, UpdatedAt: testNow}).Error)
	require.NoError(t, f.db.Create(&financialdomain.AccountPayable{ID: f.node.Generate(), CompanyID: f.companyID, Description: "Aluguel", Category: financialdomain.CategoryFixed, Expected: money.FromCents(2500), Paid: money.FromCents(2500), DueDate: dueToday, Status: financialdomain.StatusPaid, CreatedAt: testNow, UpdatedAt: testNow}).Error)
	require.NoError(t, f.db.Create(&financialdomain.AccountPayable{ID: f.node.Generate(), CompanyID: f.companyID, Description: "Energia", Category: financialdomain.CategoryFixed, Expected: money.FromCents(8000), Paid: money.FromCents(8000), DueDate: at(time.June, 10, 4), Status: financialdomain.StatusPaid, CreatedAt: testNow, UpdatedAt: testNow}).Error)

	boxA := spacedomain.Space{ID: f.node.Generate(), CompanyID: f.companyID, Name: "Box 1", Status: spacedomain.DefaultSpaceStatus, CreatedAt: testNow, UpdatedAt: testNow}
	boxB := spacedomain.Space{ID: f.node.Generate(), CompanyID: f.companyID, Name: "Box 2", Status: spacedomain.DefaultSpaceStatus, CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, f.db.Create(&boxA).Error)
	require.NoError(t, f.db.Create(&boxB).Error)
	for _, occ := range []spacedomain.SpaceOccupation{
		{SpaceID: boxA.ID, StartedAt: at(time.June, 9, 10), Status: spacedomain.OccupationInProgress},
		{SpaceID: boxB.ID, StartedAt: at(time.June, 9, 11), Status: spacedomain.OccupationCompleted},
		{SpaceID: boxB.ID, StartedAt: at(time.June, 8, 11), Status: spacedomain.OccupationCompleted},
	} {
		occ.ID = f.node.Generate()
		occ.CompanyID = f.companyID
		occ.CreatedAt = testNow
		occ.UpdatedAt = testNow
		require.NoError(t, f.db.Omit(clause.Associations).Create(&occ).Error)
	}

	for _, fu := range []followupdomain.FollowUp{
		{ClientID: ana, ContactAt: at(time.June, 9, 18), Status: followupdomain.StatusPending},
		{ClientID: ana, ContactAt: at(time.June, 9, 19), Status: followupdomain.StatusDone},
		{ClientID: bruno, ContactAt: at(time.June, 10, 5), Status: followupdomain.StatusPending},
	} {
		fu.ID = f.node.Generate()
		fu.CompanyID = f.companyID
		fu.CreatedAt = testNow
		fu.UpdatedAt = testNow
		require.NoError(t, f.db.Omit(clause.Associations).Create(&fu).Error)
	}

	out, err := f.svc.Overview(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, money.FromCents(15000), out.VendasPagasMes.Total)
	assert.Equal(t, money.FromCents(10000), out.VendasPagasMes.PorMetodo.Pix)
	assert.Equal(t, money.FromCents(3000), out.VendasPagasMes.PorMetodo.Transferencia)
	assert.Equal(t, money.FromCents(2000), out.VendasPagasMes.PorMetodo.Dinheiro)
	assert.Zero(t, out.VendasPagasMes.PorMetodo.Debito)

	assert.Equal(t, domain.TodayFinancials{
		Entradas: money.FromCents(6000),
		Saidas:   money.FromCents(2500),
		Saldo:    money.FromCents(3500),
	}, out.FinanceiroHoje)

	assert.Equal(t, domain.BudgetCounts{Pendentes: 1, Aprovados: 3}, out.OrcamentosMes)
	assert.Equal(t, domain.SpaceCounts{Total: 2, Ocupadas: 1, Concluidas: 1}, out.VagasHoje)
	assert.Equal(t, domain.FollowUpCounts{Pendentes: 1, Realizadas: 1}, out.PosVendaHoje)

	require.Len(t, out.TopClientes, 2)
	assert.Equal(t, bruno, out.TopClientes[0].ID)
	assert.Equal(t, "Bruno Dias", out.TopClientes[0].Nome)
	assert.Equal(t, money.FromCents(30000), out.TopClientes[0].Total)
	assert.Equal(t, int64(1), out.TopClientes[0].Servicos)
	assert.Equal(t, ana, out.TopClientes[1].ID)
	assert.Equal(t, money.FromCents(15000), out.TopClientes[1].Total)
	assert.Equal(t, int64(2), out.TopClientes[1].Servicos)

	assert.Equal(t, "Lava Rápido Centro", out.Empresa.Nome)
	assert.Equal(t, "Plano Pro", out.Empresa.Assinatura)
	require.NotNil(t, out.Empresa.Desde)
	assert.Equal(t, company.CreatedAt, out.Empresa.Desde.UTC())
}

func TestOverviewEmptyTenantAndNameFallback(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.svc.Overview(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, out.VendasPagasMes.Total)
	assert.Zero(t, out.FinanceiroHoje.Saldo)
	assert.Empty(t, out.TopClientes)
	assert.Equal(t, "Teste grátis", out.Empresa.Assinatura)
	assert.Nil(t, out.Empresa.Desde)

	f.order(t, 1, f.node.Generate(), workorderdomain.StatusCompleted, 1000, at(time.June, 2, 12))
	out, err = f.svc.Overview(f.ctx)
	require.NoError(t, err)
	require.Len(t, out.TopClientes, 1)
	assert.Equal(t, "Cliente", out.TopClientes[0].Nome)
}

func TestOverviewRequiresCompany(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Overview(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}
