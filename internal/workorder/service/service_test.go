package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/washdesk/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/washdesk/internal/catalog/repository"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
	clientrepo "github.com/smallbiznis/washdesk/internal/client/repository"
	"github.com/smallbiznis/washdesk/internal/clock"
	financialdomain "github.com/smallbiznis/washdesk/internal/financial/domain"
	financialrepo "github.com/smallbiznis/washdesk/internal/financial/repository"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	followuprepo "github.com/smallbiznis/washdesk/internal/followup/repository"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	spacerepo "github.com/smallbiznis/washdesk/internal/space/repository"
	"github.com/smallbiznis/washdesk/internal/workorder/domain"
	"github.com/smallbiznis/washdesk/internal/workorder/repository"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/smallbiznis/washdesk/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type fixture struct {
	svc       *Service
	db        *gorm.DB
	node      *snowflake.Node
	clock     *clock.FakeClock
	companyID snowflake.ID
	ctx       context.Context
	client    clientdomain.Client
	vehicle   clientdomain.Vehicle
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))

	conn := db.NewTest(t,
		&clientdomain.Client{}, &clientdomain.Vehicle{},
		&catalogdomain.CatalogItem{},
		&domain.WorkOrder{}, &domain.WorkOrderItem{}, &domain.Payment{}, &domain.WorkOrderSequence{},
		&followupdomain.FollowUp{},
		&spacedomain.Space{}, &spacedomain.SpaceOccupation{},
		&financialdomain.AccountReceivable{},
	)
	companyID := node.Generate()
	userID := node.Generate()
	ctx := orgcontext.WithCompanyID(context.Background(), companyID)
	ctx = orgcontext.WithUser(ctx, orgcontext.User{ID: userID, Role: "OPERATOR"})

	f := fixture{
		db:        conn,
		node:      node,
		clock:     clk,
		companyID: companyID,
		ctx:       ctx,
		svc: New(Params{
			DB:            conn,
			Log:           zap.NewNop(),
			GenID:         node,
			Clock:         clk,
			Repo:          repository.Provide(),
			ClientRepo:    clientrepo.Provide(),
			CatalogRepo:   catalogrepo.Provide(),
			FollowUpRepo:  followuprepo.Provide(),
			SpaceRepo:     spacerepo.Provide(),
			FinancialRepo: financialrepo.Provide(),
		}).(*Service),
	}

	now := clk.Now()
	f.client = clientdomain.Client{ID: node.Generate(), CompanyID: companyID, Name: "Marcos Lima", Whatsapp: "11955554444", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Omit("Vehicles").Create(&f.client).Error)
	f.vehicle = clientdomain.Vehicle{ID: node.Generate(), CompanyID: companyID, ClientID: f.client.ID, Type: clientdomain.VehicleCar, Plate: "QWE4R56", Brand: "VW", Model: "Gol", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Create(&f.vehicle).Error)
	return f
}

func (f fixture) service(t *testing.T, name string, priceCents int64, followUpDays int) catalogdomain.CatalogItem {
	t.Helper()
	now := f.clock.Now()
	item := catalogdomain.CatalogItem{
		ID:        f.node.Generate(),
		CompanyID: f.companyID,
		Name:      name,
		BasePrice: money.FromCents(priceCents),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if followUpDays > 0 {
		days := followUpDays
		item.FollowUpEnabled = true
		item.FollowUpDays = &days
	}
	require.NoError(t, f.db.Create(&item).Error)
	return item
}

func (f fixture) simpleOrder(t *testing.T, service catalogdomain.CatalogItem) domain.WorkOrder {
	t.Helper()
	order, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		Itens: []domain.ItemInput{{
			ServicoID:     service.ID.String(),
			Quantidade:    1,
			PrecoUnitario: service.BasePrice,
		}},
	})
	require.NoError(t, err)
	return order
}

func TestCreateComputesTotalsAndCompletionGeneratesFollowUp(t *testing.T) {
	f := newFixture(t)
	serviceA := f.service(t, "Lavagem simples", 10000, 0)
	serviceB := f.service(t, "Higienização", 5000, 2)

	order, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		VeiculoID: f.vehicle.ID.String(),
		Itens: []domain.ItemInput{
			{ServicoID: serviceA.ID.String(), Quantidade: 1, PrecoUnitario: money.FromCents(10000)},
			{ServicoID: serviceB.ID.String(), Quantidade: 2, PrecoUnitario: money.FromCents(5000), Desconto: money.FromCents(1000)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, money.FromCents(20000), order.TotalGross)
	assert.Equal(t, money.FromCents(1000), order.DiscountTotal)
	assert.Equal(t, money.FromCents(19000), order.TotalNet)
	assert.Equal(t, domain.StatusBudget, order.Status)
	assert.Equal(t, int64(1), order.Sequential)
	assert.Nil(t, order.ClosedAt)
	require.NotNil(t, order.ResponsibleID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, money.FromCents(10000), order.Items[0].Total)
	assert.Equal(t, money.FromCents(9000), order.Items[1].Total)
	require.NotNil(t, order.Items[1].Service)
	assert.Equal(t, "Higienização", order.Items[1].Service.Name)
	require.NotNil(t, order.Client)
	assert.Equal(t, "Marcos Lima", order.Client.Name)
	require.NotNil(t, order.Vehicle)
	assert.Equal(t, "QWE4R56", order.Vehicle.Plate)

	f.clock.Advance(3 * time.Hour)
	completedAt := f.clock.Now()
	completed, err := f.svc.UpdateStatus(f.ctx, order.ID.String(), domain.UpdateStatusRequest{Status: domain.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	require.NotNil(t, completed.ClosedAt)
	assert.Equal(t, completedAt, completed.ClosedAt.UTC())
	assert.False(t, completed.ClosedAt.Before(completed.OpenedAt))

	followUps, err := f.svc.followUpRepo.ListByWorkOrder(f.ctx, f.db, f.companyID, order.ID)
	require.NoError(t, err)
	require.Len(t, followUps, 1)
	assert.Equal(t, completedAt.Add(48*time.Hour), followUps[0].ContactAt.UTC())
	assert.Equal(t, followupdomain.StatusPending, followUps[0].Status)
	require.NotNil(t, followUps[0].ServiceID)
	assert.Equal(t, serviceB.ID, *followUps[0].ServiceID)
	assert.Equal(t, f.client.ID, followUps[0].ClientID)
}

func TestCompletionCreatesOneFollowUpPerEligibleItem(t *testing.T) {
	f := newFixture(t)
	threeDays := f.service(t, "Polimento", 30000, 3)
	sevenDays := f.service(t, "Vitrificação", 90000, 7)
	plain := f.service(t, "Aspiração", 2000, 0)

	order, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		Status:    domain.StatusInProgress,
		Itens: []domain.ItemInput{
			{ServicoID: threeDays.ID.String(), Quantidade: 1, PrecoUnitario: threeDays.BasePrice},
			{ServicoID: sevenDays.ID.String(), Quantidade: 1, PrecoUnitario: sevenDays.BasePrice},
			{ServicoID: plain.ID.String(), Quantidade: 1, PrecoUnitario: plain.BasePrice},
		},
	})
	require.NoError(t, err)

	now := f.clock.Now()
	_, err = f.svc.UpdateStatus(f.ctx, order.ID.String(), domain.UpdateStatusRequest{Status: domain.StatusCompleted})
	require.NoError(t, err)

	detail, err := f.svc.Get(f.ctx, order.ID.String())
	require.NoError(t, err)
	require.Len(t, detail.FollowUps, 2)
	assert.Equal(t, now.Add(3*24*time.Hour), detail.FollowUps[0].ContactAt.UTC())
	assert.Equal(t, now.Add(7*24*time.Hour), detail.FollowUps[1].ContactAt.UTC())

	// No idempotence guard: completing again duplicates the reminders.
	_, err = f.svc.UpdateStatus(f.ctx, order.ID.String(), domain.UpdateStatusRequest{Status: domain.StatusOpen})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(f.ctx, order.ID.String(), domain.UpdateStatusRequest{Status: domain.StatusCompleted})
	require.NoError(t, err)
	followUps, err := f.svc.followUpRepo.ListByWorkOrder(f.ctx, f.db, f.companyID, order.ID)
	require.NoError(t, err)
	assert.Len(t, followUps, 4)
}

func TestStatusChangeOutsideCompletionKeepsClosedAt(t *testing.T) {
	f := newFixture(t)
	order := f.simpleOrder(t, f.service(t, "Lavagem", 6000, 0))

	opened, err := f.svc.UpdateStatus(f.ctx, order.ID.String(), domain.UpdateStatusRequest{Status: domain.StatusOpen})
	require.NoError(t, err)
	assert.Nil(t, opened.ClosedAt)

	completed, err := f.svc.UpdateStatus(f.ctx, order.ID.String(), domain.UpdateStatusRequest{Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, completed.ClosedAt)
	closedAt := completed.ClosedAt.UTC()

	f.clock.Advance(time.Hour)
	canceled, err := f.svc.UpdateStatus(f.ctx, order.ID.String(), domain.UpdateStatusRequest{Status: domain.StatusCanceled})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, canceled.Status)
	require.NotNil(t, canceled.ClosedAt)
	assert.Equal(t, closedAt, canceled.ClosedAt.UTC())

	_, err = f.svc.UpdateStatus(f.ctx, order.ID.String(), domain.UpdateStatusRequest{Status: "DONE"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(f.ctx, f.node.Generate().String(), domain.UpdateStatusRequest{Status: domain.StatusOpen})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSequentialIsPerCompanyAndNeverReused(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)

	first := f.simpleOrder(t, wash)
	second := f.simpleOrder(t, wash)
	third := f.simpleOrder(t, wash)
	assert.Equal(t, []int64{1, 2, 3}, []int64{first.Sequential, second.Sequential, third.Sequential})

	require.NoError(t, f.svc.Delete(f.ctx, third.ID.String()))
	fourth := f.simpleOrder(t, wash)
	assert.Equal(t, int64(4), fourth.Sequential)

	// A row written around the counter is skipped, not collided with.
	now := f.clock.Now()
	stray := domain.WorkOrder{ID: f.node.Generate(), CompanyID: f.companyID, Sequential: 5, ClientID: f.client.ID, Status: domain.StatusOpen, OpenedAt: now, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Omit(clause.Associations).Create(&stray).Error)
	sixth := f.simpleOrder(t, wash)
	assert.Equal(t, int64(6), sixth.Sequential)

	// Another tenant starts its own numbering.
	otherCompany := f.node.Generate()
	otherCtx := orgcontext.WithCompanyID(context.Background(), otherCompany)
	otherClient := clientdomain.Client{ID: f.node.Generate(), CompanyID: otherCompany, Name: "Outra", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Omit("Vehicles").Create(&otherClient).Error)
	otherService := catalogdomain.CatalogItem{ID: f.node.Generate(), CompanyID: otherCompany, Name: "Lavagem", BasePrice: money.FromCents(5000), Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(&otherService).Error)

	order, err := f.svc.Create(otherCtx, domain.CreateWorkOrderRequest{
		ClienteID: otherClient.ID.String(),
		Itens:     []domain.ItemInput{{ServicoID: otherService.ID.String(), Quantidade: 1, PrecoUnitario: otherService.BasePrice}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.Sequential)
}

func TestCreateRejectsForeignReferencesAndPersistsNothing(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)

	_, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		Itens: []domain.ItemInput{
			{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice},
			{ServicoID: f.node.Generate().String(), Quantidade: 1, PrecoUnitario: wash.BasePrice},
		},
	})
	assert.ErrorIs(t, err, catalogdomain.ErrForeignService)

	// Duplicate ids fail the count match as well.
	_, err = f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		Itens: []domain.ItemInput{
			{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice},
			{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice},
		},
	})
	assert.ErrorIs(t, err, catalogdomain.ErrForeignService)

	_, err = f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.node.Generate().String(),
		Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1}},
	})
	assert.ErrorIs(t, err, clientdomain.ErrNotFound)

	_, err = f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		VeiculoID: f.node.Generate().String(),
		Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1}},
	})
	assert.ErrorIs(t, err, clientdomain.ErrVehicleNotFound)

	for _, model := range []any{&domain.WorkOrder{}, &domain.WorkOrderItem{}, &domain.Payment{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)
	base := func() domain.CreateWorkOrderRequest {
		return domain.CreateWorkOrderRequest{
			ClienteID: f.client.ID.String(),
			Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice}},
		}
	}

	req := base()
	req.Itens = nil
	_, err := f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidItems)

	req = base()
	req.Itens[0].Quantidade = 0
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req = base()
	req.Itens[0].Desconto = money.FromCents(-1)
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	req = base()
	req.Status = "ARCHIVED"
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	req = base()
	req.Pagamentos = []domain.PaymentInput{{Metodo: "CHEQUE", Valor: money.FromCents(100)}}
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = f.svc.Create(context.Background(), base())
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestCreateWithPaymentsAndAddPayment(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)
	paidAt := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	opened := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	installment, of := 1, 2

	order, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID:        f.client.ID.String(),
		FormaRecebimento: "PARCELADO",
		DataAbertura:     &opened,
		Itens:            []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 2, PrecoUnitario: wash.BasePrice}},
		Pagamentos: []domain.PaymentInput{
			{Metodo: domain.MethodCredit, Valor: money.FromCents(6000), DataPagamento: &paidAt, NumeroParcela: &installment, TotalParcelas: &of},
			{Metodo: domain.MethodPix, Valor: money.FromCents(1000)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, opened, order.OpenedAt.UTC())
	assert.Equal(t, "PARCELADO", order.PaymentTerm)
	require.Len(t, order.Payments, 2)
	assert.Equal(t, paidAt, order.Payments[0].PaidAt.UTC())
	assert.Equal(t, f.clock.Now(), order.Payments[1].PaidAt.UTC())
	assert.Equal(t, f.companyID, order.Payments[0].CompanyID)

	payment, err := f.svc.AddPayment(f.ctx, order.ID.String(), domain.PaymentInput{Metodo: domain.MethodCash, Valor: money.FromCents(5000)})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), payment.PaidAt)
	require.NotNil(t, payment.WorkOrderID)
	assert.Equal(t, order.ID, *payment.WorkOrderID)

	reloaded, err := f.svc.Get(f.ctx, order.ID.String())
	require.NoError(t, err)
	assert.Len(t, reloaded.Payments, 3)
	assert.Equal(t, order.TotalNet, reloaded.TotalNet)
	assert.Equal(t, order.Status, reloaded.Status)

	_, err = f.svc.AddPayment(f.ctx, f.node.Generate().String(), domain.PaymentInput{Metodo: domain.MethodCash, Valor: money.FromCents(5000)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.AddPayment(f.ctx, order.ID.String(), domain.PaymentInput{Metodo: domain.MethodCash})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 1)

	completed := f.simpleOrder(t, wash)
	_, err := f.svc.UpdateStatus(f.ctx, completed.ID.String(), domain.UpdateStatusRequest{Status: domain.StatusCompleted})
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Delete(f.ctx, completed.ID.String()), domain.ErrCompletedImmutable)

	budget := f.simpleOrder(t, wash)
	_, err = f.svc.AddPayment(f.ctx, budget.ID.String(), domain.PaymentInput{Metodo: domain.MethodPix, Valor: money.FromCents(1000)})
	require.NoError(t, err)

	now := f.clock.Now()
	occupation := spacedomain.SpaceOccupation{ID: f.node.Generate(), CompanyID: f.companyID, SpaceID: f.node.Generate(), WorkOrderID: &budget.ID, StartedAt: now, Status: spacedomain.OccupationInProgress, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Omit(clause.Associations).Create(&occupation).Error)
	receivable := financialdomain.AccountReceivable{ID: f.node.Generate(), CompanyID: f.companyID, WorkOrderID: &budget.ID, Expected: money.FromCents(6000), ExpectedDate: now, Status: financialdomain.StatusPending, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Omit(clause.Associations).Create(&receivable).Error)

	require.NoError(t, f.svc.Delete(f.ctx, budget.ID.String()))

	_, err = f.svc.Get(f.ctx, budget.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	var count int64
	require.NoError(t, f.db.Model(&domain.WorkOrderItem{}).Where("work_order_id = ?", budget.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&domain.Payment{}).Where("work_order_id = ?", budget.ID).Count(&count).Error)
	assert.Zero(t, count)

	var storedOccupation spacedomain.SpaceOccupation
	require.NoError(t, f.db.Where("id = ?", occupation.ID).First(&storedOccupation).Error)
	assert.Nil(t, storedOccupation.WorkOrderID)
	var storedReceivable financialdomain.AccountReceivable
	require.NoError(t, f.db.Where("id = ?", receivable.ID).First(&storedReceivable).Error)
	assert.Nil(t, storedReceivable.WorkOrderID)

	assert.ErrorIs(t, f.svc.Delete(f.ctx, budget.ID.String()), domain.ErrNotFound)
}

func TestListSearchesAndFilters(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)

	first, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		VeiculoID: f.vehicle.ID.String(),
		Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice}},
	})
	require.NoError(t, err)

	now := f.clock.Now()
	other := clientdomain.Client{ID: f.node.Generate(), CompanyID: f.companyID, Name: "Joana", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Omit("Vehicles").Create(&other).Error)
	f.clock.Advance(time.Minute)
	second, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: other.ID.String(),
		Status:    domain.StatusOpen,
		Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice}},
	})
	require.NoError(t, err)

	page, err := f.svc.List(f.ctx, domain.ListWorkOrderRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, second.ID, page.Data[0].ID)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.Equal(t, 20, page.Meta.PerPage)

	byName, err := f.svc.List(f.ctx, domain.ListWorkOrderRequest{Search: "MARCOS"})
	require.NoError(t, err)
	require.Len(t, byName.Data, 1)
	assert.Equal(t, first.ID, byName.Data[0].ID)

	byPlate, err := f.svc.List(f.ctx, domain.ListWorkOrderRequest{Search: "qwe4"})
	require.NoError(t, err)
	require.Len(t, byPlate.Data, 1)
	assert.Equal(t, first.ID, byPlate.Data[0].ID)

	bySequential, err := f.svc.List(f.ctx, domain.ListWorkOrderRequest{Search: "2"})
	require.NoError(t, err)
	require.Len(t, bySequential.Data, 1)
	assert.Equal(t, second.ID, bySequential.Data[0].ID)

	byStatus, err := f.svc.List(f.ctx, domain.ListWorkOrderRequest{Status: domain.StatusOpen})
	require.NoError(t, err)
	require.Len(t, byStatus.Data, 1)
	assert.Equal(t, second.ID, byStatus.Data[0].ID)
}

func TestComputeTotals(t *testing.T) {
	totals, lines, err := domain.ComputeTotals([]domain.ItemInput{
		{Quantidade: 3, PrecoUnitario: money.FromCents(3333)},
		{Quantidade: 1, PrecoUnitario: money.FromCents(50), Desconto: money.FromCents(50)},
	})
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(10049), totals.Gross)
	assert.Equal(t, money.FromCents(50), totals.Discount)
	assert.Equal(t, money.FromCents(9999), totals.Net)
	assert.Equal(t, []money.Amount{money.FromCents(9999), 0}, lines)

	_, _, err = domain.ComputeTotals([]domain.ItemInput{
		{Quantidade: 1 << 40, PrecoUnitario: money.FromCents(100_000_000)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, _, err = domain.ComputeTotals([]domain.ItemInput{
		{Quantidade: 1, PrecoUnitario: money.FromCents(math.MaxInt64)},
		{Quantidade: 1, PrecoUnitario: money.FromCents(1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, _, err = domain.ComputeTotals([]domain.ItemInput{
		{Quantidade: 1, PrecoUnitario: money.FromCents(10), Desconto: money.FromCents(math.MaxInt64)},
		{Quantidade: 1, PrecoUnitario: money.FromCents(10), Desconto: money.FromCents(1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestCreateRejectsAmountsOutsideCentRange(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)

	_, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1 << 40, PrecoUnitario: money.FromCents(100_000_000)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	var count int64
	require.NoError(t, f.db.Model(&domain.WorkOrder{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConcurrentCreatesGetDistinctSequentials(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)
	const workers = 20

	var wg sync.WaitGroup
	sequentials := make([]int64, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
				ClienteID: f.client.ID.String(),
				Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice}},
			})
			sequentials[i], errs[i] = order.Sequential, err
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, workers)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[sequentials[i]], "sequential %d handed out twice", sequentials[i])
		seen[sequentials[i]] = true
	}
	for n := int64(1); n <= workers; n++ {
		assert.True(t, seen[n], "sequential %d missing", n)
	}
}

func TestCreateRollsBackWhenALaterInsertFails(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)
	require.NoError(t, f.db.Migrator().DropTable(&domain.Payment{}))

	_, err := f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID:  f.client.ID.String(),
		Itens:      []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 2, PrecoUnitario: wash.BasePrice}},
		Pagamentos: []domain.PaymentInput{{Metodo: domain.MethodPix, Valor: money.FromCents(12000)}},
	})
	require.Error(t, err)

	for _, model := range []any{&domain.WorkOrder{}, &domain.WorkOrderItem{}, &domain.WorkOrderSequence{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}

	// The failed attempt consumed no number.
	require.NoError(t, f.db.AutoMigrate(&domain.Payment{}))
	assert.Equal(t, int64(1), f.simpleOrder(t, wash).Sequential)
}

func TestMalformedIDsResolveAsUnknown(t *testing.T) {
	f := newFixture(t)
	wash := f.service(t, "Lavagem", 6000, 0)

	_, err := f.svc.Get(f.ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.UpdateStatus(f.ctx, "abc", domain.UpdateStatusRequest{Status: domain.StatusOpen})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(f.ctx, "0"), domain.ErrNotFound)

	_, err = f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		Itens:     []domain.ItemInput{{ServicoID: "not-a-service", Quantidade: 1, PrecoUnitario: wash.BasePrice}},
	})
	assert.ErrorIs(t, err, catalogdomain.ErrForeignService)

	_, err = f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: "x",
		Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice}},
	})
	assert.ErrorIs(t, err, clientdomain.ErrNotFound)

	_, err = f.svc.Create(f.ctx, domain.CreateWorkOrderRequest{
		ClienteID: f.client.ID.String(),
		VeiculoID: "x",
		Itens:     []domain.ItemInput{{ServicoID: wash.ID.String(), Quantidade: 1, PrecoUnitario: wash.BasePrice}},
	})
	assert.ErrorIs(t, err, clientdomain.ErrVehicleNotFound)
}
