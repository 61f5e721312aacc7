package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/internal/space/domain"
	"github.com/smallbiznis/washdesk/internal/space/repository"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   *Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	ctx   context.Context
	order domain.WorkOrderRef
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))
	conn := db.NewTest(t,
		&clientdomain.Client{},
		&domain.WorkOrderRef{}, &domain.AppointmentRef{},
		&domain.Space{}, &domain.SpaceOccupation{},
	)
	companyID := node.Generate()
	f := fixture{
		db:    conn,
		node:  node,
		clock: clk,
		ctx:   orgcontext.WithCompanyID(context.Background(), companyID),
		svc: New(Params{
			DB:    conn,
			Log:   zap.NewNop(),
			GenID: node,
			Clock: clk,
			Repo:  repository.Provide(),
		}).(*Service),
	}

	now := clk.Now()
	client := clientdomain.Client{ID: node.Generate(), CompanyID: companyID, Name: "Carla", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Omit("Vehicles").Create(&client).Error)
	f.order = domain.WorkOrderRef{ID: node.Generate(), CompanyID: companyID, Sequential: 12, Status: "IN_PROGRESS", ClientID: client.ID}
	require.NoError(t, conn.Omit("Client").Create(&f.order).Error)
	return f
}

func TestSpaceCRUD(t *testing.T) {
	f := newFixture(t)

	box2, err := f.svc.Create(f.ctx, domain.CreateSpaceRequest{Nome: "Box 2", Tipo: "LAVAGEM"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSpaceStatus, box2.Status)
	_, err = f.svc.Create(f.ctx, domain.CreateSpaceRequest{Nome: "Box 1", Status: "MAINTENANCE"})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, domain.CreateSpaceRequest{Nome: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	spaces, err := f.svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, spaces, 2)
	assert.Equal(t, "Box 1", spaces[0].Name)
	assert.Equal(t, "MAINTENANCE", spaces[0].Status)

	renamed := "Box 3"
	updated, err := f.svc.Update(f.ctx, box2.ID.String(), domain.UpdateSpaceRequest{Nome: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "Box 3", updated.Name)
	assert.Equal(t, "LAVAGEM", updated.Type)

	other := orgcontext.WithCompanyID(context.Background(), f.node.Generate())
	_, err = f.svc.Update(other, box2.ID.String(), domain.UpdateSpaceRequest{Nome: &renamed})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.svc.Delete(f.ctx, box2.ID.String()))
	spaces, err = f.svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, spaces, 1)
}

func TestOccupationLifecycle(t *testing.T) {
	f := newFixture(t)
	box, err := f.svc.Create(f.ctx, domain.CreateSpaceRequest{Nome: "Box 1"})
	require.NoError(t, err)
	expected := f.clock.Now().Add(90 * time.Minute)

	occupation, err := f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{
		SpaceID:       box.ID.String(),
		WorkOrderID:   f.order.ID.String(),
		ExpectedEndAt: &expected,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OccupationInProgress, occupation.Status)
	assert.Equal(t, f.clock.Now(), occupation.StartedAt)

	assert.ErrorIs(t, f.svc.Delete(f.ctx, box.ID.String()), domain.ErrSpaceOccupied)

	_, err = f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: box.ID.String()})
	assert.ErrorIs(t, err, domain.ErrSpaceOccupied)

	_, err = f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: box.ID.String(), WorkOrderID: f.node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrWorkOrderNotFound)
	_, err = f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: box.ID.String(), AppointmentID: f.node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
	_, err = f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: f.node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	summary, err := f.svc.SummaryToday(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TodaySummary{TotalVagas: 1, Ocupadas: 1, Concluidas: 0}, summary)

	today, err := f.svc.OccupationsToday(f.ctx)
	require.NoError(t, err)
	require.Len(t, today, 1)
	require.NotNil(t, today[0].Space)
	assert.Equal(t, "Box 1", today[0].Space.Name)
	require.NotNil(t, today[0].WorkOrder)
	assert.Equal(t, int64(12), today[0].WorkOrder.Sequential)
	require.NotNil(t, today[0].WorkOrder.Client)
	assert.Equal(t, "Carla", today[0].WorkOrder.Client.Name)

	f.clock.Advance(time.Hour)
	closed, err := f.svc.CloseOccupation(f.ctx, occupation.ID.String(), domain.CloseOccupationRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.OccupationCompleted, closed.Status)
	require.NotNil(t, closed.EndedAt)
	assert.Equal(t, f.clock.Now(), *closed.EndedAt)

	_, err = f.svc.CloseOccupation(f.ctx, occupation.ID.String(), domain.CloseOccupationRequest{})
	assert.ErrorIs(t, err, domain.ErrOccupationClosed)

	summary, err = f.svc.SummaryToday(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TodaySummary{TotalVagas: 1, Ocupadas: 0, Concluidas: 1}, summary)

	// Next business day starts empty.
	f.clock.Advance(24 * time.Hour)
	summary, err = f.svc.SummaryToday(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TodaySummary{TotalVagas: 1}, summary)

	require.NoError(t, f.svc.Delete(f.ctx, box.ID.String()))
}

func TestCountOverdue(t *testing.T) {
	f := newFixture(t)
	box1, err := f.svc.Create(f.ctx, domain.CreateSpaceRequest{Nome: "Box 1"})
	require.NoError(t, err)
	box2, err := f.svc.Create(f.ctx, domain.CreateSpaceRequest{Nome: "Box 2"})
	require.NoError(t, err)
	expected := f.clock.Now().Add(30 * time.Minute)
	_, err = f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: box1.ID.String(), ExpectedEndAt: &expected})
	require.NoError(t, err)
	_, err = f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: box2.ID.String()})
	require.NoError(t, err)

	overdue, err := f.svc.repo.CountOverdue(f.ctx, f.db, f.clock.Now())
	require.NoError(t, err)
	assert.Zero(t, overdue)

	overdue, err = f.svc.repo.CountOverdue(f.ctx, f.db, f.clock.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), overdue)
}

func TestOpenOccupationAllowsReuseAfterClose(t *testing.T) {
	f := newFixture(t)
	box, err := f.svc.Create(f.ctx, domain.CreateSpaceRequest{Nome: "Box 1"})
	require.NoError(t, err)

	first, err := f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: box.ID.String()})
	require.NoError(t, err)
	_, err = f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: box.ID.String(), WorkOrderID: f.order.ID.String()})
	require.ErrorIs(t, err, domain.ErrSpaceOccupied)

	var open int64
	require.NoError(t, f.db.Model(&domain.SpaceOccupation{}).Where("space_id = ?", box.ID).Count(&open).Error)
	assert.Equal(t, int64(1), open)

	f.clock.Advance(20 * time.Minute)
	_, err = f.svc.CloseOccupation(f.ctx, first.ID.String(), domain.CloseOccupationRequest{})
	require.NoError(t, err)

	second, err := f.svc.OpenOccupation(f.ctx, domain.OpenOccupationRequest{SpaceID: box.ID.String()})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, domain.OccupationInProgress, second.Status)
}
