package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/catalog/domain"
	"github.com/smallbiznis/washdesk/internal/catalog/repository"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/smallbiznis/washdesk/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(Params{
		DB:    db.NewTest(t, &domain.CatalogItem{}),
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	}).(*Service)
}

func TestCreateDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := orgcontext.WithCompanyID(context.Background(), snowflake.ID(1))

	item, err := svc.Create(ctx, domain.CreateCatalogItemRequest{Nome: "Lavagem simples", PrecoBase: money.FromCents(5000)})
	require.NoError(t, err)
	assert.True(t, item.Active)
	assert.False(t, item.FollowUpEnabled)
	assert.False(t, item.GeneratesFollowUp())

	days := 30
	enabled := true
	inactive := false
	item, err = svc.Create(ctx, domain.CreateCatalogItemRequest{
		Nome: "Vitrificacao", PrecoBase: money.FromCents(120000), GeraPosVenda: &enabled, DiasFollowUp: &days, Ativo: &inactive,
	})
	require.NoError(t, err)
	assert.True(t, item.GeneratesFollowUp())

	stored, err := svc.Get(ctx, item.ID.String())
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, money.FromCents(120000), stored.BasePrice)

	_, err = svc.Create(ctx, domain.CreateCatalogItemRequest{Nome: "x", PrecoBase: money.FromCents(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestListFiltersActiveAndSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := orgcontext.WithCompanyID(context.Background(), snowflake.ID(1))
	off := false

	for _, req := range []domain.CreateCatalogItemRequest{
		{Nome: "Polimento", Categoria: "Estetica"},
		{Nome: "Higienizacao", Categoria: "Interna"},
		{Nome: "Cera", Categoria: "Estetica", Ativo: &off},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, domain.ListCatalogRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "Cera", page.Data[0].Name)

	on := true
	page, err = svc.List(ctx, domain.ListCatalogRequest{Search: "estetica", Active: &on})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Polimento", page.Data[0].Name)
}

func TestUpdateForeignServiceIsNotFound(t *testing.T) {
	svc := newTestService(t)
	item, err := svc.Create(orgcontext.WithCompanyID(context.Background(), snowflake.ID(1)), domain.CreateCatalogItemRequest{Nome: "Motor"})
	require.NoError(t, err)

	name := "Outro"
	_, err = svc.Update(orgcontext.WithCompanyID(context.Background(), snowflake.ID(2)), item.ID.String(), domain.UpdateCatalogItemRequest{Nome: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
