package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/auth/password"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/internal/user/domain"
	"github.com/smallbiznis/washdesk/internal/user/repository"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	return New(Params{
		DB:    db.NewTest(t, &domain.User{}),
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	}).(*Service), fake
}

func TestCreateUserDefaultsAndDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := orgcontext.WithCompanyID(context.Background(), snowflake.ID(77))

	created, err := svc.Create(ctx, domain.CreateUserRequest{
		Name:     "Joana",
		Email:    "Joana@Example.com",
		Password: "segredo",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, created.Role)
	assert.Equal(t, "joana@example.com", created.Email)
	assert.True(t, created.Active)
	assert.True(t, password.Verify("segredo", created.PasswordHash))

	_, err = svc.Create(ctx, domain.CreateUserRequest{Name: "Outra", Email: "joana@example.com", Password: "segredo"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Create(ctx, domain.CreateUserRequest{Name: "Curta", Email: "c@example.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	// Same email is fine in another company.
	other := orgcontext.WithCompanyID(context.Background(), snowflake.ID(78))
	_, err = svc.Create(other, domain.CreateUserRequest{Name: "Joana", Email: "joana@example.com", Password: "segredo"})
	assert.NoError(t, err)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := orgcontext.WithCompanyID(context.Background(), snowflake.ID(77))

	created, err := svc.Create(ctx, domain.CreateUserRequest{Name: "Caio", Email: "caio@example.com", Password: "primeira"})
	require.NoError(t, err)

	fake.Advance(time.Minute)
	newPassword := "segunda"
	manager := domain.RoleManager
	inactive := false
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateUserRequest{
		Password: &newPassword,
		Role:     &manager,
		Active:   &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)
	assert.False(t, updated.Active)
	assert.True(t, password.Verify("segunda", updated.PasswordHash))
	assert.False(t, password.Verify("primeira", updated.PasswordHash))

	_, err = svc.Update(orgcontext.WithCompanyID(context.Background(), snowflake.ID(99)), created.ID.String(), domain.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListUsersSearch(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := orgcontext.WithCompanyID(context.Background(), snowflake.ID(5))

	for _, name := range []string{"Ana Souza", "Bruno Lima", "Ana Paula"} {
		_, err := svc.Create(ctx, domain.CreateUserRequest{Name: name, Email: name[:3] + fake.Now().Format("150405") + "@x.com", Password: "segredo"})
		require.NoError(t, err)
		fake.Advance(time.Second)
	}

	page, err := svc.List(ctx, domain.ListUserRequest{Search: "ana"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Ana Paula", page.Data[0].Name)

	page, err = svc.List(ctx, domain.ListUserRequest{Params: pagination.Params{Page: 2, PerPage: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Meta.Total)
	assert.Len(t, page.Data, 1)
}
