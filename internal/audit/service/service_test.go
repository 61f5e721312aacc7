package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	"github.com/smallbiznis/washdesk/internal/audit/repository"
	"github.com/smallbiznis/washdesk/internal/clock"
	obscontext "github.com/smallbiznis/washdesk/internal/observability/context"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()
	conn := db.NewTest(t, &auditdomain.AuditLog{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc.(*Service), fake
}

func TestAuditLogResolvesActorAndMasksMetadata(t *testing.T) {
	svc, fake := newTestService(t)

	companyID := snowflake.ID(42)
	userID := snowflake.ID(7)
	ctx := orgcontext.WithCompanyID(context.Background(), companyID)
	ctx = orgcontext.WithUser(ctx, orgcontext.User{ID: userID, Role: "OWNER"})
	ctx = obscontext.WithRequestID(ctx, "req-1")
	ctx = obscontext.WithRequestMeta(ctx, obscontext.RequestMeta{IPAddress: "10.0.0.1"})

	targetID := "99"
	require.NoError(t, svc.AuditLog(ctx, nil, "", nil, "user.created", "user", &targetID, map[string]any{
		"email": "operator@lavajato.com",
		"role":  "OPERATOR",
	}))

	page, err := svc.List(ctx, auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	entry := page.Data[0]
	assert.Equal(t, companyID, *entry.CompanyID)
	assert.Equal(t, "user", entry.ActorType)
	assert.Equal(t, userID.String(), *entry.ActorID)
	assert.Equal(t, "10.0.0.1", *entry.IPAddress)
	assert.Nil(t, entry.UserAgent)
	assert.Equal(t, "OPERATOR", entry.Metadata["role"])
	assert.Equal(t, "****.com", entry.Metadata["email"])
	assert.Equal(t, "req-1", entry.Metadata["request_id"])
	assert.True(t, fake.Now().Equal(entry.CreatedAt))
	assert.Equal(t, pagination.Meta{Page: 1, PerPage: 20, Total: 1}, page.Meta)
}

func TestAuditLogDefaultsToSystemActor(t *testing.T) {
	svc, _ := newTestService(t)

	companyID := snowflake.ID(42)
	require.NoError(t, svc.AuditLog(context.Background(), &companyID, "", nil, "company.seeded", "company", nil, nil))

	ctx := orgcontext.WithCompanyID(context.Background(), companyID)
	page, err := svc.List(ctx, auditdomain.ListAuditLogRequest{Action: "company.seeded"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "system", page.Data[0].ActorType)
	assert.Nil(t, page.Data[0].ActorID)
}

func TestAuditLogRejectsEmptyAction(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.AuditLog(context.Background(), nil, "", nil, " ", "user", nil, nil)
	assert.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}

func TestListRequiresCompany(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidOrganization)
}
