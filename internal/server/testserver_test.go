package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	appointmentrepository "github.com/smallbiznis/washdesk/internal/appointment/repository"
	appointmentservice "github.com/smallbiznis/washdesk/internal/appointment/service"
	auditrepository "github.com/smallbiznis/washdesk/internal/audit/repository"
	auditservice "github.com/smallbiznis/washdesk/internal/audit/service"
	authservice "github.com/smallbiznis/washdesk/internal/auth/service"
	"github.com/smallbiznis/washdesk/internal/auth/token"
	"github.com/smallbiznis/washdesk/internal/authorization"
	catalogrepository "github.com/smallbiznis/washdesk/internal/catalog/repository"
	catalogservice "github.com/smallbiznis/washdesk/internal/catalog/service"
	clientrepository "github.com/smallbiznis/washdesk/internal/client/repository"
	clientservice "github.com/smallbiznis/washdesk/internal/client/service"
	"github.com/smallbiznis/washdesk/internal/clock"
	companyrepository "github.com/smallbiznis/washdesk/internal/company/repository"
	companyservice "github.com/smallbiznis/washdesk/internal/company/service"
	"github.com/smallbiznis/washdesk/internal/config"
	dashboardservice "github.com/smallbiznis/washdesk/internal/dashboard/service"
	financialrepository "github.com/smallbiznis/washdesk/internal/financial/repository"
	financialservice "github.com/smallbiznis/washdesk/internal/financial/service"
	followuprepository "github.com/smallbiznis/washdesk/internal/followup/repository"
	followupservice "github.com/smallbiznis/washdesk/internal/followup/service"
	"github.com/smallbiznis/washdesk/internal/migration"
	"github.com/smallbiznis/washdesk/internal/observability"
	onboardingrepository "github.com/smallbiznis/washdesk/internal/onboarding/repository"
	onboardingservice "github.com/smallbiznis/washdesk/internal/onboarding/service"
	spacerepository "github.com/smallbiznis/washdesk/internal/space/repository"
	spaceservice "github.com/smallbiznis/washdesk/internal/space/service"
	userrepository "github.com/smallbiznis/washdesk/internal/user/repository"
	userservice "github.com/smallbiznis/washdesk/internal/user/service"
	workorderrepository "github.com/smallbiznis/washdesk/internal/workorder/repository"
	workorderservice "github.com/smallbiznis/washdesk/internal/workorder/service"
	"github.com/smallbiznis/washdesk/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	*Server
	clock *clock.FakeClock
}

// NewTestServer wires every service against a private in-memory database.
func NewTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := db.NewTest(t, migration.Models()...)
	log := zap.NewNop()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC))

	cfg := config.Config{
		AppName:          "washdesk",
		Environment:      "test",
		BusinessTimezone: "UTC",
		Auth: config.AuthConfig{
			JWTSecret:        "test-access-secret",
			JWTRefreshSecret: "test-refresh-secret",
			AccessTTL:        15 * time.Minute,
			RefreshTTL:       24 * time.Hour,
		},
	}

	tokens, err := token.NewManager(cfg, clk, log)
	require.NoError(t, err)

	enforcer, err := authorization.NewEnforcer(conn)
	require.NoError(t, err)

	auditSvc := auditservice.NewService(auditservice.Params{
		DB: conn, Log: log, GenID: node, Clock: clk, Repo: auditrepository.Provide(),
	})
	authzSvc := authorization.NewService(authorization.Params{
		DB: conn, Log: log, Enforcer: enforcer, AuditSvc: auditSvc,
	})

	companyRepo := companyrepository.Provide()
	userRepo := userrepository.Provide()
	clientRepo := clientrepository.Provide()
	catalogRepo := catalogrepository.Provide()
	followUpRepo := followuprepository.Provide()
	spaceRepo := spacerepository.Provide()
	financialRepo := financialrepository.Provide()
	workOrderRepo := workorderrepository.Provide()

	srv := NewServer(ServerParams{
		Gin:      NewEngine(observability.Config{}, nil),
		Cfg:      cfg,
		Log:      log,
		Tokens:   tokens,
		AuthzSvc: authzSvc,
		AuditSvc: auditSvc,
		AuthSvc: authservice.New(authservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Tokens: tokens,
			UserRepo: userRepo, CompanyRepo: companyRepo, AuditSvc: auditSvc,
		}),
		CompanySvc: companyservice.New(companyservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: companyRepo, AuditSvc: auditSvc,
		}),
		OnboardingSvc: onboardingservice.New(onboardingservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: onboardingrepository.Provide(),
		}),
		UserSvc: userservice.New(userservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: userRepo, AuditSvc: auditSvc,
		}),
		ClientSvc: clientservice.New(clientservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: clientRepo,
		}),
		CatalogSvc: catalogservice.New(catalogservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: catalogRepo,
		}),
		AppointmentSvc: appointmentservice.New(appointmentservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Config: cfg,
			Repo: appointmentrepository.Provide(), ClientRepo: clientRepo, CatalogRepo: catalogRepo,
		}),
		SpaceSvc: spaceservice.New(spaceservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Config: cfg, Repo: spaceRepo, AuditSvc: auditSvc,
		}),
		FollowUpSvc: followupservice.New(followupservice.Params{
			DB: conn, Log: log, Clock: clk, Config: cfg, Repo: followUpRepo,
		}),
		WorkOrderSvc: workorderservice.New(workorderservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk,
			Repo: workOrderRepo, ClientRepo: clientRepo, CatalogRepo: catalogRepo,
			FollowUpRepo: followUpRepo, SpaceRepo: spaceRepo, FinancialRepo: financialRepo,
			AuditSvc: auditSvc,
		}),
		FinancialSvc: financialservice.New(financialservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Config: cfg, Repo: financialRepo,
		}),
		DashboardSvc: dashboardservice.New(dashboardservice.Params{
			DB: conn, Log: log, Clock: clk, Config: cfg,
			CompanyRepo: companyRepo, WorkOrderRepo: workOrderRepo, FinancialRepo: financialRepo,
			SpaceRepo: spaceRepo, FollowUpRepo: followUpRepo,
		}),
	})

	return &testServer{Server: srv, clock: clk}
}

func (ts *testServer) do(t *testing.T, method, path, accessToken string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	rec := httptest.NewRecorder()
	ts.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type authSession struct {
	CompanyID    string
	AccessToken  string
	RefreshToken string
}

// bootstrapOwner creates a company and registers its owner.
func (ts *testServer) bootstrapOwner(t *testing.T) authSession {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/companies", "", map[string]any{
		"nomeFantasia": "Lava Rapido Central",
		"email":        "contato@central.test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	company := decode[struct {
		ID string `json:"id"`
	}](t, rec)
	require.NotEmpty(t, company.ID)

	rec = ts.do(t, http.MethodPost, "/auth/register-owner", "", map[string]any{
		"name":      "Maria Dona",
		"email":     "maria@central.test",
		"password":  "segredo123",
		"companyId": company.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode[struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}](t, rec)
	require.NotEmpty(t, result.AccessToken)

	return authSession{
		CompanyID:    company.ID,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
			Code  string `json:"code"`
		} `json:"errors"`
	} `json:"error"`
}
