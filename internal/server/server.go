package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/washdesk/internal/appointment"
	appointmentdomain "github.com/smallbiznis/washdesk/internal/appointment/domain"
	"github.com/smallbiznis/washdesk/internal/audit"
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	"github.com/smallbiznis/washdesk/internal/auth"
	authdomain "github.com/smallbiznis/washdesk/internal/auth/domain"
	"github.com/smallbiznis/washdesk/internal/auth/token"
	"github.com/smallbiznis/washdesk/internal/authorization"
	"github.com/smallbiznis/washdesk/internal/catalog"
	catalogdomain "github.com/smallbiznis/washdesk/internal/catalog/domain"
	"github.com/smallbiznis/washdesk/internal/client"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
	"github.com/smallbiznis/washdesk/internal/company"
	companydomain "github.com/smallbiznis/washdesk/internal/company/domain"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/washdesk/internal/dashboard/domain"
	"github.com/smallbiznis/washdesk/internal/financial"
	financialdomain "github.com/smallbiznis/washdesk/internal/financial/domain"
	"github.com/smallbiznis/washdesk/internal/followup"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	"github.com/smallbiznis/washdesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/washdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/washdesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/washdesk/internal/observability/tracing"
	"github.com/smallbiznis/washdesk/internal/onboarding"
	onboardingdomain "github.com/smallbiznis/washdesk/internal/onboarding/domain"
	"github.com/smallbiznis/washdesk/internal/ratelimit"
	"github.com/smallbiznis/washdesk/internal/space"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	"github.com/smallbiznis/washdesk/internal/user"
	userdomain "github.com/smallbiznis/washdesk/internal/user/domain"
	"github.com/smallbiznis/washdesk/internal/workorder"
	workorderdomain "github.com/smallbiznis/washdesk/internal/workorder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	audit.Module,
	authorization.Module,
	auth.Module,
	company.Module,
	onboarding.Module,
	user.Module,
	client.Module,
	catalog.Module,
	appointment.Module,
	space.Module,
	followup.Module,
	workorder.Module,
	financial.Module,
	dashboard.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		SlowThreshold:   obsCfg.SlowRequest,
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// RunHTTP serves the engine for the lifetime of the fx app.
func RunHTTP(lc fx.Lifecycle, r *gin.Engine, s *Server, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if srv.Addr == "" {
		srv.Addr = ":8080"
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr), zap.Int("routes", len(s.Engine().Routes())))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	log            *zap.Logger
	tokens         *token.Manager
	loginLimiter   loginLimiter
	obsMetrics     *obsmetrics.Metrics
	authzSvc       authorization.Service
	auditSvc       auditdomain.Service
	authSvc        authdomain.Service
	companySvc     companydomain.Service
	onboardingSvc  onboardingdomain.Service
	userSvc        userdomain.Service
	clientSvc      clientdomain.Service
	catalogSvc     catalogdomain.Service
	appointmentSvc appointmentdomain.Service
	spaceSvc       spacedomain.Service
	followUpSvc    followupdomain.Service
	workOrderSvc   workorderdomain.Service
	financialSvc   financialdomain.Service
	dashboardSvc   dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	Tokens         *token.Manager
	LoginLimiter   *ratelimit.LoginLimiter `optional:"true"`
	ObsMetrics     *obsmetrics.Metrics     `optional:"true"`
	AuthzSvc       authorization.Service
	AuditSvc       auditdomain.Service
	AuthSvc        authdomain.Service
	CompanySvc     companydomain.Service
	OnboardingSvc  onboardingdomain.Service
	UserSvc        userdomain.Service
	ClientSvc      clientdomain.Service
	CatalogSvc     catalogdomain.Service
	AppointmentSvc appointmentdomain.Service
	SpaceSvc       spacedomain.Service
	FollowUpSvc    followupdomain.Service
	WorkOrderSvc   workorderdomain.Service
	FinancialSvc   financialdomain.Service
	DashboardSvc   dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("http.server"),
		tokens:         p.Tokens,
		obsMetrics:     p.ObsMetrics,
		authzSvc:       p.AuthzSvc,
		auditSvc:       p.AuditSvc,
		authSvc:        p.AuthSvc,
		companySvc:     p.CompanySvc,
		onboardingSvc:  p.OnboardingSvc,
		userSvc:        p.UserSvc,
		clientSvc:      p.ClientSvc,
		catalogSvc:     p.CatalogSvc,
		appointmentSvc: p.AppointmentSvc,
		spaceSvc:       p.SpaceSvc,
		followUpSvc:    p.FollowUpSvc,
		workOrderSvc:   p.WorkOrderSvc,
		financialSvc:   p.FinancialSvc,
		dashboardSvc:   p.DashboardSvc,
	}

	if p.LoginLimiter.Enabled() {
		svc.loginLimiter = p.LoginLimiter
	}

	svc.registerAuthRoutes()
	svc.registerPublicRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.LoginRateLimit(), s.Login)
	auth.POST("/refresh", s.Refresh)
	auth.POST("/register-owner", s.RegisterOwner)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerPublicRoutes() {
	s.engine.POST("/companies", s.CreateCompany)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/", s.AuthRequired())

	// -------- Company --------
	api.GET("/companies/me", s.GetCurrentCompany)
	api.PATCH("/companies/me", s.authorizeCompanyAction(authorization.ObjectCompany, authorization.ActionCompanyUpdate), s.UpdateCurrentCompany)

	api.GET("/onboarding/me", s.GetOnboarding)
	api.POST("/onboarding", s.UpsertOnboarding)

	// -------- Users --------
	api.GET("/users", s.ListUsers)
	api.GET("/users/:id", s.GetUserByID)
	api.POST("/users", s.authorizeCompanyAction(authorization.ObjectUser, authorization.ActionUserCreate), s.CreateUser)
	api.PATCH("/users/:id", s.authorizeCompanyAction(authorization.ObjectUser, authorization.ActionUserUpdate), s.UpdateUser)

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.GET("/clients/:id/vehicles", s.ListVehicles)
	api.POST("/clients/:id/vehicles", s.AddVehicle)
	api.PATCH("/clients/:id/vehicles/:vehicleId", s.UpdateVehicle)

	// -------- Services --------
	api.GET("/services", s.ListServices)
	api.POST("/services", s.CreateService)
	api.GET("/services/:id", s.GetServiceByID)
	api.PATCH("/services/:id", s.UpdateService)

	// -------- Appointments --------
	api.GET("/appointments", s.ListAppointments)
	api.POST("/appointments", s.CreateAppointment)
	api.PATCH("/appointments/:id", s.UpdateAppointment)

	// -------- Spaces --------
	api.GET("/spaces", s.ListSpaces)
	api.POST("/spaces", s.CreateSpace)
	api.PATCH("/spaces/:id", s.UpdateSpace)
	api.DELETE("/spaces/:id", s.DeleteSpace)
	api.POST("/spaces/occupations", s.OpenOccupation)
	api.PATCH("/spaces/occupations/:id/close", s.CloseOccupation)
	api.GET("/spaces/summary/today", s.GetSpaceSummaryToday)
	api.GET("/spaces/occupations/today", s.ListOccupationsToday)

	// -------- Follow-ups --------
	api.GET("/follow-ups", s.ListFollowUps)
	api.PATCH("/follow-ups/:id/status", s.UpdateFollowUpStatus)

	// -------- Work orders --------
	api.GET("/work-orders", s.ListWorkOrders)
	api.POST("/work-orders", s.CreateWorkOrder)
	api.GET("/work-orders/:id", s.GetWorkOrderByID)
	api.PATCH("/work-orders/:id/status", s.UpdateWorkOrderStatus)
	api.POST("/work-orders/:id/payments", s.AddWorkOrderPayment)
	api.DELETE("/work-orders/:id", s.DeleteWorkOrder)

	// -------- Financial --------
	api.GET("/financial/payables", s.ListPayables)
	api.POST("/financial/payables", s.CreatePayable)
	api.PATCH("/financial/payables/:id", s.UpdatePayable)
	api.GET("/financial/receivables", s.ListReceivables)
	api.POST("/financial/receivables", s.CreateReceivable)
	api.PATCH("/financial/receivables/:id", s.UpdateReceivable)
	api.GET("/financial/cashflow", s.GetCashflow)

	api.GET("/dashboard/overview", s.GetDashboardOverview)

	api.GET("/audit-logs", s.authorizeCompanyAction(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)
}
