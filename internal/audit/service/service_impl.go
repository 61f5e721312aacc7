package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	"github.com/smallbiznis/washdesk/internal/audit/masking"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	obscontext "github.com/smallbiznis/washdesk/internal/observability/context"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     auditdomain.Repository
	Business *config.BusinessConfigHolder `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     auditdomain.Repository
	business *config.BusinessConfigHolder
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("audit.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		business: p.Business,
	}
}

// AuditLog must be called outside any open transaction; it writes on its own connection.
func (s *Service) AuditLog(ctx context.Context, companyID *snowflake.ID, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	targetType = strings.TrimSpace(targetType)
	if targetType == "" {
		targetType = "unknown"
	}

	resolvedActorType, resolvedActorID := s.resolveActor(ctx, strings.TrimSpace(actorType), actorID)

	payload := masking.MaskPersonal(metadata)
	if payload == nil {
		payload = map[string]any{}
	}
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}

	entry := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		CompanyID:  s.resolveCompanyID(ctx, companyID),
		ActorType:  resolvedActorType,
		ActorID:    resolvedActorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   normalizePointer(targetID),
		Metadata:   datatypes.JSONMap(payload),
		CreatedAt:  s.clock.Now().UTC(),
	}

	meta := obscontext.RequestMetaFromContext(ctx)
	entry.IPAddress = normalizePointer(&meta.IPAddress)
	entry.UserAgent = normalizePointer(&meta.UserAgent)

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (pagination.Page[auditdomain.AuditLog], error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return pagination.Page[auditdomain.AuditLog]{}, auditdomain.ErrInvalidOrganization
	}

	cfg := s.business.Get().Pagination
	page := req.Params.Normalize(cfg.DefaultPerPage, cfg.MaxPerPage)

	items, total, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		CompanyID:  companyID,
		Action:     req.Action,
		TargetType: req.TargetType,
	}, page)
	if err != nil {
		return pagination.Page[auditdomain.AuditLog]{}, err
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) resolveCompanyID(ctx context.Context, companyID *snowflake.ID) *snowflake.ID {
	if companyID != nil && *companyID != 0 {
		return companyID
	}
	resolved, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &resolved
}

func (s *Service) resolveActor(ctx context.Context, actorType string, actorID *string) (string, *string) {
	if actorType == "" {
		if user, ok := orgcontext.UserFromContext(ctx); ok && user.ID != 0 {
			actorType = string(auditdomain.ActorTypeUser)
			if normalizePointer(actorID) == nil {
				id := user.ID.String()
				actorID = &id
			}
		} else if ctxType, ctxID := obscontext.ActorFromContext(ctx); ctxType != "" {
			actorType = ctxType
			if normalizePointer(actorID) == nil && ctxID != "" {
				actorID = &ctxID
			}
		}
	}
	if actorType == "" {
		actorType = string(auditdomain.ActorTypeSystem)
	}
	return actorType, normalizePointer(actorID)
}

func normalizePointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
