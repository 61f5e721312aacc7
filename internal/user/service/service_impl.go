package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	"github.com/smallbiznis/washdesk/internal/auth/password"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/internal/user/domain"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	AuditSvc auditdomain.Service         `optional:"true"`
	Business *config.BusinessConfigHolder `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	auditSvc auditdomain.Service
	business *config.BusinessConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("user.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
		business: p.Business,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListUserRequest) (pagination.Page[domain.User], error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return pagination.Page[domain.User]{}, domain.ErrInvalidOrganization
	}

	cfg := s.business.Get().Pagination
	page := req.Params.Normalize(cfg.DefaultPerPage, cfg.MaxPerPage)

	users, total, err := s.repo.List(ctx, s.db, companyID, req.Search, page)
	if err != nil {
		return pagination.Page[domain.User]{}, err
	}
	return pagination.NewPage(users, page, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.User{}, domain.ErrInvalidOrganization
	}
	userID, err := parseID(id)
	if err != nil {
		return domain.User{}, err
	}
	return s.load(ctx, companyID, userID)
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.User{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.User{}, domain.ErrInvalidName
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.User{}, err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleOperator
	}
	if !role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, companyID, email)
	if err != nil {
		return domain.User{}, err
	}
	if existing != nil {
		return domain.User{}, domain.ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.User{}, domain.ErrInvalidPassword
	}

	now := s.clock.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		CompanyID:    companyID,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Whatsapp:     strings.TrimSpace(req.Whatsapp),
		Role:         role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		return domain.User{}, err
	}

	s.audit(ctx, companyID, user.ID, "user.created", map[string]any{"role": string(user.Role)})
	return user, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (domain.User, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.User{}, domain.ErrInvalidOrganization
	}
	userID, err := parseID(id)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.load(ctx, companyID, userID)
	if err != nil {
		return domain.User{}, err
	}

	changed := make([]string, 0, 4)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.User{}, domain.ErrInvalidName
		}
		user.Name = name
		changed = append(changed, "name")
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return domain.User{}, err
		}
		if !strings.EqualFold(email, user.Email) {
			existing, err := s.repo.FindByEmail(ctx, s.db, companyID, email)
			if err != nil {
				return domain.User{}, err
			}
			if existing != nil {
				return domain.User{}, domain.ErrEmailTaken
			}
		}
		user.Email = email
		changed = append(changed, "email")
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return domain.User{}, domain.ErrInvalidPassword
		}
		user.PasswordHash = hash
		changed = append(changed, "password")
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
		changed = append(changed, "phone")
	}
	if req.Whatsapp != nil {
		user.Whatsapp = strings.TrimSpace(*req.Whatsapp)
		changed = append(changed, "whatsapp")
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return domain.User{}, domain.ErrInvalidRole
		}
		user.Role = *req.Role
		changed = append(changed, "role")
	}
	if req.Active != nil {
		user.Active = *req.Active
		changed = append(changed, "active")
	}

	if len(changed) == 0 {
		return user, nil
	}

	user.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, &user); err != nil {
		return domain.User{}, err
	}

	s.audit(ctx, companyID, user.ID, "user.updated", map[string]any{"fields": changed})
	return user, nil
}

func (s *Service) load(ctx context.Context, companyID, id snowflake.ID) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}

func (s *Service) audit(ctx context.Context, companyID, userID snowflake.ID, action string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	targetID := userID.String()
	if err := s.auditSvc.AuditLog(ctx, &companyID, "", nil, action, "user", &targetID, metadata); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}
