package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	"github.com/smallbiznis/washdesk/internal/auth/domain"
	"github.com/smallbiznis/washdesk/internal/auth/password"
	"github.com/smallbiznis/washdesk/internal/auth/token"
	"github.com/smallbiznis/washdesk/internal/clock"
	companydomain "github.com/smallbiznis/washdesk/internal/company/domain"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	userdomain "github.com/smallbiznis/washdesk/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Tokens      *token.Manager
	UserRepo    userdomain.Repository
	CompanyRepo companydomain.Repository
	AuditSvc    auditdomain.Service `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	tokens      *token.Manager
	userRepo    userdomain.Repository
	companyRepo companydomain.Repository
	auditSvc    auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("auth.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		tokens:      p.Tokens,
		userRepo:    p.UserRepo,
		companyRepo: p.CompanyRepo,
		auditSvc:    p.AuditSvc,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	user, err := s.findLoginUser(ctx, email, strings.TrimSpace(req.CompanyID))
	if err != nil {
		return domain.AuthResult{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	if password.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, req.Password)
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()),
	)
	return s.issue(*user)
}

// findLoginUser returns nil when the email is unknown, inactive, or ambiguous
// across companies without a company id to disambiguate.
func (s *Service) findLoginUser(ctx context.Context, email, rawCompanyID string) (*userdomain.User, error) {
	if rawCompanyID != "" {
		companyID, err := snowflake.ParseString(rawCompanyID)
		if err != nil || companyID == 0 {
			return nil, nil
		}
		user, err := s.userRepo.FindByEmail(ctx, s.db, companyID, email)
		if err != nil || user == nil || !user.Active {
			return nil, err
		}
		return user, nil
	}

	users, err := s.userRepo.FindActiveByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if len(users) != 1 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *Service) Refresh(ctx context.Context, req domain.RefreshRequest) (domain.AuthResult, error) {
	claims, err := s.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		return domain.AuthResult{}, domain.ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.AuthResult{}, domain.ErrInvalidToken
	}
	companyID, err := claims.Company()
	if err != nil {
		return domain.AuthResult{}, domain.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, s.db, companyID, userID)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if user == nil || !user.Active {
		return domain.AuthResult{}, domain.ErrInvalidToken
	}
	return s.issue(*user)
}

func (s *Service) RegisterOwner(ctx context.Context, req domain.RegisterOwnerRequest) (domain.AuthResult, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || !strings.Contains(email, "@") || len(req.Password) < password.MinLength {
		return domain.AuthResult{}, domain.ErrInvalidRequest
	}
	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil || companyID == 0 {
		return domain.AuthResult{}, domain.ErrInvalidRequest
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if company == nil {
		return domain.AuthResult{}, domain.ErrCompanyNotFound
	}

	hasOwner, err := s.userRepo.HasRole(ctx, s.db, companyID, userdomain.RoleOwner)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if hasOwner {
		return domain.AuthResult{}, domain.ErrOwnerExists
	}
	existing, err := s.userRepo.FindByEmail(ctx, s.db, companyID, email)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if existing != nil {
		return domain.AuthResult{}, domain.ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.AuthResult{}, domain.ErrInvalidRequest
	}

	now := s.clock.Now().UTC()
	owner := userdomain.User{
		ID:           s.genID.Generate(),
		CompanyID:    companyID,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         userdomain.RoleOwner,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Insert(ctx, s.db, &owner); err != nil {
		return domain.AuthResult{}, err
	}

	if s.auditSvc != nil {
		targetID := owner.ID.String()
		if err := s.auditSvc.AuditLog(ctx, &companyID, string(auditdomain.ActorTypeSystem), nil, "user.owner_registered", "user", &targetID, nil); err != nil {
			s.log.Warn("audit log failed", zap.Error(err))
		}
	}
	return s.issue(owner)
}

func (s *Service) Me(ctx context.Context) (domain.AuthUser, error) {
	user, ok := orgcontext.UserFromContext(ctx)
	if !ok {
		return domain.AuthUser{}, domain.ErrInvalidToken
	}
	companyID, _ := orgcontext.CompanyIDFromContext(ctx)
	return domain.AuthUser{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CompanyID: companyID.String(),
		Role:      user.Role,
	}, nil
}

func (s *Service) issue(user userdomain.User) (domain.AuthResult, error) {
	pair, err := s.tokens.Issue(token.Subject{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      string(user.Role),
		Email:     user.Email,
		Name:      user.Name,
	})
	if err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{
		User: domain.AuthUser{
			ID:        user.ID.String(),
			Name:      user.Name,
			Email:     user.Email,
			CompanyID: user.CompanyID.String(),
			Role:      string(user.Role),
		},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// rehash upgrades legacy bcrypt hashes; failure only costs another upgrade attempt later.
func (s *Service) rehash(ctx context.Context, user *userdomain.User, plain string) {
	hash, err := password.Hash(plain)
	if err != nil {
		return
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.clock.Now().UTC()
	if err := s.userRepo.Update(ctx, s.db, user); err != nil {
		s.log.Warn("password rehash failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}
