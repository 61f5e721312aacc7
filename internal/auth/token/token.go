package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"go.uber.org/zap"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	devSecret = "washdesk-dev-secret"
)

var ErrInvalidToken = errors.New("invalid_token")

// Claims is the JWT payload shared by access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"companyId"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Type      string `json:"typ"`
}

// Subject identifies who a token pair is minted for.
type Subject struct {
	UserID    snowflake.ID
	CompanyID snowflake.ID
	Role      string
	Email     string
	Name      string
}

type Pair struct {
	AccessToken  string
	RefreshToken string
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	clock         clock.Clock
}

func NewManager(cfg config.Config, clk clock.Clock, log *zap.Logger) (*Manager, error) {
	access := strings.TrimSpace(cfg.Auth.JWTSecret)
	refresh := strings.TrimSpace(cfg.Auth.JWTRefreshSecret)
	if access == "" {
		if cfg.IsProduction() {
			return nil, errors.New("AUTH_JWT_SECRET is required in production")
		}
		log.Warn("AUTH_JWT_SECRET not set, using development secret")
		access = devSecret
	}
	if refresh == "" {
		refresh = access
	}

	accessTTL := cfg.Auth.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 900 * time.Second
	}
	refreshTTL := cfg.Auth.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &Manager{
		accessSecret:  []byte(access),
		refreshSecret: []byte(refresh),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        cfg.AppName,
		clock:         clk,
	}, nil
}

func (m *Manager) Issue(subject Subject) (Pair, error) {
	access, err := m.sign(subject, TypeAccess, m.accessTTL, m.accessSecret)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(subject, TypeRefresh, m.refreshTTL, m.refreshSecret)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) ParseAccess(raw string) (*Claims, error) {
	return m.parse(raw, TypeAccess, m.accessSecret)
}

func (m *Manager) ParseRefresh(raw string) (*Claims, error) {
	return m.parse(raw, TypeRefresh, m.refreshSecret)
}

func (m *Manager) sign(subject Subject, typ string, ttl time.Duration, secret []byte) (string, error) {
	now := m.clock.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyID: subject.CompanyID.String(),
		Role:      subject.Role,
		Email:     subject.Email,
		Name:      subject.Name,
		Type:      typ,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (m *Manager) parse(raw, typ string, secret []byte) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != typ {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Claims) UserID() (snowflake.ID, error) {
	return parseID(c.Subject)
}

func (c *Claims) Company() (snowflake.ID, error) {
	return parseID(c.CompanyID)
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
