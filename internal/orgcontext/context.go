package orgcontext

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// CompanyContextKey is the request context key for the active company (tenant) ID.
type CompanyContextKey struct{}

type userContextKey struct{}

// User is the authenticated caller resolved from the access token.
type User struct {
	ID    snowflake.ID
	Role  string
	Email string
	Name  string
}

// WithCompanyID stores the company ID in the context.
func WithCompanyID(ctx context.Context, companyID snowflake.ID) context.Context {
	return context.WithValue(ctx, CompanyContextKey{}, companyID)
}

// CompanyIDFromContext returns the company ID from context, if set.
func CompanyIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(CompanyContextKey{}).(type) {
	case snowflake.ID:
		return typed, typed != 0
	case int64:
		return snowflake.ID(typed), typed != 0
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil && parsed != 0 {
			return parsed, true
		}
	}
	return 0, false
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	user, ok := ctx.Value(userContextKey{}).(User)
	if !ok || user.ID == 0 {
		return User{}, false
	}
	return user, true
}

// UserIDFromContext returns a pointer suitable for optional "responsible" columns.
func UserIDFromContext(ctx context.Context) *snowflake.ID {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil
	}
	id := user.ID
	return &id
}
