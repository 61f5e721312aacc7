package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/washdesk/pkg/db/pagination"
)

type ListUserRequest struct {
	pagination.Params
	Search string `form:"search"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Whatsapp string `json:"whatsapp"`
	Role     Role   `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Whatsapp *string `json:"whatsapp"`
	Role     *Role   `json:"role"`
	Active   *bool   `json:"active"`
}

type Service interface {
	List(context.Context, ListUserRequest) (pagination.Page[User], error)
	Get(ctx context.Context, id string) (User, error)
	Create(context.Context, CreateUserRequest) (User, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (User, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidPassword     = errors.New("invalid_password")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrEmailTaken          = errors.New("email_taken")
	ErrNotFound            = errors.New("not_found")
)
