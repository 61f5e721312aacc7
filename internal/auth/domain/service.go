package domain

import (
	"context"
	"errors"
)

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID string `json:"companyId"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RegisterOwnerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID string `json:"companyId"`
	Phone     string `json:"phone"`
}

// AuthUser is the public view of the logged-in user.
type AuthUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CompanyID string `json:"companyId"`
	Role      string `json:"role"`
}

type AuthResult struct {
	User         AuthUser `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type Service interface {
	Login(context.Context, LoginRequest) (AuthResult, error)
	Refresh(context.Context, RefreshRequest) (AuthResult, error)
	RegisterOwner(context.Context, RegisterOwnerRequest) (AuthResult, error)
	// Me echoes the caller resolved from the access token.
	Me(context.Context) (AuthUser, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrCompanyNotFound    = errors.New("company_not_found")
	ErrOwnerExists        = errors.New("owner_already_registered")
	ErrEmailTaken         = errors.New("email_taken")
)
