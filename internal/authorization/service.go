package authorization

import (
	"context"
	"errors"
)

type Service interface {
	// Authorize checks actor ("user:<id>" or "system") against object/action
	// inside the company. Roles are read from the users table on every call.
	Authorize(ctx context.Context, actor string, companyID string, object string, action string) error
}

var (
	ErrInvalidActor        = errors.New("invalid_actor")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidObject       = errors.New("invalid_object")
	ErrInvalidAction       = errors.New("invalid_action")
	ErrForbidden           = errors.New("forbidden")
)
