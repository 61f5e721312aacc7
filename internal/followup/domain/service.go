package domain

import (
	"context"
	"errors"
)

type ListFollowUpRequest struct {
	Start  string `form:"start"`
	End    string `form:"end"`
	Status Status `form:"status"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

type Service interface {
	List(context.Context, ListFollowUpRequest) ([]FollowUp, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (FollowUp, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrNotFound            = errors.New("follow_up_not_found")
)
