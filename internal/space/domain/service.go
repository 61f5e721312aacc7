package domain

import (
	"context"
	"errors"
	"time"
)

type CreateSpaceRequest struct {
	Nome   string `json:"nome"`
	Tipo   string `json:"tipo"`
	Status string `json:"status"`
}

type UpdateSpaceRequest struct {
	Nome   *string `json:"nome"`
	Tipo   *string `json:"tipo"`
	Status *string `json:"status"`
}

type OpenOccupationRequest struct {
	SpaceID       string     `json:"spaceId"`
	WorkOrderID   string     `json:"workOrderId"`
	AppointmentID string     `json:"appointmentId"`
	ExpectedEndAt *time.Time `json:"expectedEndAt"`
}

type CloseOccupationRequest struct {
	EndedAt *time.Time `json:"endedAt"`
}

type Service interface {
	List(context.Context) ([]Space, error)
	Create(context.Context, CreateSpaceRequest) (Space, error)
	Update(ctx context.Context, id string, req UpdateSpaceRequest) (Space, error)
	Delete(ctx context.Context, id string) error
	OpenOccupation(context.Context, OpenOccupationRequest) (SpaceOccupation, error)
	CloseOccupation(ctx context.Context, id string, req CloseOccupationRequest) (SpaceOccupation, error)
	SummaryToday(context.Context) (TodaySummary, error)
	OccupationsToday(context.Context) ([]SpaceOccupation, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrNotFound            = errors.New("space_not_found")
	ErrOccupationNotFound  = errors.New("occupation_not_found")
	ErrWorkOrderNotFound   = errors.New("work_order_not_found")
	ErrAppointmentNotFound = errors.New("appointment_not_found")
	ErrSpaceOccupied       = errors.New("space_occupied")
	ErrOccupationClosed    = errors.New("occupation_closed")
)
