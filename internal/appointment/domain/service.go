package domain

import (
	"context"
	"errors"
	"time"
)

type ListAppointmentRequest struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

type CreateAppointmentRequest struct {
	ClienteID      string    `json:"clienteId"`
	VeiculoID      string    `json:"veiculoId"`
	ServicoIDs     []string  `json:"servicoIds"`
	DataHoraInicio time.Time `json:"dataHoraInicio"`
	DataHoraFim    time.Time `json:"dataHoraFim"`
	Status         Status    `json:"status"`
	Origem         Origin    `json:"origem"`
	Observacoes    string    `json:"observacoes"`
	ResponsavelID  string    `json:"responsavelId"`
}

// UpdateAppointmentRequest replaces the service list only when ServicoIDs is non-nil.
type UpdateAppointmentRequest struct {
	ServicoIDs     []string   `json:"servicoIds"`
	DataHoraInicio *time.Time `json:"dataHoraInicio"`
	DataHoraFim    *time.Time `json:"dataHoraFim"`
	Status         *Status    `json:"status"`
	Observacoes    *string    `json:"observacoes"`
}

type Service interface {
	List(context.Context, ListAppointmentRequest) ([]Appointment, error)
	Create(context.Context, CreateAppointmentRequest) (Appointment, error)
	Update(ctx context.Context, id string, req UpdateAppointmentRequest) (Appointment, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidOrigin       = errors.New("invalid_origin")
	ErrNotFound            = errors.New("appointment_not_found")
)
