package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/washdesk/pkg/db/pagination"
)

type ListClientRequest struct {
	pagination.Params
	Search string `form:"search"`
}

type CreateClientRequest struct {
	NomeCompleto string   `json:"nomeCompleto"`
	Whatsapp     string   `json:"whatsapp"`
	Telefone     string   `json:"telefone"`
	Email        string   `json:"email"`
	CpfCnpj      string   `json:"cpfCnpj"`
	Rua          string   `json:"rua"`
	Numero       string   `json:"numero"`
	Bairro       string   `json:"bairro"`
	Cidade       string   `json:"cidade"`
	UF           string   `json:"uf"`
	Cep          string   `json:"cep"`
	Observacoes  string   `json:"observacoes"`
	Tags         []string `json:"tags"`
}

type UpdateClientRequest struct {
	NomeCompleto *string  `json:"nomeCompleto"`
	Whatsapp     *string  `json:"whatsapp"`
	Telefone     *string  `json:"telefone"`
	Email        *string  `json:"email"`
	CpfCnpj      *string  `json:"cpfCnpj"`
	Rua          *string  `json:"rua"`
	Numero       *string  `json:"numero"`
	Bairro       *string  `json:"bairro"`
	Cidade       *string  `json:"cidade"`
	UF           *string  `json:"uf"`
	Cep          *string  `json:"cep"`
	Observacoes  *string  `json:"observacoes"`
	Tags         []string `json:"tags"`
}

type CreateVehicleRequest struct {
	Tipo        VehicleType `json:"tipo"`
	Placa       string      `json:"placa"`
	Marca       string      `json:"marca"`
	Modelo      string      `json:"modelo"`
	Ano         *int        `json:"ano"`
	Cor         string      `json:"cor"`
	Chassi      string      `json:"chassi"`
	Observacoes string      `json:"observacoes"`
}

type UpdateVehicleRequest struct {
	Tipo        *VehicleType `json:"tipo"`
	Placa       *string      `json:"placa"`
	Marca       *string      `json:"marca"`
	Modelo      *string      `json:"modelo"`
	Ano         *int         `json:"ano"`
	Cor         *string      `json:"cor"`
	Chassi      *string      `json:"chassi"`
	Observacoes *string      `json:"observacoes"`
}

type Service interface {
	List(context.Context, ListClientRequest) (pagination.Page[ClientListItem], error)
	Get(ctx context.Context, id string) (Client, error)
	Create(context.Context, CreateClientRequest) (Client, error)
	Update(ctx context.Context, id string, req UpdateClientRequest) (Client, error)

	ListVehicles(ctx context.Context, clientID string) ([]Vehicle, error)
	AddVehicle(ctx context.Context, clientID string, req CreateVehicleRequest) (Vehicle, error)
	UpdateVehicle(ctx context.Context, clientID, vehicleID string, req UpdateVehicleRequest) (Vehicle, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidVehicle      = errors.New("invalid_vehicle")
	ErrInvalidVehicleType  = errors.New("invalid_vehicle_type")
	ErrNotFound            = errors.New("client_not_found")
	ErrVehicleNotFound     = errors.New("vehicle_not_found")
)
