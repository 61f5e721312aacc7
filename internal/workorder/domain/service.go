package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/smallbiznis/washdesk/pkg/money"
)

type ItemInput struct {
	ServicoID     string       `json:"servicoId"`
	Quantidade    int          `json:"quantidade"`
	PrecoUnitario money.Amount `json:"precoUnitario"`
	Desconto      money.Amount `json:"desconto"`
}

type PaymentInput struct {
	Metodo        PaymentMethod `json:"metodo"`
	Valor         money.Amount  `json:"valor"`
	DataPagamento *time.Time    `json:"dataPagamento"`
	NumeroParcela *int          `json:"numeroParcela"`
	TotalParcelas *int          `json:"totalParcelas"`
}

type CreateWorkOrderRequest struct {
	ClienteID        string         `json:"clienteId"`
	VeiculoID        string         `json:"veiculoId"`
	Itens            []ItemInput    `json:"itens"`
	Status           Status         `json:"status"`
	FormaRecebimento string         `json:"formaRecebimento"`
	DataAbertura     *time.Time     `json:"dataAbertura"`
	Pagamentos       []PaymentInput `json:"pagamentos"`
}

type ListWorkOrderRequest struct {
	pagination.Params
	Search string `form:"search"`
	Status Status `form:"status"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

type Service interface {
	Create(context.Context, CreateWorkOrderRequest) (WorkOrder, error)
	List(context.Context, ListWorkOrderRequest) (pagination.Page[WorkOrder], error)
	Get(ctx context.Context, id string) (WorkOrder, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (WorkOrder, error)
	AddPayment(ctx context.Context, id string, req PaymentInput) (Payment, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidItems        = errors.New("invalid_items")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidMethod       = errors.New("invalid_payment_method")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrNotFound            = errors.New("work_order_not_found")
	// ErrCompletedImmutable rejects deleting a COMPLETED order.
	ErrCompletedImmutable = errors.New("work_order_completed")
	ErrSequenceExhausted  = errors.New("work_order_sequence_conflict")
)
