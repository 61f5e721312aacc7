package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/smallbiznis/washdesk/pkg/money"
)

type ListRequest struct {
	pagination.Params
	Start  string `form:"start"`
	End    string `form:"end"`
	Status Status `form:"status"`
}

type CreatePayableRequest struct {
	Descricao      string          `json:"descricao"`
	Categoria      PayableCategory `json:"categoria"`
	ValorPrevisto  money.Amount    `json:"valorPrevisto"`
	DataVencimento time.Time       `json:"dataVencimento"`
	ValorPago      *money.Amount   `json:"valorPago"`
	DataPagamento  *time.Time      `json:"dataPagamento"`
	Fornecedor     string          `json:"fornecedor"`
	Status         *Status         `json:"status"`
}

type UpdatePayableRequest struct {
	Descricao      *string          `json:"descricao"`
	Categoria      *PayableCategory `json:"categoria"`
	ValorPrevisto  *money.Amount    `json:"valorPrevisto"`
	DataVencimento *time.Time       `json:"dataVencimento"`
	ValorPago      *money.Amount    `json:"valorPago"`
	DataPagamento  *time.Time       `json:"dataPagamento"`
	Fornecedor     *string          `json:"fornecedor"`
	Status         *Status          `json:"status"`
}

type CreateReceivableRequest struct {
	ClienteID       string        `json:"clienteId"`
	OsID            string        `json:"osId"`
	ValorPrevisto   money.Amount  `json:"valorPrevisto"`
	DataPrevista    time.Time     `json:"dataPrevista"`
	ValorRecebido   *money.Amount `json:"valorRecebido"`
	DataRecebimento *time.Time    `json:"dataRecebimento"`
	Status          *Status       `json:"status"`
}

type UpdateReceivableRequest struct {
	ClienteID       *string       `json:"clienteId"`
	ValorPrevisto   *money.Amount `json:"valorPrevisto"`
	DataPrevista    *time.Time    `json:"dataPrevista"`
	ValorRecebido   *money.Amount `json:"valorRecebido"`
	DataRecebimento *time.Time    `json:"dataRecebimento"`
	Status          *Status       `json:"status"`
}

type CashflowRequest struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

type Service interface {
	ListPayables(context.Context, ListRequest) (pagination.Page[AccountPayable], error)
	CreatePayable(context.Context, CreatePayableRequest) (AccountPayable, error)
	UpdatePayable(ctx context.Context, id string, req UpdatePayableRequest) (AccountPayable, error)
	ListReceivables(context.Context, ListRequest) (pagination.Page[AccountReceivable], error)
	CreateReceivable(context.Context, CreateReceivableRequest) (AccountReceivable, error)
	UpdateReceivable(ctx context.Context, id string, req UpdateReceivableRequest) (AccountReceivable, error)
	Cashflow(context.Context, CashflowRequest) (Cashflow, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidDescription  = errors.New("invalid_description")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrPayableNotFound     = errors.New("payable_not_found")
	ErrReceivableNotFound  = errors.New("receivable_not_found")
	ErrClientNotFound      = errors.New("client_not_found")
	ErrWorkOrderNotFound   = errors.New("work_order_not_found")
)
