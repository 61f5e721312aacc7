package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/pkg/money"
)

// Overview is the home screen payload. Day and month windows follow the business timezone.
type Overview struct {
	VendasPagasMes SalesByMethod   `json:"vendasPagasMes"`
	FinanceiroHoje TodayFinancials `json:"financeiroHoje"`
	OrcamentosMes  BudgetCounts    `json:"orcamentosMes"`
	VagasHoje      SpaceCounts     `json:"vagasHoje"`
	PosVendaHoje   FollowUpCounts  `json:"posVendaHoje"`
	TopClientes    []TopClient     `json:"topClientes"`
	Empresa        CompanyInfo     `json:"empresa"`
}

type SalesByMethod struct {
	Total     money.Amount `json:"total"`
	PorMetodo MethodTotals `json:"porMetodo"`
}

type MethodTotals struct {
	Debito        money.Amount `json:"debito"`
	Credito       money.Amount `json:"credito"`
	Pix           money.Amount `json:"pix"`
	Dinheiro      money.Amount `json:"dinheiro"`
	Boleto        money.Amount `json:"boleto"`
	Transferencia money.Amount `json:"transferencia"`
}

type TodayFinancials struct {
	Entradas      money.Amount `json:"entradas"`
	Saidas        money.Amount `json:"saidas"`
	Saldo         money.Amount `json:"saldo"`
	FaturasCartao money.Amount `json:"faturasCartao"`
}

type BudgetCounts struct {
	Pendentes int64 `json:"pendentes"`
	Aprovados int64 `json:"aprovados"`
}

type SpaceCounts struct {
	Total      int64 `json:"total"`
	Ocupadas   int64 `json:"ocupadas"`
	Concluidas int64 `json:"concluidas"`
}

type FollowUpCounts struct {
	Pendentes  int64 `json:"pendentes"`
	Realizadas int64 `json:"realizadas"`
}

type TopClient struct {
	ID       snowflake.ID `json:"id"`
	Nome     string       `json:"nome"`
	Total    money.Amount `json:"total"`
	Servicos int64        `json:"servicos"`
}

type CompanyInfo struct {
	Nome       string     `json:"nome"`
	Assinatura string     `json:"assinatura"`
	Desde      *time.Time `json:"desde"`
}

type Service interface {
	Overview(context.Context) (Overview, error)
}

var ErrInvalidOrganization = errors.New("invalid_organization")
