package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/pkg/money"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusReceived Status = "RECEIVED"
	StatusOverdue  Status = "OVERDUE"
	StatusCanceled Status = "CANCELED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusReceived, StatusOverdue, StatusCanceled:
		return true
	}
	return false
}

type PayableCategory string

const (
	CategoryFixed    PayableCategory = "FIXED"
	CategoryVariable PayableCategory = "VARIABLE"
)

func (c PayableCategory) Valid() bool {
	return c == CategoryFixed || c == CategoryVariable
}

type AccountPayable struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID    `gorm:"not null;index:idx_accounts_payable_company_due,priority:1" json:"companyId"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    PayableCategory `gorm:"type:text;not null" json:"category"`
	Expected    money.Amount    `gorm:"type:bigint;not null" json:"expected"`
	Paid        money.Amount    `gorm:"type:bigint;not null" json:"paid"`
	DueDate     time.Time       `gorm:"not null;index:idx_accounts_payable_company_due,priority:2" json:"dueDate"`
	PaidDate    *time.Time      `json:"paidDate"`
	Supplier    string          `gorm:"type:text" json:"supplier,omitempty"`
	Status      Status          `gorm:"type:text;not null" json:"status"`
	CreatedAt   time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updatedAt"`
}

func (AccountPayable) TableName() string { return "accounts_payable" }

type AccountReceivable struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID  `gorm:"not null;index:idx_accounts_receivable_company_expected,priority:1" json:"companyId"`
	ClientID     *snowflake.ID `gorm:"index" json:"clientId"`
	WorkOrderID  *snowflake.ID `gorm:"index" json:"workOrderId"`
	Expected     money.Amount  `gorm:"type:bigint;not null" json:"expected"`
	ExpectedDate time.Time     `gorm:"not null;index:idx_accounts_receivable_company_expected,priority:2" json:"expectedDate"`
	Received     money.Amount  `gorm:"type:bigint;not null" json:"received"`
	ReceivedDate *time.Time    `json:"receivedDate"`
	Status       Status        `gorm:"type:text;not null" json:"status"`
	CreatedAt    time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updatedAt"`

	Client    *ClientRef    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	WorkOrder *WorkOrderRef `gorm:"foreignKey:WorkOrderID" json:"workOrder,omitempty"`
}

func (AccountReceivable) TableName() string { return "accounts_receivable" }

// ClientRef narrows the client projection to {id, name}.
type ClientRef struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name string       `json:"name"`
}

func (ClientRef) TableName() string { return "clients" }

type WorkOrderRef struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `json:"-"`
	Sequential int64        `json:"sequential"`
}

func (WorkOrderRef) TableName() string { return "work_orders" }

// Period echoes the requested window; nil renders as "completo".
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Cashflow struct {
	Periodo           any          `json:"periodo"`
	EntradasRecebidas money.Amount `json:"entradasRecebidas"`
	SaidasPagas       money.Amount `json:"saidasPagas"`
	Saldo             money.Amount `json:"saldo"`
	EntradasPrevistas money.Amount `json:"entradasPrevistas"`
	SaidasPrevistas   money.Amount `json:"saidasPrevistas"`
	SaldoPrevisto     money.Amount `json:"saldoPrevisto"`
}

// DerivePayableStatus applies the explicit override, else PAID when something was paid.
func DerivePayableStatus(explicit *Status, paid money.Amount) Status {
	if explicit != nil && *explicit != "" {
		return *explicit
	}
	if paid.IsPositive() {
		return StatusPaid
	}
	return StatusPending
}

func DeriveReceivableStatus(explicit *Status, received money.Amount) Status {
	if explicit != nil && *explicit != "" {
		return *explicit
	}
	if received.IsPositive() {
		return StatusReceived
	}
	return StatusPending
}
