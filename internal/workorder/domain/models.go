package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/washdesk/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	"github.com/smallbiznis/washdesk/pkg/money"
)

type Status string

const (
	StatusBudget     Status = "BUDGET"
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBudget, StatusOpen, StatusInProgress, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodDebit  PaymentMethod = "DEBIT"
	MethodCredit PaymentMethod = "CREDIT"
	MethodPix    PaymentMethod = "PIX"
	MethodCash   PaymentMethod = "CASH"
	MethodBoleto PaymentMethod = "BOLETO"
	MethodOther  PaymentMethod = "OTHER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodDebit, MethodCredit, MethodPix, MethodCash, MethodBoleto, MethodOther:
		return true
	}
	return false
}

// WorkOrder (OS) is a service ticket. Sequential is unique per company and never reused.
type WorkOrder struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID  `gorm:"not null;uniqueIndex:ux_work_orders_company_sequential,priority:1;index:idx_work_orders_company_opened,priority:1" json:"companyId"`
	Sequential    int64         `gorm:"not null;uniqueIndex:ux_work_orders_company_sequential,priority:2" json:"sequential"`
	ClientID      snowflake.ID  `gorm:"not null;index" json:"clientId"`
	VehicleID     *snowflake.ID `json:"vehicleId"`
	ResponsibleID *snowflake.ID `json:"responsibleId"`
	Status        Status        `gorm:"type:text;not null" json:"status"`
	TotalGross    money.Amount  `gorm:"type:bigint;not null" json:"totalGross"`
	DiscountTotal money.Amount  `gorm:"type:bigint;not null" json:"discountTotal"`
	TotalNet      money.Amount  `gorm:"type:bigint;not null" json:"totalNet"`
	PaymentTerm   string        `gorm:"type:text" json:"paymentTerm,omitempty"`
	OpenedAt      time.Time     `gorm:"not null;index:idx_work_orders_company_opened,priority:2" json:"openedAt"`
	ClosedAt      *time.Time    `json:"closedAt"`
	CreatedAt     time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updatedAt"`

	Client    *clientdomain.ClientRef   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Vehicle   *clientdomain.VehicleRef  `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Items     []WorkOrderItem           `gorm:"foreignKey:WorkOrderID" json:"items"`
	Payments  []Payment                 `gorm:"foreignKey:WorkOrderID" json:"payments"`
	FollowUps []followupdomain.FollowUp `gorm:"foreignKey:WorkOrderID" json:"followUps,omitempty"`
}

func (WorkOrder) TableName() string { return "work_orders" }

type WorkOrderItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	WorkOrderID snowflake.ID `gorm:"not null;index" json:"workOrderId"`
	ServiceID   snowflake.ID `gorm:"not null" json:"serviceId"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	UnitPrice   money.Amount `gorm:"type:bigint;not null" json:"unitPrice"`
	Discount    money.Amount `gorm:"type:bigint;not null" json:"discount"`
	Total       money.Amount `gorm:"type:bigint;not null" json:"total"`

	Service *catalogdomain.CatalogItem `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (WorkOrderItem) TableName() string { return "work_order_items" }

// Payment is append-only. WorkOrderID is nil for free-standing entries.
type Payment struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID         snowflake.ID  `gorm:"not null;index:idx_payments_company_paid,priority:1" json:"companyId"`
	WorkOrderID       *snowflake.ID `gorm:"index" json:"workOrderId"`
	Method            PaymentMethod `gorm:"type:text;not null" json:"method"`
	Amount            money.Amount  `gorm:"type:bigint;not null" json:"amount"`
	PaidAt            time.Time     `gorm:"not null;index:idx_payments_company_paid,priority:2" json:"paidAt"`
	InstallmentNumber *int          `json:"installmentNumber"`
	TotalInstallments *int          `json:"totalInstallments"`
	CreatedAt         time.Time     `gorm:"not null" json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }

// WorkOrderSequence holds the next sequential to hand out for a company.
type WorkOrderSequence struct {
	CompanyID  snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	NextNumber int64        `gorm:"not null"`
	UpdatedAt  time.Time    `gorm:"not null"`
}

func (WorkOrderSequence) TableName() string { return "work_order_sequences" }

type Totals struct {
	Gross    money.Amount
	Discount money.Amount
	Net      money.Amount
}

// ComputeTotals returns the order totals and each line total, in input order.
// It fails with ErrInvalidPrice when a line or a running sum leaves the cent range.
func ComputeTotals(items []ItemInput) (Totals, []money.Amount, error) {
	var totals Totals
	lines := make([]money.Amount, len(items))
	for i, item := range items {
		gross, ok := item.PrecoUnitario.MulChecked(item.Quantidade)
		if !ok {
			return Totals{}, nil, ErrInvalidPrice
		}
		if totals.Gross, ok = money.AddChecked(totals.Gross, gross); !ok {
			return Totals{}, nil, ErrInvalidPrice
		}
		if totals.Discount, ok = money.AddChecked(totals.Discount, item.Desconto); !ok {
			return Totals{}, nil, ErrInvalidPrice
		}
		lines[i] = gross - item.Desconto
	}
	net, ok := money.AddChecked(totals.Gross, -totals.Discount)
	if !ok {
		return Totals{}, nil, ErrInvalidPrice
	}
	totals.Net = net
	return totals, lines, nil
}
