package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/smallbiznis/washdesk/pkg/money"
	"gorm.io/gorm"
)

type ListFilter struct {
	CompanyID snowflake.ID
	Status    Status
	From      *time.Time
	To        *time.Time
}

// Totals are sums over one company, optionally bounded to [From, To).
type Totals struct {
	PaymentsReceived   money.Amount
	ReceivablesCashed  money.Amount
	ReceivablesPlanned money.Amount
	PayablesPaid       money.Amount
	PayablesPlanned    money.Amount
}

type Repository interface {
	InsertPayable(ctx context.Context, db *gorm.DB, payable *AccountPayable) error
	UpdatePayable(ctx context.Context, db *gorm.DB, payable *AccountPayable) error
	FindPayable(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*AccountPayable, error)
	ListPayables(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Params) ([]AccountPayable, int64, error)

	InsertReceivable(ctx context.Context, db *gorm.DB, receivable *AccountReceivable) error
	UpdateReceivable(ctx context.Context, db *gorm.DB, receivable *AccountReceivable) error
	FindReceivable(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*AccountReceivable, error)
	ListReceivables(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Params) ([]AccountReceivable, int64, error)
	DetachWorkOrder(ctx context.Context, db *gorm.DB, companyID, workOrderID snowflake.ID) error

	Totals(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to *time.Time) (Totals, error)
	// DayTotals sums RECEIVED receivables and PAID payables whose dates fall in [from, to).
	DayTotals(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (received, paid money.Amount, err error)

	ClientExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
	WorkOrderExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
}
