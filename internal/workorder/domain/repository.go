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
	Search    string
	Status    Status
}

type ClientRanking struct {
	ClientID snowflake.ID
	Name     string
	Total    money.Amount
	Orders   int64
}

type Repository interface {
	// NextSequential hands out the company's next number; call inside the creating transaction.
	NextSequential(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, now time.Time) (int64, error)
	Insert(ctx context.Context, tx *gorm.DB, order *WorkOrder) error
	InsertItems(ctx context.Context, tx *gorm.DB, items []WorkOrderItem) error
	InsertPayments(ctx context.Context, tx *gorm.DB, payments []Payment) error
	UpdateStatus(ctx context.Context, db *gorm.DB, order *WorkOrder) error
	Delete(ctx context.Context, tx *gorm.DB, companyID, id snowflake.ID) error

	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*WorkOrder, error)
	// FindHydrated loads client, vehicle, items with service, and payments.
	FindHydrated(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID, withFollowUps bool) (*WorkOrder, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Params) ([]WorkOrder, int64, error)

	SumPaymentsByMethod(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (map[PaymentMethod]money.Amount, error)
	CountByStatusOpened(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (map[Status]int64, error)
	TopClients(ctx context.Context, db *gorm.DB, companyID snowflake.ID, limit int) ([]ClientRanking, error)
}
