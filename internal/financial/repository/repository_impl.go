package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/financial/domain"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/smallbiznis/washdesk/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertPayable(ctx context.Context, db *gorm.DB, payable *domain.AccountPayable) error {
	return db.WithContext(ctx).Create(payable).Error
}

func (r *repo) UpdatePayable(ctx context.Context, db *gorm.DB, payable *domain.AccountPayable) error {
	return db.WithContext(ctx).Save(payable).Error
}

func (r *repo) FindPayable(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.AccountPayable, error) {
	var payable domain.AccountPayable
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&payable).Error
	if err != nil {
		return nil, err
	}
	if payable.ID == 0 {
		return nil, nil
	}
	return &payable, nil
}

func (r *repo) ListPayables(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Params) ([]domain.AccountPayable, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.AccountPayable{}).Where("company_id = ?", filter.CompanyID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.From != nil && filter.To != nil {
		stmt = stmt.Where("due_date >= ? AND due_date < ?", *filter.From, *filter.To)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.AccountPayable
	if err := stmt.Scopes(page.Scope()).Order("due_date asc, id asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) InsertReceivable(ctx context.Context, db *gorm.DB, receivable *domain.AccountReceivable) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(receivable).Error
}

func (r *repo) UpdateReceivable(ctx context.Context, db *gorm.DB, receivable *domain.AccountReceivable) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(receivable).Error
}

func (r *repo) FindReceivable(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.AccountReceivable, error) {
	var receivable domain.AccountReceivable
	err := db.WithContext(ctx).
		Preload("Client").
		Preload("WorkOrder").
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&receivable).Error
	if err != nil {
		return nil, err
	}
	if receivable.ID == 0 {
		return nil, nil
	}
	return &receivable, nil
}

func (r *repo) ListReceivables(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Params) ([]domain.AccountReceivable, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.AccountReceivable{}).Where("company_id = ?", filter.CompanyID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.From != nil && filter.To != nil {
		stmt = stmt.Where("expected_date >= ? AND expected_date < ?", *filter.From, *filter.To)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.AccountReceivable
	err := stmt.Scopes(page.Scope()).
		Preload("Client").
		Preload("WorkOrder").
		Order("expected_date asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) DetachWorkOrder(ctx context.Context, db *gorm.DB, companyID, workOrderID snowflake.ID) error {
	return db.WithContext(ctx).Model(&domain.AccountReceivable{}).
		Where("company_id = ? AND work_order_id = ?", companyID, workOrderID).
		Update("work_order_id", nil).Error
}

type sums struct {
	First  money.Amount
	Second money.Amount
}

func (r *repo) Totals(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to *time.Time) (domain.Totals, error) {
	bounded := func(stmt *gorm.DB, column string) *gorm.DB {
		if from != nil && to != nil {
			stmt = stmt.Where(column+" >= ? AND "+column+" < ?", *from, *to)
		}
		return stmt
	}
	var out domain.Totals

	var payments sums
	err := bounded(db.WithContext(ctx).Table("payments"), "paid_at").
		Select("COALESCE(SUM(amount), 0) AS first").
		Where("company_id = ?", companyID).
		Scan(&payments).Error
	if err != nil {
		return out, err
	}
	out.PaymentsReceived = payments.First

	var receivables sums
	err = bounded(db.WithContext(ctx).Model(&domain.AccountReceivable{}), "expected_date").
		Select("COALESCE(SUM(received), 0) AS first, COALESCE(SUM(expected), 0) AS second").
		Where("company_id = ?", companyID).
		Scan(&receivables).Error
	if err != nil {
		return out, err
	}
	out.ReceivablesCashed, out.ReceivablesPlanned = receivables.First, receivables.Second

	var payables sums
	err = bounded(db.WithContext(ctx).Model(&domain.AccountPayable{}), "due_date").
		Select("COALESCE(SUM(paid), 0) AS first, COALESCE(SUM(expected), 0) AS second").
		Where("company_id = ?", companyID).
		Scan(&payables).Error
	if err != nil {
		return out, err
	}
	out.PayablesPaid, out.PayablesPlanned = payables.First, payables.Second
	return out, nil
}

func (r *repo) DayTotals(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (money.Amount, money.Amount, error) {
	var received sums
	err := db.WithContext(ctx).Model(&domain.AccountReceivable{}).
		Select("COALESCE(SUM(received), 0) AS first").
		Where("company_id = ? AND status = ? AND expected_date >= ? AND expected_date < ?", companyID, domain.StatusReceived, from, to).
		Scan(&received).Error
	if err != nil {
		return 0, 0, err
	}

	var paid sums
	err = db.WithContext(ctx).Model(&domain.AccountPayable{}).
		Select("COALESCE(SUM(paid), 0) AS first").
		Where("company_id = ? AND status = ? AND due_date >= ? AND due_date < ?", companyID, domain.StatusPaid, from, to).
		Scan(&paid).Error
	if err != nil {
		return 0, 0, err
	}
	return received.First, paid.First, nil
}

func (r *repo) ClientExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.ClientRef{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Count(&total).Error
	return total > 0, err
}

func (r *repo) WorkOrderExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.WorkOrderRef{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Count(&total).Error
	return total > 0, err
}
