package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/workorder/domain"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"github.com/smallbiznis/washdesk/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// NextSequential advances the company counter under a row lock on postgres. The
// result never drops below MAX(sequential)+1, so rows written around the counter
// cannot make it hand out a taken number twice.
func (r *repo) NextSequential(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, now time.Time) (int64, error) {
	current, err := r.lockSequence(ctx, tx, companyID)
	if err != nil {
		return 0, err
	}
	if current == nil {
		seed := domain.WorkOrderSequence{CompanyID: companyID, NextNumber: 1, UpdatedAt: now}
		err = tx.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&seed).Error
		if err != nil {
			return 0, err
		}
		if current, err = r.lockSequence(ctx, tx, companyID); err != nil {
			return 0, err
		}
		if current == nil {
			return 0, gorm.ErrRecordNotFound
		}
	}

	var highest int64
	err = tx.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("COALESCE(MAX(sequential), 0)").
		Where("company_id = ?", companyID).
		Scan(&highest).Error
	if err != nil {
		return 0, err
	}

	next := current.NextNumber
	if highest >= next {
		next = highest + 1
	}
	err = tx.WithContext(ctx).Model(&domain.WorkOrderSequence{}).
		Where("company_id = ?", companyID).
		Updates(map[string]any{"next_number": next + 1, "updated_at": now}).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *repo) lockSequence(ctx context.Context, tx *gorm.DB, companyID snowflake.ID) (*domain.WorkOrderSequence, error) {
	stmt := tx.WithContext(ctx).Where("company_id = ?", companyID)
	if tx.Dialector.Name() == "postgres" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var seq domain.WorkOrderSequence
	if err := stmt.Limit(1).Find(&seq).Error; err != nil {
		return nil, err
	}
	if seq.CompanyID == 0 {
		return nil, nil
	}
	return &seq, nil
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, order *domain.WorkOrder) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repo) InsertItems(ctx context.Context, tx *gorm.DB, items []domain.WorkOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *repo) InsertPayments(ctx context.Context, tx *gorm.DB, payments []domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&payments).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, order *domain.WorkOrder) error {
	return db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("company_id = ? AND id = ?", order.CompanyID, order.ID).
		Updates(map[string]any{
			"status":     order.Status,
			"closed_at":  order.ClosedAt,
			"updated_at": order.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, tx *gorm.DB, companyID, id snowflake.ID) error {
	if err := tx.WithContext(ctx).Where("work_order_id = ?", id).Delete(&domain.WorkOrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("company_id = ? AND work_order_id = ?", companyID, id).Delete(&domain.Payment{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id).Delete(&domain.WorkOrder{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) FindHydrated(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID, withFollowUps bool) (*domain.WorkOrder, error) {
	stmt := hydrate(db.WithContext(ctx))
	if withFollowUps {
		stmt = stmt.Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
			return db.Order("contact_at asc, id asc")
		})
	}
	var order domain.WorkOrder
	err := stmt.
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Params) ([]domain.WorkOrder, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.WorkOrder{}).Where("company_id = ?", filter.CompanyID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		cond := "EXISTS (SELECT 1 FROM clients c WHERE c.id = work_orders.client_id AND LOWER(c.name) LIKE ?)" +
			" OR EXISTS (SELECT 1 FROM vehicles v WHERE v.id = work_orders.vehicle_id AND LOWER(v.plate) LIKE ?)"
		args := []any{like, like}
		if n, err := strconv.ParseInt(search, 10, 64); err == nil && n > 0 {
			cond = "sequential = ? OR " + cond
			args = append([]any{n}, args...)
		}
		stmt = stmt.Where("("+cond+")", args...)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []domain.WorkOrder
	err := hydrate(stmt.Scopes(page.Scope())).
		Order("opened_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

type methodSum struct {
	Method domain.PaymentMethod
	Total  money.Amount
}

func (r *repo) SumPaymentsByMethod(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (map[domain.PaymentMethod]money.Amount, error) {
	var rows []methodSum
	err := db.WithContext(ctx).Model(&domain.Payment{}).
		Select("method, COALESCE(SUM(amount), 0) AS total").
		Where("company_id = ? AND paid_at >= ? AND paid_at < ?", companyID, from, to).
		Group("method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.PaymentMethod]money.Amount, len(rows))
	for _, row := range rows {
		out[row.Method] = row.Total
	}
	return out, nil
}

type statusCount struct {
	Status domain.Status
	Total  int64
}

func (r *repo) CountByStatusOpened(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (map[domain.Status]int64, error) {
	var rows []statusCount
	err := db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("status, COUNT(*) AS total").
		Where("company_id = ? AND opened_at >= ? AND opened_at < ?", companyID, from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *repo) TopClients(ctx context.Context, db *gorm.DB, companyID snowflake.ID, limit int) ([]domain.ClientRanking, error) {
	var rows []domain.ClientRanking
	err := db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("work_orders.client_id AS client_id, COALESCE(MAX(clients.name), '') AS name, COALESCE(SUM(work_orders.total_net), 0) AS total, COUNT(*) AS orders").
		Joins("LEFT JOIN clients ON clients.id = work_orders.client_id").
		Where("work_orders.company_id = ? AND work_orders.status = ?", companyID, domain.StatusCompleted).
		Group("work_orders.client_id").
		Order("total desc, client_id asc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func hydrate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client").
		Preload("Vehicle").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Items.Service").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at asc, id asc")
		})
}
