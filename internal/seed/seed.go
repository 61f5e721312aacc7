package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/auth/password"
	catalogdomain "github.com/smallbiznis/washdesk/internal/catalog/domain"
	companydomain "github.com/smallbiznis/washdesk/internal/company/domain"
	"github.com/smallbiznis/washdesk/internal/config"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	userdomain "github.com/smallbiznis/washdesk/internal/user/domain"
	workorderdomain "github.com/smallbiznis/washdesk/internal/workorder/domain"
	"github.com/smallbiznis/washdesk/pkg/money"
	"gorm.io/gorm"
)

const (
	demoCompanyName = "Lava Rápido Demo"
	demoCompanySlug = "demo"
	demoOwnerName   = "Proprietário Demo"
)

type demoService struct {
	name         string
	category     string
	minutes      int
	priceCents   int64
	followUpDays int
}

var demoServices = []demoService{
	{name: "Lavagem simples", category: "Lavagem", minutes: 40, priceCents: 5000},
	{name: "Lavagem completa", category: "Lavagem", minutes: 90, priceCents: 12000, followUpDays: 15},
	{name: "Higienização interna", category: "Estética", minutes: 180, priceCents: 35000, followUpDays: 30},
}

// EnsureDemoCompany seeds a company with an owner, a service catalog and two boxes.
// Running it again leaves existing rows alone.
func EnsureDemoCompany(db *gorm.DB, cfg config.BootstrapConfig) (snowflake.ID, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}
	email := strings.ToLower(strings.TrimSpace(cfg.OwnerEmail))
	if email == "" || cfg.OwnerPassword == "" {
		return 0, errors.New("seed owner email and password are required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	var companyID snowflake.ID
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, created, err := ensureCompanyTx(ctx, tx, node)
		if err != nil {
			return err
		}
		companyID = company.ID

		if err := ensureOwnerTx(ctx, tx, node, company.ID, email, cfg.OwnerPassword); err != nil {
			return err
		}
		if !created {
			return nil
		}
		if err := ensureSequenceTx(ctx, tx, company.ID); err != nil {
			return err
		}
		if err := seedCatalogTx(ctx, tx, node, company.ID); err != nil {
			return err
		}
		return seedSpacesTx(ctx, tx, node, company.ID)
	})
	return companyID, err
}

func ensureCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (companydomain.Company, bool, error) {
	var company companydomain.Company
	err := tx.WithContext(ctx).Where("slug = ?", demoCompanySlug).First(&company).Error
	if err == nil {
		return company, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return company, false, err
	}
	now := time.Now().UTC()
	company = companydomain.Company{
		ID:           node.Generate(),
		NomeFantasia: demoCompanyName,
		RazaoSocial:  demoCompanyName,
		Slug:         demoCompanySlug,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		return company, false, err
	}
	return company, true, nil
}

func ensureOwnerTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID, email, plain string) error {
	var owner userdomain.User
	err := tx.WithContext(ctx).
		Where("company_id = ? AND email = ?", companyID, email).
		First(&owner).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	owner = userdomain.User{
		ID:           node.Generate(),
		CompanyID:    companyID,
		Name:         demoOwnerName,
		Email:        email,
		Role:         userdomain.RoleOwner,
		PasswordHash: hashed,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return tx.WithContext(ctx).Create(&owner).Error
}

func ensureSequenceTx(ctx context.Context, tx *gorm.DB, companyID snowflake.ID) error {
	seq := workorderdomain.WorkOrderSequence{
		CompanyID:  companyID,
		NextNumber: 1,
		UpdatedAt:  time.Now().UTC(),
	}
	return tx.WithContext(ctx).Create(&seq).Error
}

func seedCatalogTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	now := time.Now().UTC()
	items := make([]catalogdomain.CatalogItem, 0, len(demoServices))
	for _, svc := range demoServices {
		minutes := svc.minutes
		item := catalogdomain.CatalogItem{
			ID:               node.Generate(),
			CompanyID:        companyID,
			Name:             svc.name,
			Category:         svc.category,
			EstimatedMinutes: &minutes,
			BasePrice:        money.FromCents(svc.priceCents),
			Active:           true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if svc.followUpDays > 0 {
			days := svc.followUpDays
			item.FollowUpEnabled = true
			item.FollowUpDays = &days
		}
		items = append(items, item)
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func seedSpacesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	now := time.Now().UTC()
	spaces := []spacedomain.Space{
		{ID: node.Generate(), CompanyID: companyID, Name: "Box 1", Type: "LAVAGEM", Status: spacedomain.DefaultSpaceStatus, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Name: "Box 2", Type: "ESTETICA", Status: spacedomain.DefaultSpaceStatus, CreatedAt: now, UpdatedAt: now},
	}
	return tx.WithContext(ctx).Create(&spaces).Error
}
