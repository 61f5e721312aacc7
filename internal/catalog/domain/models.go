package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/pkg/money"
)

// CatalogItem is a sellable service (wash, polish, sanitization...).
type CatalogItem struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID        snowflake.ID `gorm:"not null;index" json:"companyId"`
	Name             string       `gorm:"type:text;not null" json:"name"`
	Description      string       `gorm:"type:text" json:"description,omitempty"`
	Category         string       `gorm:"type:text" json:"category,omitempty"`
	EstimatedMinutes *int         `json:"estimatedMinutes"`
	BasePrice        money.Amount `gorm:"not null" json:"basePrice"`
	Active           bool         `gorm:"not null" json:"active"`
	FollowUpEnabled  bool         `gorm:"not null" json:"followUpEnabled"`
	FollowUpDays     *int         `json:"followUpDays"`
	CreatedAt        time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time    `gorm:"not null" json:"updatedAt"`
}

func (CatalogItem) TableName() string { return "services" }

// GeneratesFollowUp reports whether completing an order with this service
// schedules a post-sale contact.
func (c CatalogItem) GeneratesFollowUp() bool {
	return c.FollowUpEnabled && c.FollowUpDays != nil && *c.FollowUpDays > 0
}
