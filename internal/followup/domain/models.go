package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusDone       Status = "DONE"
	StatusNoResponse Status = "NO_RESPONSE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDone, StatusNoResponse:
		return true
	}
	return false
}

// FollowUp is a post-sale contact reminder created when a work order completes.
// WorkOrderID is cleared when the originating order is deleted.
type FollowUp struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID  `gorm:"not null;index:idx_follow_ups_company_contact,priority:1" json:"companyId"`
	ClientID    snowflake.ID  `gorm:"not null;index" json:"clientId"`
	WorkOrderID *snowflake.ID `gorm:"index" json:"workOrderId"`
	ServiceID   *snowflake.ID `json:"serviceId"`
	ContactAt   time.Time     `gorm:"not null;index:idx_follow_ups_company_contact,priority:2" json:"contactAt"`
	Status      Status        `gorm:"type:text;not null" json:"status"`
	Notes       string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updatedAt"`

	Client    *clientdomain.ClientRef `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	WorkOrder *WorkOrderRef           `gorm:"foreignKey:WorkOrderID" json:"workOrder,omitempty"`
	Service   *ServiceRef             `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (FollowUp) TableName() string { return "follow_ups" }

type WorkOrderRef struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Sequential int64        `json:"sequential"`
}

func (WorkOrderRef) TableName() string { return "work_orders" }

type ServiceRef struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name string       `json:"name"`
}

func (ServiceRef) TableName() string { return "services" }
