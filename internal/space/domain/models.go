package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
)

const DefaultSpaceStatus = "AVAILABLE"

// Space is a wash bay or parking slot. Type and Status are free text.
type Space struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"companyId"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Type      string       `gorm:"type:text" json:"type"`
	Status    string       `gorm:"type:text;not null" json:"status"`
	CreatedAt time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Space) TableName() string { return "spaces" }

type OccupationStatus string

const (
	OccupationInProgress OccupationStatus = "IN_PROGRESS"
	OccupationCompleted  OccupationStatus = "COMPLETED"
)

type SpaceOccupation struct {
	ID            snowflake.ID     `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID     `gorm:"not null;index:idx_space_occupations_company_started,priority:1" json:"companyId"`
	SpaceID       snowflake.ID     `gorm:"not null;index" json:"spaceId"`
	WorkOrderID   *snowflake.ID    `gorm:"index" json:"workOrderId"`
	AppointmentID *snowflake.ID    `json:"appointmentId"`
	StartedAt     time.Time        `gorm:"not null;index:idx_space_occupations_company_started,priority:2" json:"startedAt"`
	ExpectedEndAt *time.Time       `json:"expectedEndAt"`
	EndedAt       *time.Time       `json:"endedAt"`
	Status        OccupationStatus `gorm:"type:text;not null" json:"status"`
	CreatedAt     time.Time        `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time        `gorm:"not null" json:"updatedAt"`

	Space       *SpaceRef       `gorm:"foreignKey:SpaceID" json:"space,omitempty"`
	WorkOrder   *WorkOrderRef   `gorm:"foreignKey:WorkOrderID" json:"workOrder,omitempty"`
	Appointment *AppointmentRef `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (SpaceOccupation) TableName() string { return "space_occupations" }

type SpaceRef struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name string       `json:"name"`
	Type string       `json:"type"`
}

func (SpaceRef) TableName() string { return "spaces" }

type WorkOrderRef struct {
	ID         snowflake.ID            `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID            `json:"-"`
	Sequential int64                   `json:"sequential"`
	Status     string                  `json:"status"`
	ClientID   snowflake.ID            `json:"-"`
	Client     *clientdomain.ClientRef `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (WorkOrderRef) TableName() string { return "work_orders" }

type AppointmentRef struct {
	ID        snowflake.ID            `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID            `json:"-"`
	StartAt   time.Time               `json:"startAt"`
	ClientID  snowflake.ID            `json:"-"`
	Client    *clientdomain.ClientRef `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (AppointmentRef) TableName() string { return "appointments" }

type TodaySummary struct {
	TotalVagas int64 `json:"totalVagas"`
	Ocupadas   int64 `json:"ocupadas"`
	Concluidas int64 `json:"concluidas"`
}
