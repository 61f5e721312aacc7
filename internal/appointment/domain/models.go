package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/washdesk/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
)

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
	StatusNoShow     Status = "NO_SHOW"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

type Origin string

const (
	OriginManual   Origin = "MANUAL"
	OriginWhatsapp Origin = "WHATSAPP"
	OriginOnline   Origin = "ONLINE"
)

func (o Origin) Valid() bool {
	switch o {
	case OriginManual, OriginWhatsapp, OriginOnline:
		return true
	}
	return false
}

type Appointment struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID  `gorm:"not null;index:idx_appointments_company_start,priority:1" json:"companyId"`
	ClientID      snowflake.ID  `gorm:"not null;index" json:"clientId"`
	VehicleID     *snowflake.ID `json:"vehicleId"`
	StartAt       time.Time     `gorm:"not null;index:idx_appointments_company_start,priority:2" json:"startAt"`
	EndAt         time.Time     `gorm:"not null" json:"endAt"`
	Status        Status        `gorm:"type:text;not null" json:"status"`
	Origin        Origin        `gorm:"type:text;not null" json:"origin"`
	Notes         string        `gorm:"type:text" json:"notes,omitempty"`
	ResponsibleID *snowflake.ID `json:"responsibleId"`
	CreatedAt     time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updatedAt"`

	Client   *clientdomain.ClientRef  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Vehicle  *clientdomain.VehicleRef `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Services []AppointmentService     `gorm:"foreignKey:AppointmentID" json:"services"`
}

func (Appointment) TableName() string { return "appointments" }

type AppointmentService struct {
	AppointmentID snowflake.ID               `gorm:"primaryKey" json:"appointmentId"`
	ServiceID     snowflake.ID               `gorm:"primaryKey" json:"serviceId"`
	Service       *catalogdomain.CatalogItem `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (AppointmentService) TableName() string { return "appointment_services" }
