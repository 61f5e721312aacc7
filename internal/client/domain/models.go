package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type VehicleType string

const (
	VehicleCar        VehicleType = "CAR"
	VehicleMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTruck      VehicleType = "TRUCK"
	VehicleVan        VehicleType = "VAN"
	VehicleOther      VehicleType = "OTHER"
)

func (t VehicleType) Valid() bool {
	switch t {
	case VehicleCar, VehicleMotorcycle, VehicleTruck, VehicleVan, VehicleOther:
		return true
	}
	return false
}

type Client struct {
	ID        snowflake.ID                `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID                `gorm:"not null;index" json:"companyId"`
	Name      string                      `gorm:"type:text;not null" json:"name"`
	Whatsapp  string                      `gorm:"type:text" json:"whatsapp,omitempty"`
	Phone     string                      `gorm:"type:text" json:"phone,omitempty"`
	Email     string                      `gorm:"type:text" json:"email,omitempty"`
	CpfCnpj   string                      `gorm:"column:cpf_cnpj;type:text" json:"cpfCnpj,omitempty"`
	Street    string                      `gorm:"type:text" json:"street,omitempty"`
	Number    string                      `gorm:"type:text" json:"number,omitempty"`
	District  string                      `gorm:"type:text" json:"district,omitempty"`
	City      string                      `gorm:"type:text" json:"city,omitempty"`
	State     string                      `gorm:"type:text" json:"state,omitempty"`
	Zip       string                      `gorm:"type:text" json:"zip,omitempty"`
	Notes     string                      `gorm:"type:text" json:"notes,omitempty"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	Vehicles  []Vehicle                   `gorm:"foreignKey:ClientID" json:"vehicles,omitempty"`
	CreatedAt time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (Client) TableName() string { return "clients" }

type Vehicle struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"companyId"`
	ClientID  snowflake.ID `gorm:"not null;index" json:"clientId"`
	Type      VehicleType  `gorm:"type:text;not null;default:CAR" json:"type"`
	Plate     string       `gorm:"type:text;not null" json:"plate"`
	Brand     string       `gorm:"type:text;not null" json:"brand"`
	Model     string       `gorm:"type:text;not null" json:"model"`
	Year      *int         `json:"year"`
	Color     string       `gorm:"type:text" json:"color,omitempty"`
	Vin       string       `gorm:"type:text" json:"vin,omitempty"`
	Notes     string       `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Vehicle) TableName() string { return "vehicles" }

// ClientListItem is the trimmed row returned by the client list.
type ClientListItem struct {
	ID        snowflake.ID     `json:"id"`
	Name      string           `json:"name"`
	Whatsapp  string           `json:"whatsapp,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Email     string           `json:"email,omitempty"`
	Tags      []string         `json:"tags"`
	CreatedAt time.Time        `json:"createdAt"`
	Vehicles  []VehicleSummary `json:"vehicles"`
}

type VehicleSummary struct {
	ID    snowflake.ID `json:"id"`
	Plate string       `json:"plate"`
	Brand string       `json:"brand"`
	Model string       `json:"model"`
	Color string       `json:"color,omitempty"`
}

// ClientRef and VehicleRef are the read-only projections other domains embed.
type ClientRef struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	Name     string       `json:"name"`
	Whatsapp string       `json:"whatsapp,omitempty"`
}

func (ClientRef) TableName() string { return "clients" }

type VehicleRef struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	Plate string       `json:"plate"`
	Model string       `json:"model"`
	Brand string       `json:"brand"`
}

func (VehicleRef) TableName() string { return "vehicles" }
