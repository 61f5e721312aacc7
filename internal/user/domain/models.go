package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleManager  Role = "MANAGER"
	RoleOperator Role = "OPERATOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleOperator:
		return true
	}
	return false
}

// User is a staff member of a company. Email is unique within the company only.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID `gorm:"not null;uniqueIndex:ux_users_company_email,priority:1" json:"companyId"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Email        string       `gorm:"type:text;not null;uniqueIndex:ux_users_company_email,priority:2" json:"email"`
	Phone        string       `gorm:"type:text" json:"phone,omitempty"`
	Whatsapp     string       `gorm:"type:text" json:"whatsapp,omitempty"`
	Role         Role         `gorm:"type:text;not null;default:OPERATOR" json:"role"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
