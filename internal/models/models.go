package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

type User struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey"      json:"id"`
	FirstName    string            `gorm:"not null"                  json:"first_name"`
	LastName     string            `gorm:"not null"                  json:"last_name"`
	Email        string            `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string            `gorm:"not null"                  json:"-"`
	Active       bool              `gorm:"not null"                  json:"active"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Memberships  []UserCompanyRole `gorm:"foreignKey:UserID"         json:"memberships,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null"             json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Company) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Role struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name                 string    `gorm:"not null"                  json:"name"`
	CompanyID            uuid.UUID `gorm:"type:uuid;index;not null"  json:"company_id"`
	NumberOfCooldownDays int       `gorm:"not null"                  json:"number_of_cooldown_days"`
}

// UserCompanyRole is a company membership. RoleID is nil until the owner assigns one.
type UserCompanyRole struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                        json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_company" json:"user_id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_company" json:"company_id"`
	RoleID    *uint     `gorm:"index"                                           json:"role_id"`
	IsOwner   bool      `gorm:"not null"                                        json:"is_owner"`
	CreatedAt time.Time `json:"created_at"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Role    *Role    `gorm:"foreignKey:RoleID"    json:"role,omitempty"`
}

type UserCompanyRequest struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"  json:"user_id"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"  json:"company_id"`
	Status    string    `gorm:"not null;index"            json:"status"`
	Accepted  bool      `gorm:"not null"                  json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RefreshSession backs one opaque refresh secret. Only the SHA-256 of the secret is stored.
type RefreshSession struct {
	ID         string    `gorm:"primaryKey;size:36"        json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"  json:"user_id"`
	TokenHash  string    `gorm:"size:64;not null"          json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `gorm:"not null;index"            json:"expires_at"`
	Revoked    bool      `gorm:"not null"                  json:"revoked"`
	ReplacedBy *string   `gorm:"size:36"                   json:"replaced_by,omitempty"`
}

type WorkDay struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                json:"id"`
	RoleID    uint      `gorm:"not null;uniqueIndex:idx_role_date"      json:"role_id"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_role_date"      json:"date"`
	IsHoliday bool      `gorm:"not null"                                json:"is_holiday"`
	Weekday   int       `gorm:"not null"                                json:"weekday"`
}

func All() []any {
	return []any{
		&User{},
		&Company{},
		&Role{},
		&UserCompanyRole{},
		&UserCompanyRequest{},
		&RefreshSession{},
		&WorkDay{},
	}
}
