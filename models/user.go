package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the authorization role carried by a user and its access token.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleBarber   Role = "BARBER"
	RoleAdmin    Role = "ADMIN"
	RoleRep      Role = "REP"

	// RoleSystem marks events raised by webhooks and background work. It is
	// never issued in a token.
	RoleSystem Role = "SYSTEM"
)

// IsStaff reports whether the role belongs to a trusted dashboard actor.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleRep
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleBarber, RoleAdmin, RoleRep:
		return true
	}
	return false
}

// User represents an account in the system (customer, barber or staff)
type User struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	Name                   string         `gorm:"not null" json:"name"`
	Email                  string         `gorm:"uniqueIndex;not null" json:"email"` // always stored lower-cased
	Phone                  string         `json:"phone,omitempty"`
	PasswordHash           string         `gorm:"not null" json:"-"`
	Role                   Role           `gorm:"type:varchar(16);not null;index" json:"role"`
	PasswordResetToken     *string        `gorm:"index" json:"-"`
	PasswordResetExpiresAt *time.Time     `json:"-"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Customer is the one-to-one customer profile of a CUSTOMER user.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Phone     string    `json:"phone"`
	Address   *string   `json:"address"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
