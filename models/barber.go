package models

import "time"

// BarberStatus is the approval state of a barber profile.
type BarberStatus string

const (
	BarberActive          BarberStatus = "ACTIVE"
	BarberInactive        BarberStatus = "INACTIVE"
	BarberSuspended       BarberStatus = "SUSPENDED"
	BarberPendingApproval BarberStatus = "PENDING_APPROVAL"
)

// Valid reports whether s is a known barber status.
func (s BarberStatus) Valid() bool {
	switch s {
	case BarberActive, BarberInactive, BarberSuspended, BarberPendingApproval:
		return true
	}
	return false
}

// DefaultCommissionRate is the share of an order total owed to the barber
// when no explicit rate is configured.
const DefaultCommissionRate = 0.7

// Barber is the one-to-one barber profile of a BARBER user.
// RatingAvg and TotalReviews always mirror the barber's visible reviews.
type Barber struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"uniqueIndex;not null" json:"userId"`
	User           User         `gorm:"foreignKey:UserID" json:"user"`
	City           string       `gorm:"index" json:"city"`
	State          string       `json:"state"`
	Status         BarberStatus `gorm:"type:varchar(24);not null;index" json:"status"`
	IsOnline       bool         `gorm:"not null" json:"isOnline"`
	RatingAvg      float64      `gorm:"not null" json:"ratingAvg"`
	TotalReviews   int          `gorm:"not null" json:"totalReviews"`
	CommissionRate float64      `gorm:"not null" json:"commissionRate"`
	PhotoKey       *string      `json:"-"`
	PhotoURL       *string      `gorm:"-" json:"photoUrl,omitempty"` // presigned, computed per response
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for the Barber model
func (Barber) TableName() string {
	return "barbers"
}
