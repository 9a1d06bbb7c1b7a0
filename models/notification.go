package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationStatus is the delivery state of an outbox row.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
)

// Notification is a queued outbound email. Rows are written in the same
// transaction as the mutation that caused them and delivered later.
type Notification struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Template      string             `gorm:"type:varchar(48);not null" json:"template"`
	Recipient     string             `gorm:"not null" json:"recipient"`
	Subject       string             `gorm:"not null" json:"subject"`
	Payload       datatypes.JSON     `json:"payload"`
	Status        NotificationStatus `gorm:"type:varchar(16);not null;index:idx_notifications_due,priority:1" json:"status"`
	Attempts      int                `gorm:"not null" json:"attempts"`
	LastError     *string            `gorm:"type:text" json:"lastError,omitempty"`
	NextAttemptAt time.Time          `gorm:"not null;index:idx_notifications_due,priority:2" json:"nextAttemptAt"`
	SentAt        *time.Time         `json:"sentAt,omitempty"`
	OrderID       *uint              `gorm:"index" json:"orderId,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
