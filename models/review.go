package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReviewStatus is the moderation state of a review. It is independent of
// whether the review is visible.
type ReviewStatus string

const (
	ReviewNew       ReviewStatus = "NEW"
	ReviewResponded ReviewStatus = "RESPONDED"
	ReviewEscalated ReviewStatus = "ESCALATED"
	ReviewResolved  ReviewStatus = "RESOLVED"
	ReviewIgnored   ReviewStatus = "IGNORED"
)

// ReviewTransitions lists the moderation moves allowed from each status.
// The terminal-looking states stay reachable from one another so a resolved
// review can still be answered, escalated or ignored.
var ReviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewNew:       {ReviewResponded, ReviewEscalated, ReviewResolved, ReviewIgnored},
	ReviewResponded: {ReviewResponded, ReviewEscalated, ReviewResolved, ReviewIgnored},
	ReviewEscalated: {ReviewResponded, ReviewResolved, ReviewIgnored},
	ReviewIgnored:   {ReviewResponded, ReviewEscalated, ReviewResolved},
	ReviewResolved:  {ReviewResponded, ReviewEscalated, ReviewIgnored},
}

// CanTransitionReview reports whether a review may move between statuses.
func CanTransitionReview(from, to ReviewStatus) bool {
	return canTransition(ReviewTransitions, from, to)
}

// ReviewSource records where a review was collected.
type ReviewSource string

const (
	SourceWebsite ReviewSource = "WEBSITE"
	SourceAdmin   ReviewSource = "ADMIN"
	SourceImport  ReviewSource = "IMPORT"
)

// Review is customer feedback on a completed order.
type Review struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	OrderID           uint         `gorm:"uniqueIndex;not null" json:"orderId"`
	Order             *Order       `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	CustomerID        uint         `gorm:"not null;index" json:"customerId"`
	Customer          *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	BarberID          uint         `gorm:"not null;index" json:"barberId"`
	Barber            *Barber      `gorm:"foreignKey:BarberID" json:"barber,omitempty"`
	Rating            int          `gorm:"not null" json:"rating"`
	Comment           string       `gorm:"type:text" json:"comment"`
	IsVisible         bool         `gorm:"not null;index" json:"isVisible"`
	Status            ReviewStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Source            ReviewSource `gorm:"type:varchar(16);not null" json:"source"`
	AssignedToID      *uint        `gorm:"index" json:"assignedToId"`
	EscalatedAt       *time.Time   `json:"escalatedAt"`
	ResolvedAt        *time.Time   `json:"resolvedAt"`
	ResolutionOutcome *string      `json:"resolutionOutcome"`
	AdminResponse     *string      `gorm:"type:text" json:"adminResponse"`
	AdminResponseAt   *time.Time   `json:"adminResponseAt"`
	BarberResponse    *string      `gorm:"type:text" json:"barberResponse"`
	BarberResponseAt  *time.Time   `json:"barberResponseAt"`
	InternalNotes     *string      `gorm:"type:text" json:"internalNotes"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// Audit actions recorded for review moderation.
const (
	AuditAssign        = "ASSIGN"
	AuditEscalate      = "ESCALATE"
	AuditResolve       = "RESOLVE"
	AuditIgnore        = "IGNORE"
	AuditHide          = "HIDE"
	AuditUnhide        = "UNHIDE"
	AuditNote          = "NOTE"
	AuditRespond       = "RESPOND"
	AuditBarberRespond = "BARBER_RESPOND"
	AuditDelete        = "DELETE"
)

// ReviewAuditLog is an immutable moderation history row. It has no
// association to Review, so entries outlive a deleted review.
type ReviewAuditLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ReviewID    uint           `gorm:"not null;index" json:"reviewId"`
	Action      string         `gorm:"type:varchar(32);not null" json:"action"`
	PerformedBy uint           `gorm:"not null" json:"performedBy"`
	Metadata    datatypes.JSON `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// TableName specifies the table name for the ReviewAuditLog model
func (ReviewAuditLog) TableName() string {
	return "review_audit_logs"
}
