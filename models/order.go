package models

import (
	"slices"
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the customer-facing lifecycle of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentRefunded      PaymentStatus = "REFUNDED"
	PaymentFailed        PaymentStatus = "FAILED"
)

// PaymentTransitions lists the manual payment status changes staff may apply.
var PaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:       {PaymentPaid, PaymentPartiallyPaid, PaymentFailed},
	PaymentPartiallyPaid: {PaymentPaid, PaymentRefunded},
	PaymentPaid:          {PaymentRefunded},
	PaymentFailed:        {PaymentPending, PaymentPaid},
}

// JobStatus is the barber-side fulfillment sub-state of an assigned order.
type JobStatus string

const (
	JobAssigned  JobStatus = "ASSIGNED"
	JobAccepted  JobStatus = "ACCEPTED"
	JobOnTheWay  JobStatus = "ON_THE_WAY"
	JobArrived   JobStatus = "ARRIVED"
	JobCompleted JobStatus = "COMPLETED"
	JobDeclined  JobStatus = "DECLINED"
)

// JobTransitions is the job status flow as code. DECLINED is an exit that
// clears the assignment rather than a stored state.
var JobTransitions = map[JobStatus][]JobStatus{
	JobAssigned: {JobAccepted, JobDeclined},
	JobAccepted: {JobOnTheWay, JobDeclined},
	JobOnTheWay: {JobArrived},
	JobArrived:  {JobCompleted},
}

// CanTransitionJob reports whether a job may move from one status to another.
func CanTransitionJob(from, to JobStatus) bool {
	return canTransition(JobTransitions, from, to)
}

// CanTransitionPayment reports whether staff may move payment from one status to another.
func CanTransitionPayment(from, to PaymentStatus) bool {
	return canTransition(PaymentTransitions, from, to)
}

func canTransition[S comparable](table map[S][]S, from, to S) bool {
	next, ok := table[from]
	if !ok {
		return false
	}
	return slices.Contains(next, to)
}

// Order represents a customer's booking of one or more services
type Order struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	OrderNumber        string         `gorm:"uniqueIndex;not null" json:"orderNumber"`
	CustomerID         *uint          `gorm:"index" json:"customerId"`
	Customer           *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerEmail      string         `gorm:"not null;index" json:"customerEmail"`
	CustomerName       string         `gorm:"not null" json:"customerName"`
	CustomerPhone      string         `json:"customerPhone"`
	City               string         `json:"city"`
	Location           string         `json:"location"`
	Address            *string        `json:"address"`
	Items              []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount        float64        `gorm:"not null" json:"totalAmount"`
	PaymentStatus      PaymentStatus  `gorm:"type:varchar(16);not null;index" json:"paymentStatus"`
	PaymentMethod      string         `json:"paymentMethod,omitempty"`
	PaymentReference   *string        `gorm:"uniqueIndex" json:"paymentReference,omitempty"` // one order per charge; NULLs do not collide
	Status             OrderStatus    `gorm:"type:varchar(16);not null;index" json:"status"`
	JobStatus          *JobStatus     `gorm:"type:varchar(16);index" json:"jobStatus"`
	AssignedBarberID   *uint          `gorm:"index" json:"assignedBarberId"`
	AssignedBarber     *Barber        `gorm:"foreignKey:AssignedBarberID" json:"assignedBarber,omitempty"`
	AssignedAt         *time.Time     `json:"assignedAt,omitempty"`
	JobStatusUpdatedAt *time.Time     `json:"jobStatusUpdatedAt,omitempty"`
	DeclineReason      *string        `json:"declineReason,omitempty"`
	CancelledAt        *time.Time     `json:"cancelledAt,omitempty"`
	CreatedByID        *uint          `json:"createdById,omitempty"` // staff actor for dashboard-created orders
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// CurrentJobStatus returns the job status or "" when unassigned.
func (o *Order) CurrentJobStatus() JobStatus {
	if o.JobStatus == nil {
		return ""
	}
	return *o.JobStatus
}

// OrderItem is a denormalized line of an order.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"not null;index" json:"orderId"`
	Title      string  `gorm:"not null" json:"title"`
	Quantity   int     `gorm:"not null" json:"quantity"`
	UnitPrice  float64 `gorm:"not null" json:"unitPrice"`
	TotalPrice float64 `gorm:"not null" json:"totalPrice"`
	AgeGroup   string  `json:"ageGroup,omitempty"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderEvent is an append-only record of a status change on an order.
type OrderEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"orderId"`
	Field     string    `gorm:"not null" json:"field"` // status, paymentStatus or jobStatus
	From      string    `json:"from"`
	To        string    `gorm:"not null" json:"to"`
	ActorRole Role      `gorm:"type:varchar(16)" json:"actorRole"`
	ActorID   *uint     `json:"actorId"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the OrderEvent model
func (OrderEvent) TableName() string {
	return "order_events"
}
