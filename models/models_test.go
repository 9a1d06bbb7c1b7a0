package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "customers", Customer{}.TableName())
	assert.Equal(t, "barbers", Barber{}.TableName())
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "order_items", OrderItem{}.TableName())
	assert.Equal(t, "order_events", OrderEvent{}.TableName())
	assert.Equal(t, "reviews", Review{}.TableName())
	assert.Equal(t, "review_audit_logs", ReviewAuditLog{}.TableName())
	assert.Equal(t, "notifications", Notification{}.TableName())
}

func TestRoleHelpers(t *testing.T) {
	tests := []struct {
		role    Role
		staff   bool
		isValid bool
	}{
		{RoleAdmin, true, true},
		{RoleRep, true, true},
		{RoleBarber, false, true},
		{RoleCustomer, false, true},
		{Role("technician"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.staff, tt.role.IsStaff())
			assert.Equal(t, tt.isValid, tt.role.Valid())
		})
	}
}

func TestCanTransitionJob(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{JobAssigned, JobAccepted, true},
		{JobAssigned, JobDeclined, true},
		{JobAccepted, JobOnTheWay, true},
		{JobAccepted, JobDeclined, true},
		{JobOnTheWay, JobArrived, true},
		{JobArrived, JobCompleted, true},
		{JobAccepted, JobArrived, false},
		{JobAssigned, JobCompleted, false},
		{JobOnTheWay, JobDeclined, false},
		{JobCompleted, JobArrived, false},
		{JobArrived, JobOnTheWay, false},
		{JobStatus(""), JobAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionJob(tt.from, tt.to))
		})
	}
}

func TestCanTransitionPayment(t *testing.T) {
	assert.True(t, CanTransitionPayment(PaymentPending, PaymentPaid))
	assert.True(t, CanTransitionPayment(PaymentPaid, PaymentRefunded))
	assert.True(t, CanTransitionPayment(PaymentFailed, PaymentPending))
	assert.False(t, CanTransitionPayment(PaymentRefunded, PaymentPaid))
	assert.False(t, CanTransitionPayment(PaymentPaid, PaymentPending))
}

func TestCanTransitionReview(t *testing.T) {
	assert.True(t, CanTransitionReview(ReviewNew, ReviewResponded))
	assert.True(t, CanTransitionReview(ReviewResponded, ReviewResponded))
	assert.True(t, CanTransitionReview(ReviewIgnored, ReviewEscalated))
	assert.True(t, CanTransitionReview(ReviewResolved, ReviewEscalated))
	assert.True(t, CanTransitionReview(ReviewResolved, ReviewIgnored))
	assert.True(t, CanTransitionReview(ReviewResolved, ReviewResponded))
	assert.False(t, CanTransitionReview(ReviewResolved, ReviewResolved))
	assert.False(t, CanTransitionReview(ReviewEscalated, ReviewEscalated))
	assert.False(t, CanTransitionReview(ReviewNew, ReviewNew))
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, OrderCompleted.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.False(t, OrderPending.IsTerminal())
	assert.False(t, OrderProcessing.IsTerminal())
}

func TestAutoMigratePersistsZeroValues(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	user := User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: RoleCustomer}
	require.NoError(t, db.Create(&user).Error)
	customer := Customer{UserID: user.ID}
	require.NoError(t, db.Create(&customer).Error)

	barberUser := User{Name: "Bo", Email: "bo@example.com", PasswordHash: "x", Role: RoleBarber}
	require.NoError(t, db.Create(&barberUser).Error)
	barber := Barber{UserID: barberUser.ID, Status: BarberActive}
	require.NoError(t, db.Create(&barber).Error)

	order := Order{
		OrderNumber:   "ORD-1",
		CustomerID:    &customer.ID,
		CustomerEmail: user.Email,
		CustomerName:  user.Name,
		TotalAmount:   25,
		PaymentStatus: PaymentPaid,
		Status:        OrderCompleted,
		Items:         []OrderItem{{Title: "Cut", Quantity: 1, UnitPrice: 25, TotalPrice: 25}},
	}
	require.NoError(t, db.Create(&order).Error)

	review := Review{
		OrderID:    order.ID,
		CustomerID: customer.ID,
		BarberID:   barber.ID,
		Rating:     4,
		IsVisible:  false,
		Status:     ReviewNew,
		Source:     SourceWebsite,
	}
	require.NoError(t, db.Create(&review).Error)

	var reloaded Review
	require.NoError(t, db.First(&reloaded, review.ID).Error)
	assert.False(t, reloaded.IsVisible, "hidden reviews must stay hidden after insert")

	var items []OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	assert.Len(t, items, 1)
	assert.Nil(t, order.JobStatus)
	assert.Equal(t, JobStatus(""), order.CurrentJobStatus())
}
