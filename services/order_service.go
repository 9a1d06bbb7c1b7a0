package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const paymentMethodPaystack = "paystack"

// OrderItemInput is one requested service line.
type OrderItemInput struct {
	Title     string  `json:"title" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" binding:"gte=0"`
	AgeGroup  string  `json:"ageGroup"`
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	CustomerName     string           `json:"customerName" binding:"required"`
	CustomerEmail    string           `json:"customerEmail" binding:"required,email"`
	CustomerPhone    string           `json:"customerPhone" binding:"required"`
	City             string           `json:"city" binding:"required"`
	Location         string           `json:"location" binding:"required"`
	Address          *string          `json:"address"`
	Items            []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	TotalAmount      float64          `json:"totalAmount" binding:"required,gt=0"`
	PaymentReference string           `json:"paymentReference"`
	PaymentMethod    string           `json:"paymentMethod"`
}

func (in *CreateOrderInput) validate() error {
	switch {
	case strings.TrimSpace(in.CustomerName) == "":
		return Validation("customerName is required")
	case strings.TrimSpace(in.CustomerEmail) == "":
		return Validation("customerEmail is required")
	case strings.TrimSpace(in.CustomerPhone) == "":
		return Validation("customerPhone is required")
	case strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.Location) == "":
		return Validation("city and location are required")
	case len(in.Items) == 0:
		return Validation("At least one item is required")
	case in.TotalAmount <= 0:
		return Validation("totalAmount must be greater than zero")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Title) == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return Validation(fmt.Sprintf("items[%d] is invalid", i))
		}
	}
	return nil
}

// OrderFilter narrows the staff order list.
type OrderFilter struct {
	Status        string
	PaymentStatus string
	JobStatus     string
	Unassigned    bool
	Search        string
	Limit         int
	Offset        int
}

// OrderService owns order intake and the payment lifecycle.
type OrderService struct {
	db       *gorm.DB
	verifier PaymentVerifier
	outbox   *Outbox
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrderService creates an OrderService.
func NewOrderService(db *gorm.DB, verifier PaymentVerifier, outbox *Outbox, cfg *config.Config, logger *zap.Logger) *OrderService {
	return &OrderService{db: db, verifier: verifier, outbox: outbox, cfg: cfg, logger: orNop(logger), now: time.Now}
}

// ToMinorUnits converts a major-unit amount to minor units (kobo, cents),
// rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder validates and records an order. Payment verification and
// email delivery failures never fail the order.
func (s *OrderService) CreateOrder(ctx context.Context, actor *Actor, in CreateOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(in.CustomerEmail)
	if actor.Is(models.RoleCustomer) {
		email = s.customerEmailFor(ctx, actor)
	}

	if err := s.ensureCustomerEmail(ctx, email); err != nil {
		return nil, err
	}

	reference := strings.TrimSpace(in.PaymentReference)
	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if reference != "" {
		held, err := s.referenceHolder(ctx, s.db, reference)
		if err != nil {
			return nil, err
		}
		if held != 0 {
			s.logger.Warn("payment reference already used by another order",
				zap.String("reference", reference),
				zap.Uint("held_by_order_id", held),
			)
			reference = ""
		}
	}
	paymentStatus, status := s.resolvePayment(ctx, actor, method, reference, in.TotalAmount)

	order := models.Order{
		OrderNumber:   utils.NewOrderNumber(s.now()),
		CustomerEmail: email,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		City:          strings.TrimSpace(in.City),
		Location:      strings.TrimSpace(in.Location),
		Address:       trimmedOrNil(in.Address),
		TotalAmount:   in.TotalAmount,
		PaymentStatus: paymentStatus,
		PaymentMethod: method,
		Status:        status,
	}
	if reference != "" {
		order.PaymentReference = &reference
	}
	if actor.IsStaff() {
		order.CreatedByID = actor.idPtr()
	}
	for _, item := range in.Items {
		unit := decimal.NewFromFloat(item.UnitPrice)
		order.Items = append(order.Items, models.OrderItem{
			Title:      strings.TrimSpace(item.Title),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: unit.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2).InexactFloat64(),
			AgeGroup:   item.AgeGroup,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, welcome, err := s.resolveCustomer(ctx, tx, email, in)
		if err != nil {
			return err
		}
		order.CustomerID = &customer.ID

		// The reference may have been claimed while the charge was verified.
		if order.PaymentReference != nil {
			held, err := s.referenceHolder(ctx, tx, *order.PaymentReference)
			if err != nil {
				return err
			}
			if held != 0 {
				s.logger.Warn("payment reference claimed concurrently",
					zap.String("reference", *order.PaymentReference),
					zap.Uint("held_by_order_id", held),
				)
				order.PaymentReference = nil
				order.PaymentStatus = models.PaymentPending
				order.Status = models.OrderPending
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return Internal("Failed to create order", err)
		}
		if err := appendOrderEvent(ctx, tx, order.ID, "status", "", string(order.Status), actor, "order created"); err != nil {
			return err
		}

		data := orderEmailData(&order)
		emails := []Email{
			{Template: TemplateOrderConfirmation, To: order.CustomerEmail, Subject: "Booking received: " + order.OrderNumber, Data: data, OrderID: &order.ID},
			{Template: TemplateAdminNewOrder, To: s.cfg.AdminEmail, Subject: "New order " + order.OrderNumber, Data: data, OrderID: &order.ID},
		}
		if welcome != nil {
			emails = append(emails, *welcome)
		}
		for _, e := range emails {
			if err := s.outbox.Enqueue(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_status", string(order.PaymentStatus)),
	)
	return &order, nil
}

// ensureCustomerEmail rejects emails that belong to staff or barber
// accounts before any payment is verified.
func (s *OrderService) ensureCustomerEmail(ctx context.Context, email string) error {
	var roles []models.Role
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Limit(1).
		Pluck("role", &roles).Error
	if err != nil {
		return Internal("Failed to load customer", err)
	}
	if len(roles) > 0 && roles[0] != models.RoleCustomer {
		return ErrStaffEmail
	}
	return nil
}

// referenceHolder returns the id of the order already carrying reference,
// or 0 when it is unused. Soft-deleted orders still hold their reference.
func (s *OrderService) referenceHolder(ctx context.Context, db *gorm.DB, reference string) (uint, error) {
	var ids []uint
	err := db.WithContext(ctx).Unscoped().Model(&models.Order{}).
		Where("payment_reference = ?", reference).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, Internal("Failed to check payment reference", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func (s *OrderService) customerEmailFor(ctx context.Context, actor *Actor) string {
	var user models.User
	if err := s.db.WithContext(ctx).Select("email").First(&user, actor.ID).Error; err == nil && user.Email != "" {
		return NormalizeEmail(user.Email)
	}
	return NormalizeEmail(actor.Email)
}

// resolvePayment applies the payment policy: verified Paystack charges and
// staff-recorded manual payments are PAID, everything else stays PENDING.
func (s *OrderService) resolvePayment(ctx context.Context, actor *Actor, method, reference string, total float64) (models.PaymentStatus, models.OrderStatus) {
	if reference == "" {
		return models.PaymentPending, models.OrderPending
	}

	if method == paymentMethodPaystack {
		if s.paystackChargeMatches(ctx, reference, total) {
			return models.PaymentPaid, models.OrderConfirmed
		}
		return models.PaymentPending, models.OrderPending
	}

	if actor.IsStaff() {
		return models.PaymentPaid, models.OrderConfirmed
	}
	s.logger.Info("customer supplied unverifiable payment reference",
		zap.String("payment_method", method),
		zap.String("reference", reference),
	)
	return models.PaymentPending, models.OrderPending
}

func (s *OrderService) paystackChargeMatches(ctx context.Context, reference string, total float64) bool {
	log := s.logger.With(zap.String("reference", reference))
	if s.verifier == nil {
		log.Warn("payment verification unavailable")
		return false
	}

	result, err := s.verifier.Verify(ctx, reference)
	if err != nil {
		log.Warn("payment verification failed", zap.Error(err))
		return false
	}
	expected := ToMinorUnits(total)
	if result.Status != "success" {
		log.Warn("payment not successful", zap.String("provider_status", result.Status))
		return false
	}
	if result.AmountMinor != expected {
		log.Warn("payment amount mismatch",
			zap.Int64("expected_minor", expected),
			zap.Int64("paid_minor", result.AmountMinor),
		)
		return false
	}
	return true
}

// resolveCustomer finds or creates the user and customer rows for email.
// A welcome email is returned for newly provisioned users.
func (s *OrderService) resolveCustomer(ctx context.Context, tx *gorm.DB, email string, in CreateOrderInput) (*models.Customer, *Email, error) {
	var welcome *Email

	var user models.User
	err := tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := HashPassword(uuid.NewString())
		if err != nil {
			return nil, nil, Internal("Failed to provision customer", err)
		}
		token, expires := NewResetToken(s.now())
		user = models.User{
			Name:                   strings.TrimSpace(in.CustomerName),
			Email:                  email,
			Phone:                  strings.TrimSpace(in.CustomerPhone),
			PasswordHash:           hash,
			Role:                   models.RoleCustomer,
			PasswordResetToken:     &token,
			PasswordResetExpiresAt: &expires,
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, nil, Internal("Failed to provision customer", err)
		}
		welcome = &Email{
			Template: TemplateCustomerWelcome,
			To:       email,
			Subject:  "Your SharpFade account",
			Data: map[string]interface{}{
				"customerName": user.Name,
				"resetUrl":     fmt.Sprintf("%s/reset-password?token=%s", s.cfg.PublicBaseURL, token),
			},
		}
	case err != nil:
		return nil, nil, Internal("Failed to load customer", err)
	case user.Role != models.RoleCustomer:
		return nil, nil, ErrStaffEmail
	}

	var customer models.Customer
	err = tx.WithContext(ctx).Where("user_id = ?", user.ID).First(&customer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{
			UserID:  user.ID,
			Phone:   strings.TrimSpace(in.CustomerPhone),
			Address: trimmedOrNil(in.Address),
			City:    strings.TrimSpace(in.City),
		}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, nil, Internal("Failed to create customer profile", err)
		}
	case err != nil:
		return nil, nil, Internal("Failed to load customer profile", err)
	default:
		if addr := trimmedOrNil(in.Address); customer.Address == nil && addr != nil {
			if err := tx.Model(&customer).Update("address", *addr).Error; err != nil {
				return nil, nil, Internal("Failed to update customer address", err)
			}
			customer.Address = addr
		}
	}
	customer.User = user
	return &customer, welcome, nil
}

// ListOrders returns orders for the staff dashboard.
func (s *OrderService) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != "" {
		query = query.Where("status = ?", strings.ToUpper(f.Status))
	}
	if f.PaymentStatus != "" {
		query = query.Where("payment_status = ?", strings.ToUpper(f.PaymentStatus))
	}
	if f.JobStatus != "" {
		query = query.Where("job_status = ?", strings.ToUpper(f.JobStatus))
	}
	if f.Unassigned {
		query = query.Where("assigned_barber_id IS NULL")
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(customer_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, Internal("Failed to count orders", err)
	}

	var orders []models.Order
	err := query.Preload("Items").Preload("AssignedBarber.User").
		Order("created_at DESC, id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, Internal("Failed to list orders", err)
	}
	return orders, total, nil
}

// GetOrder loads an order visible to actor: staff, the owning customer or
// the assigned barber.
func (s *OrderService) GetOrder(ctx context.Context, actor *Actor, id uint) (*models.Order, error) {
	order, err := s.loadOrder(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrder(ctx, actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) loadOrder(ctx context.Context, db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("Customer.User").
		Preload("AssignedBarber.User").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, Internal("Failed to load order", err)
	}
	return &order, nil
}

func (s *OrderService) authorizeOrder(ctx context.Context, actor *Actor, order *models.Order) error {
	switch {
	case actor == nil:
		return ErrForbidden
	case actor.IsStaff():
		return nil
	case actor.Is(models.RoleCustomer):
		if order.Customer != nil && order.Customer.UserID == actor.ID {
			return nil
		}
	case actor.Is(models.RoleBarber):
		if order.AssignedBarber != nil && order.AssignedBarber.UserID == actor.ID {
			return nil
		}
	}
	return ErrForbidden
}

// ListCustomerOrders returns the orders placed by a CUSTOMER actor.
func (s *OrderService) ListCustomerOrders(ctx context.Context, actor *Actor) ([]models.Order, error) {
	if !actor.Is(models.RoleCustomer) {
		return nil, Forbidden("Only customers have personal orders")
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("AssignedBarber.User").
		Where("customer_id IN (?)", s.db.Model(&models.Customer{}).Select("id").Where("user_id = ?", actor.ID)).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, Internal("Failed to list orders", err)
	}
	return orders, nil
}

// VerifyPayment re-checks a pending Paystack order. It reports whether the
// order is now paid; a failed check leaves the order untouched.
func (s *OrderService) VerifyPayment(ctx context.Context, actor *Actor, id uint) (*models.Order, bool, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, false, err
	}
	if order.PaymentStatus == models.PaymentPaid {
		return order, true, nil
	}
	if order.PaymentStatus != models.PaymentPending {
		return order, false, withMessage(ErrInvalidTransition, "Order payment is %s", order.PaymentStatus)
	}
	if order.PaymentReference == nil || order.PaymentMethod != paymentMethodPaystack {
		return order, false, Validation("Order has no Paystack reference to verify")
	}

	if !s.paystackChargeMatches(ctx, *order.PaymentReference, order.TotalAmount) {
		return order, false, nil
	}
	if err := s.markPaid(ctx, order, actor, "payment verified"); err != nil {
		return nil, false, err
	}
	order, err = s.loadOrder(ctx, s.db, id)
	if err != nil {
		return nil, false, err
	}
	return order, true, nil
}

// HandlePaystackCharge applies a charge.success webhook. Unknown references
// and amount mismatches are logged and ignored so the provider stops retrying.
func (s *OrderService) HandlePaystackCharge(ctx context.Context, reference string, amountMinor int64) error {
	log := s.logger.With(zap.String("reference", reference))

	var order models.Order
	err := s.db.WithContext(ctx).Where("payment_reference = ?", reference).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("webhook for unknown payment reference")
		return nil
	}
	if err != nil {
		return Internal("Failed to load order", err)
	}
	if order.PaymentStatus != models.PaymentPending {
		log.Info("webhook for settled order ignored", zap.String("payment_status", string(order.PaymentStatus)))
		return nil
	}
	if expected := ToMinorUnits(order.TotalAmount); expected != amountMinor {
		log.Warn("webhook amount mismatch", zap.Int64("expected_minor", expected), zap.Int64("paid_minor", amountMinor))
		return nil
	}
	return s.markPaid(ctx, &order, nil, "paystack webhook")
}

// markPaid moves a PENDING payment to PAID and a PENDING order to CONFIRMED.
func (s *OrderService) markPaid(ctx context.Context, order *models.Order, actor *Actor, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ?", order.ID, models.PaymentPending).
			Update("payment_status", models.PaymentPaid)
		if res.Error != nil {
			return Internal("Failed to update payment", res.Error)
		}
		if res.RowsAffected == 0 {
			// settled concurrently
			return nil
		}
		if err := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderPending).
			Update("status", models.OrderConfirmed).Error; err != nil {
			return Internal("Failed to confirm order", err)
		}
		if err := appendOrderEvent(ctx, tx, order.ID, "paymentStatus", string(models.PaymentPending), string(models.PaymentPaid), actor, note); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, tx, Email{
			Template: TemplatePaymentConfirmed,
			To:       order.CustomerEmail,
			Subject:  "Payment confirmed: " + order.OrderNumber,
			Data:     orderEmailData(order),
			OrderID:  &order.ID,
		})
	})
}

// UpdatePaymentStatus applies a manual payment change made by staff.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, actor *Actor, id uint, to models.PaymentStatus, note string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	from := order.PaymentStatus
	if !models.CanTransitionPayment(from, to) {
		return nil, withMessage(ErrInvalidTransition, "Cannot change payment from %s to %s", from, to)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ?", id, from).
			Update("payment_status", to)
		if res.Error != nil {
			return Internal("Failed to update payment", res.Error)
		}
		if res.RowsAffected == 0 {
			return withMessage(ErrInvalidTransition, "Payment status changed concurrently")
		}
		if to == models.PaymentPaid {
			if err := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", id, models.OrderPending).
				Update("status", models.OrderConfirmed).Error; err != nil {
				return Internal("Failed to confirm order", err)
			}
		}
		return appendOrderEvent(ctx, tx, id, "paymentStatus", string(from), string(to), actor, note)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment status changed",
		zap.Uint("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Uint("actor_id", actor.ID),
	)
	return s.loadOrder(ctx, s.db, id)
}

// CancelOrder cancels a non-terminal order and notifies the parties.
func (s *OrderService) CancelOrder(ctx context.Context, actor *Actor, id uint, reason string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, withMessage(ErrInvalidTransition, "Order is already %s", order.Status)
	}

	now := s.now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status NOT IN ?", id, []models.OrderStatus{models.OrderCancelled, models.OrderCompleted}).
			Updates(map[string]interface{}{
				"status":       models.OrderCancelled,
				"cancelled_at": now,
			})
		if res.Error != nil {
			return Internal("Failed to cancel order", res.Error)
		}
		if res.RowsAffected == 0 {
			return withMessage(ErrInvalidTransition, "Order can no longer be cancelled")
		}
		if err := appendOrderEvent(ctx, tx, id, "status", string(order.Status), string(models.OrderCancelled), actor, reason); err != nil {
			return err
		}

		data := orderEmailData(order)
		data["reason"] = reason
		recipients := []string{order.CustomerEmail}
		if order.AssignedBarber != nil {
			recipients = append(recipients, order.AssignedBarber.User.Email)
		}
		for _, to := range recipients {
			if err := s.outbox.Enqueue(ctx, tx, Email{
				Template: TemplateOrderCancelled,
				To:       to,
				Subject:  "Order cancelled: " + order.OrderNumber,
				Data:     data,
				OrderID:  &order.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadOrder(ctx, s.db, id)
}

// ResendConfirmation queues the customer confirmation email again.
func (s *OrderService) ResendConfirmation(ctx context.Context, id uint) error {
	order, err := s.loadOrder(ctx, s.db, id)
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, nil, Email{
		Template: TemplateOrderConfirmation,
		To:       order.CustomerEmail,
		Subject:  "Booking received: " + order.OrderNumber,
		Data:     orderEmailData(order),
		OrderID:  &order.ID,
	})
}

// History returns the order's events, oldest first.
func (s *OrderService) History(ctx context.Context, actor *Actor, id uint) ([]models.OrderEvent, error) {
	if _, err := s.GetOrder(ctx, actor, id); err != nil {
		return nil, err
	}
	var events []models.OrderEvent
	if err := s.db.WithContext(ctx).Where("order_id = ?", id).Order("id ASC").Find(&events).Error; err != nil {
		return nil, Internal("Failed to load order history", err)
	}
	return events, nil
}

func orderEmailData(order *models.Order) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]interface{}{
			"title":    item.Title,
			"quantity": item.Quantity,
		})
	}
	data := map[string]interface{}{
		"orderId":       order.ID,
		"orderNumber":   order.OrderNumber,
		"customerName":  order.CustomerName,
		"customerEmail": order.CustomerEmail,
		"customerPhone": order.CustomerPhone,
		"city":          order.City,
		"location":      order.Location,
		"totalAmount":   decimal.NewFromFloat(order.TotalAmount).StringFixed(2),
		"paymentStatus": string(order.PaymentStatus),
		"items":         items,
	}
	if order.AssignedBarber != nil {
		data["barberName"] = order.AssignedBarber.User.Name
	}
	return data
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
