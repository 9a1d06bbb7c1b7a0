package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssignmentService assigns paid orders to barbers.
type AssignmentService struct {
	db     *gorm.DB
	outbox *Outbox
	photos *PhotoService
	logger *zap.Logger
	now    func() time.Time
}

// NewAssignmentService creates an AssignmentService. photos may be nil.
func NewAssignmentService(db *gorm.DB, outbox *Outbox, photos *PhotoService, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{db: db, outbox: outbox, photos: photos, logger: orNop(logger), now: time.Now}
}

// Assign gives an open, paid, unassigned order to an active barber. The
// guard lives in a single conditional update so two concurrent requests
// cannot both succeed.
func (s *AssignmentService) Assign(ctx context.Context, actor *Actor, orderID, barberID uint) (*models.Order, error) {
	var barber models.Barber
	err := s.db.WithContext(ctx).Preload("User").First(&barber, barberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBarberNotFound
	}
	if err != nil {
		return nil, Internal("Failed to load barber", err)
	}
	if barber.Status != models.BarberActive {
		return nil, withMessage(ErrBarberNotEligible, "Barber status is %s", barber.Status)
	}

	now := s.now().UTC()
	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND assigned_barber_id IS NULL AND payment_status = ? AND status NOT IN ?",
				orderID, models.PaymentPaid, []models.OrderStatus{models.OrderCancelled, models.OrderCompleted}).
			Updates(map[string]interface{}{
				"assigned_barber_id":    barber.ID,
				"job_status":            models.JobAssigned,
				"assigned_at":           now,
				"job_status_updated_at": now,
				"decline_reason":        nil,
			})
		if res.Error != nil {
			return Internal("Failed to assign order", res.Error)
		}
		if res.RowsAffected == 0 {
			return s.classifyAssignFailure(ctx, tx, orderID)
		}

		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			return Internal("Failed to reload order", err)
		}
		order.AssignedBarber = &barber
		if err := appendOrderEvent(ctx, tx, orderID, "jobStatus", "", string(models.JobAssigned), actor, "assigned to barber "+barber.User.Name); err != nil {
			return err
		}

		data := orderEmailData(&order)
		if err := s.outbox.Enqueue(ctx, tx, Email{
			Template: TemplateBarberAssigned,
			To:       barber.User.Email,
			Subject:  "New job: " + order.OrderNumber,
			Data:     data,
			OrderID:  &order.ID,
		}); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, tx, Email{
			Template: TemplateCustomerBarberAssigned,
			To:       order.CustomerEmail,
			Subject:  "Your barber for " + order.OrderNumber,
			Data:     data,
			OrderID:  &order.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order assigned",
		zap.Uint("order_id", orderID),
		zap.Uint("barber_id", barber.ID),
		zap.Uint("actor_id", actor.ID),
	)
	return &order, nil
}

func (s *AssignmentService) classifyAssignFailure(ctx context.Context, tx *gorm.DB, orderID uint) error {
	var current models.Order
	err := tx.WithContext(ctx).First(&current, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return Internal("Failed to load order", err)
	}
	if current.AssignedBarberID != nil {
		return ErrAlreadyAssigned
	}
	if current.Status.IsTerminal() {
		return withMessage(ErrOrderNotAssignable, "Order is %s", current.Status)
	}
	return withMessage(ErrOrderNotAssignable, "Order payment is %s", current.PaymentStatus)
}

// EligibleBarbers lists active barbers whose city or state fuzzily matches
// the order's city or location. Online barbers come first, then by rating.
func (s *AssignmentService) EligibleBarbers(ctx context.Context, orderID uint) ([]models.Barber, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, Internal("Failed to load order", err)
	}

	var active []models.Barber
	if err := s.db.WithContext(ctx).Preload("User").Where("status = ?", models.BarberActive).Find(&active).Error; err != nil {
		return nil, Internal("Failed to list barbers", err)
	}

	eligible := make([]models.Barber, 0, len(active))
	for _, b := range active {
		if utils.LocationMatches([]string{order.City, order.Location}, []string{b.City, b.State}) {
			eligible = append(eligible, b)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].IsOnline != eligible[j].IsOnline {
			return eligible[i].IsOnline
		}
		return eligible[i].RatingAvg > eligible[j].RatingAvg
	})

	if s.photos != nil {
		for i := range eligible {
			s.photos.AttachURL(ctx, &eligible[i])
		}
	}
	return eligible, nil
}
