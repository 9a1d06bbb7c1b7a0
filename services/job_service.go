package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sharpfade/barber-booking-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// jobEmails maps a job status to the customer email it triggers.
var jobEmails = map[models.JobStatus]struct {
	template string
	subject  string
}{
	models.JobAccepted:  {TemplateJobAccepted, "Your barber accepted "},
	models.JobOnTheWay:  {TemplateJobOnTheWay, "Your barber is on the way: "},
	models.JobArrived:   {TemplateJobArrived, "Your barber has arrived: "},
	models.JobCompleted: {TemplateJobCompleted, "Order completed: "},
}

// JobService drives the barber side of an assigned order.
type JobService struct {
	db         *gorm.DB
	outbox     *Outbox
	adminEmail string
	logger     *zap.Logger
	now        func() time.Time
}

// NewJobService creates a JobService. Decline notices go to adminEmail.
func NewJobService(db *gorm.DB, outbox *Outbox, adminEmail string, logger *zap.Logger) *JobService {
	return &JobService{db: db, outbox: outbox, adminEmail: adminEmail, logger: orNop(logger), now: time.Now}
}

// ListJobs returns the orders currently assigned to a BARBER actor.
func (s *JobService) ListJobs(ctx context.Context, actor *Actor, jobStatus string) ([]models.Order, error) {
	barber, err := barberForActor(ctx, s.db, actor)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Preload("Items").Where("assigned_barber_id = ?", barber.ID)
	if jobStatus != "" {
		query = query.Where("job_status = ?", strings.ToUpper(jobStatus))
	}
	var orders []models.Order
	if err := query.Order("assigned_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, Internal("Failed to list jobs", err)
	}
	return orders, nil
}

// Accept is the barber accepting an assigned job.
func (s *JobService) Accept(ctx context.Context, actor *Actor, orderID uint) (*models.Order, error) {
	return s.UpdateStatus(ctx, actor, orderID, models.JobAccepted, "")
}

// Decline returns the order to the unassigned pool.
func (s *JobService) Decline(ctx context.Context, actor *Actor, orderID uint, reason string) (*models.Order, error) {
	return s.UpdateStatus(ctx, actor, orderID, models.JobDeclined, reason)
}

// UpdateStatus moves a job along the transition table. Only the assigned
// barber or an ADMIN may act. The update is conditional on the status read,
// so of two racing callers exactly one succeeds.
func (s *JobService) UpdateStatus(ctx context.Context, actor *Actor, orderID uint, to models.JobStatus, note string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, order); err != nil {
		return nil, err
	}

	from := order.CurrentJobStatus()
	if from == "" || order.AssignedBarberID == nil {
		return nil, withMessage(ErrInvalidTransition, "Order has no active assignment")
	}
	if order.Status.IsTerminal() {
		return nil, withMessage(ErrInvalidTransition, "Order is %s", order.Status)
	}
	if !models.CanTransitionJob(from, to) {
		return nil, withMessage(ErrInvalidTransition, "Cannot move job from %s to %s", from, to)
	}

	now := s.now().UTC()
	updates := map[string]interface{}{
		"job_status":            to,
		"job_status_updated_at": now,
	}
	switch to {
	case models.JobAccepted:
		updates["status"] = models.OrderProcessing
	case models.JobCompleted:
		updates["status"] = models.OrderCompleted
	case models.JobDeclined:
		updates["job_status"] = nil
		updates["assigned_barber_id"] = nil
		updates["assigned_at"] = nil
		updates["decline_reason"] = strings.TrimSpace(note)
		if order.Status == models.OrderProcessing {
			updates["status"] = models.OrderConfirmed
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND job_status = ? AND assigned_barber_id = ?", order.ID, from, *order.AssignedBarberID).
			Updates(updates)
		if res.Error != nil {
			return Internal("Failed to update job status", res.Error)
		}
		if res.RowsAffected == 0 {
			return withMessage(ErrInvalidTransition, "Job status changed concurrently")
		}
		if err := appendOrderEvent(ctx, tx, order.ID, "jobStatus", string(from), string(to), actor, note); err != nil {
			return err
		}
		if newStatus, ok := updates["status"].(models.OrderStatus); ok {
			if err := appendOrderEvent(ctx, tx, order.ID, "status", string(order.Status), string(newStatus), actor, ""); err != nil {
				return err
			}
		}
		return s.notify(ctx, tx, order, to, note)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job status changed",
		zap.Uint("order_id", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor_role", string(actor.roleOrSystem())),
	)
	return s.loadOrder(ctx, orderID)
}

func (s *JobService) notify(ctx context.Context, tx *gorm.DB, order *models.Order, to models.JobStatus, note string) error {
	data := orderEmailData(order)
	if to == models.JobDeclined {
		data["reason"] = note
		return s.outbox.Enqueue(ctx, tx, Email{
			Template: TemplateAdminJobDeclined,
			To:       s.adminEmail,
			Subject:  "Job declined: " + order.OrderNumber,
			Data:     data,
			OrderID:  &order.ID,
		})
	}

	email, ok := jobEmails[to]
	if !ok {
		return nil
	}
	return s.outbox.Enqueue(ctx, tx, Email{
		Template: email.template,
		To:       order.CustomerEmail,
		Subject:  email.subject + order.OrderNumber,
		Data:     data,
		OrderID:  &order.ID,
	})
}

func (s *JobService) authorize(ctx context.Context, actor *Actor, order *models.Order) error {
	if actor.Is(models.RoleAdmin) {
		return nil
	}
	barber, err := barberForActor(ctx, s.db, actor)
	if err != nil {
		return err
	}
	if order.AssignedBarberID == nil || *order.AssignedBarberID != barber.ID {
		return Forbidden("This job is not assigned to you")
	}
	return nil
}

func (s *JobService) loadOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").Preload("AssignedBarber.User").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, Internal("Failed to load order", err)
	}
	return &order, nil
}

// SetAvailability toggles whether a barber is taking jobs right now.
func (s *JobService) SetAvailability(ctx context.Context, actor *Actor, online bool) (*models.Barber, error) {
	barber, err := barberForActor(ctx, s.db, actor)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(barber).Update("is_online", online).Error; err != nil {
		return nil, Internal("Failed to update availability", err)
	}
	barber.IsOnline = online
	return barber, nil
}
