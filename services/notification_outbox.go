package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sharpfade/barber-booking-api/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	baseRetryDelay = 30 * time.Second
	maxRetryDelay  = time.Hour
	claimLease     = 5 * time.Minute
	dispatchBatch  = 25
)

// Email is a notification waiting to be queued.
type Email struct {
	Template string
	To       string
	Subject  string
	Data     map[string]interface{}
	OrderID  *uint
}

// Outbox stores notifications next to the business rows that caused them.
type Outbox struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewOutbox creates an Outbox.
func NewOutbox(db *gorm.DB, logger *zap.Logger) *Outbox {
	return &Outbox{db: db, logger: orNop(logger), now: time.Now}
}

// Enqueue writes a PENDING notification using tx, so it commits or rolls
// back with the caller's mutation. A nil tx writes standalone. Emails
// without a recipient are skipped.
func (o *Outbox) Enqueue(ctx context.Context, tx *gorm.DB, email Email) error {
	to := strings.TrimSpace(email.To)
	if to == "" {
		o.logger.Debug("notification skipped, no recipient", zap.String("template", email.Template))
		return nil
	}
	if tx == nil {
		tx = o.db
	}

	payload, err := json.Marshal(email.Data)
	if err != nil {
		return Internal("Failed to encode notification", err)
	}

	n := models.Notification{
		Template:      email.Template,
		Recipient:     to,
		Subject:       email.Subject,
		Payload:       datatypes.JSON(payload),
		Status:        models.NotificationPending,
		NextAttemptAt: o.now().UTC(),
		OrderID:       email.OrderID,
	}
	if err := tx.WithContext(ctx).Create(&n).Error; err != nil {
		return Internal("Failed to queue notification", err)
	}
	return nil
}

// List returns notifications, newest first, optionally filtered by status.
func (o *Outbox) List(ctx context.Context, status string, limit, offset int) ([]models.Notification, int64, error) {
	query := o.db.WithContext(ctx).Model(&models.Notification{})
	if status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, Internal("Failed to count notifications", err)
	}
	var items []models.Notification
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, Internal("Failed to list notifications", err)
	}
	return items, total, nil
}

// Retry moves a FAILED notification back to PENDING with a fresh budget.
func (o *Outbox) Retry(ctx context.Context, id uint) (*models.Notification, error) {
	res := o.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.NotificationFailed).
		Updates(map[string]interface{}{
			"status":          models.NotificationPending,
			"attempts":        0,
			"next_attempt_at": o.now().UTC(),
		})
	if res.Error != nil {
		return nil, Internal("Failed to retry notification", res.Error)
	}

	var n models.Notification
	if err := o.db.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, Internal("Failed to load notification", err)
	}
	if res.RowsAffected == 0 {
		return nil, withMessage(ErrInvalidTransition, "Only FAILED notifications can be retried")
	}
	return &n, nil
}

// RetryDelay is the wait before attempt number attempts+1, doubling from
// 30s and capped at one hour.
func RetryDelay(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	delay := baseRetryDelay
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

// Dispatcher delivers due outbox rows.
type Dispatcher struct {
	db          *gorm.DB
	mailer      Mailer
	renderer    *EmailRenderer
	logger      *zap.Logger
	interval    time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewDispatcher creates a Dispatcher polling every interval.
func NewDispatcher(db *gorm.DB, mailer Mailer, renderer *EmailRenderer, logger *zap.Logger, interval time.Duration, maxAttempts int) *Dispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Dispatcher{
		db:          db,
		mailer:      mailer,
		renderer:    renderer,
		logger:      orNop(logger),
		interval:    interval,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("notification dispatcher started", zap.Duration("interval", d.interval))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := d.DispatchDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Error("notification dispatch failed", zap.Error(err))
			}
		}
	}
}

// DispatchDue delivers one batch of due notifications and returns how many
// were sent.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	now := d.now().UTC()

	var due []models.Notification
	err := d.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", models.NotificationPending, now).
		Order("next_attempt_at ASC, id ASC").
		Limit(dispatchBatch).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		n := &due[i]
		claimed, err := d.claim(ctx, n, now)
		if err != nil {
			return sent, err
		}
		if !claimed {
			continue
		}
		if d.deliver(ctx, n) {
			sent++
		}
	}
	return sent, nil
}

// claim leases a row by pushing next_attempt_at forward; only one
// dispatcher wins the conditional update.
func (d *Dispatcher) claim(ctx context.Context, n *models.Notification, now time.Time) (bool, error) {
	res := d.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND status = ? AND attempts = ? AND next_attempt_at <= ?", n.ID, models.NotificationPending, n.Attempts, now).
		Update("next_attempt_at", now.Add(claimLease))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *models.Notification) bool {
	log := d.logger.With(zap.Uint("notification_id", n.ID), zap.String("template", n.Template))

	var data map[string]interface{}
	if len(n.Payload) > 0 {
		if err := json.Unmarshal(n.Payload, &data); err != nil {
			d.markFailure(ctx, n, err, true)
			log.Error("notification payload unreadable", zap.Error(err))
			return false
		}
	}

	body, err := d.renderer.Render(n.Template, data)
	if err != nil {
		d.markFailure(ctx, n, err, true)
		log.Error("notification template failed", zap.Error(err))
		return false
	}

	if err := d.mailer.Send(ctx, EmailMessage{To: n.Recipient, Subject: n.Subject, HTMLBody: body}); err != nil {
		d.markFailure(ctx, n, err, false)
		log.Warn("notification delivery failed", zap.Int("attempts", n.Attempts+1), zap.Error(err))
		return false
	}

	sentAt := d.now().UTC()
	err = d.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", n.ID).
		Updates(map[string]interface{}{
			"status":     models.NotificationSent,
			"attempts":   n.Attempts + 1,
			"sent_at":    sentAt,
			"last_error": nil,
		}).Error
	if err != nil {
		log.Error("failed to mark notification sent", zap.Error(err))
		return false
	}
	log.Info("notification sent", zap.String("recipient", n.Recipient))
	return true
}

func (d *Dispatcher) markFailure(ctx context.Context, n *models.Notification, cause error, permanent bool) {
	attempts := n.Attempts + 1
	msg := cause.Error()
	updates := map[string]interface{}{
		"attempts":   attempts,
		"last_error": msg,
	}
	if permanent || attempts >= d.maxAttempts {
		updates["status"] = models.NotificationFailed
	} else {
		updates["next_attempt_at"] = d.now().UTC().Add(RetryDelay(n.Attempts))
	}

	if err := d.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", n.ID).Updates(updates).Error; err != nil {
		d.logger.Error("failed to record notification failure", zap.Uint("notification_id", n.ID), zap.Error(err))
	}
}
