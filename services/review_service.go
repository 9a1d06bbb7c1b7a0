package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Moderation actions accepted by Moderate.
const (
	ActionAssign           = "assign"
	ActionEscalate         = "escalate"
	ActionResolve          = "resolve"
	ActionIgnore           = "ignore"
	ActionHide             = "hide"
	ActionShow             = "show"
	ActionToggleVisibility = "toggle-visibility"
	ActionInternalNotes    = "internal-notes"
	ActionAdminResponse    = "admin-response"
)

const dateLayout = "2006-01-02"

var knownActions = map[string]bool{
	ActionAssign:           true,
	ActionEscalate:         true,
	ActionResolve:          true,
	ActionIgnore:           true,
	ActionHide:             true,
	ActionShow:             true,
	ActionToggleVisibility: true,
	ActionInternalNotes:    true,
	ActionAdminResponse:    true,
}

// IsVisibilityAction reports whether action changes review visibility.
func IsVisibilityAction(action string) bool {
	return action == ActionHide || action == ActionShow || action == ActionToggleVisibility
}

// ModerationRequest is the body of a review moderation call. Older clients
// send only isVisible, internalNotes or adminResponse without an action.
type ModerationRequest struct {
	Action            string  `json:"action"`
	AssignedToID      *uint   `json:"assignedToId"`
	ResolutionOutcome *string `json:"resolutionOutcome"`
	IsVisible         *bool   `json:"isVisible"`
	InternalNotes     *string `json:"internalNotes"`
	AdminResponse     *string `json:"adminResponse"`
}

// ResolveAction returns the action to run, mapping legacy bodies onto
// actions. Requests with nothing recognisable fail with ErrInvalidAction.
func (r ModerationRequest) ResolveAction() (string, error) {
	action := strings.ToLower(strings.TrimSpace(r.Action))
	if knownActions[action] {
		return action, nil
	}
	switch {
	case r.IsVisible != nil:
		if *r.IsVisible {
			return ActionShow, nil
		}
		return ActionHide, nil
	case r.AdminResponse != nil:
		return ActionAdminResponse, nil
	case r.InternalNotes != nil:
		return ActionInternalNotes, nil
	}
	if action == "" {
		return "", withMessage(ErrInvalidAction, "action is required")
	}
	return "", withMessage(ErrInvalidAction, "Unknown action %q", r.Action)
}

// ReviewFilter narrows the moderation list.
type ReviewFilter struct {
	Visibility   string
	StartDate    string
	EndDate      string
	BarberID     uint
	Rating       int
	Source       string
	ReviewStatus string
	Page         int
	Limit        int
}

// ReviewPage is one page of the moderation list.
type ReviewPage struct {
	Reviews    []models.Review `json:"reviews"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

// CreateReviewInput is a customer's review of a completed order.
type CreateReviewInput struct {
	OrderID uint   `json:"orderId" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewService moderates reviews and keeps barber ratings in step with the
// visible review set.
type ReviewService struct {
	db     *gorm.DB
	logger *zap.Logger
	clock  func() time.Time
}

// NewReviewService creates a ReviewService.
func NewReviewService(db *gorm.DB, logger *zap.Logger) *ReviewService {
	return &ReviewService{db: db, logger: orNop(logger), clock: time.Now}
}

// List returns a filtered, paginated page of reviews, newest first.
func (s *ReviewService) List(ctx context.Context, f ReviewFilter) (*ReviewPage, error) {
	query := s.db.WithContext(ctx).Model(&models.Review{})

	switch strings.ToLower(f.Visibility) {
	case "", "all":
	case "visible":
		query = query.Where("is_visible = ?", true)
	case "hidden":
		query = query.Where("is_visible = ?", false)
	default:
		return nil, Validation("visibility must be visible, hidden or all")
	}

	if f.StartDate != "" {
		start, err := time.ParseInLocation(dateLayout, f.StartDate, time.UTC)
		if err != nil {
			return nil, Validation("startDate must be YYYY-MM-DD")
		}
		query = query.Where("created_at >= ?", now.With(start).BeginningOfDay())
	}
	if f.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, f.EndDate, time.UTC)
		if err != nil {
			return nil, Validation("endDate must be YYYY-MM-DD")
		}
		query = query.Where("created_at <= ?", now.With(end).EndOfDay())
	}
	if f.BarberID != 0 {
		query = query.Where("barber_id = ?", f.BarberID)
	}
	if f.Rating != 0 {
		if f.Rating < 1 || f.Rating > 5 {
			return nil, Validation("rating must be between 1 and 5")
		}
		query = query.Where("rating = ?", f.Rating)
	}
	if f.Source != "" {
		query = query.Where("source = ?", strings.ToUpper(f.Source))
	}
	if f.ReviewStatus != "" {
		query = query.Where("status = ?", strings.ToUpper(f.ReviewStatus))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Internal("Failed to count reviews", err)
	}

	var reviews []models.Review
	err := query.
		Preload("Barber.User").
		Preload("Customer.User").
		Preload("Order").
		Order("created_at DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, Internal("Failed to list reviews", err)
	}

	return &ReviewPage{
		Reviews:    reviews,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: utils.TotalPages(total, f.Limit),
	}, nil
}

// Get loads a review with its relations and audit history, oldest first.
func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, []models.ReviewAuditLog, error) {
	var review models.Review
	err := s.db.WithContext(ctx).
		Preload("Barber.User").
		Preload("Customer.User").
		Preload("Order.Items").
		First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, nil, Internal("Failed to load review", err)
	}

	var logs []models.ReviewAuditLog
	if err := s.db.WithContext(ctx).Where("review_id = ?", id).Order("created_at ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, nil, Internal("Failed to load audit log", err)
	}
	return &review, logs, nil
}

// Moderate applies one moderation action and records it in the audit log.
// Visibility actions are ADMIN only and recompute the barber rating in the
// same transaction.
func (s *ReviewService) Moderate(ctx context.Context, actor *Actor, id uint, req ModerationRequest) (*models.Review, error) {
	if !actor.IsStaff() {
		return nil, Forbidden("Only staff can moderate reviews")
	}
	action, err := req.ResolveAction()
	if err != nil {
		return nil, err
	}
	if IsVisibilityAction(action) && !actor.Is(models.RoleAdmin) {
		return nil, Forbidden("Only admins can change review visibility")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return Internal("Failed to load review", err)
		}
		return s.apply(ctx, tx, actor, &review, action, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review moderated",
		zap.Uint("review_id", id),
		zap.String("action", action),
		zap.Uint("actor_id", actor.ID),
	)
	review, _, err := s.Get(ctx, id)
	return review, err
}

func (s *ReviewService) apply(ctx context.Context, tx *gorm.DB, actor *Actor, review *models.Review, action string, req ModerationRequest) error {
	ts := s.clock().UTC()
	meta := map[string]interface{}{"actorRole": string(actor.Role)}

	switch action {
	case ActionAssign:
		if req.AssignedToID == nil {
			return Validation("assignedToId is required")
		}
		var assignee models.User
		if err := tx.First(&assignee, *req.AssignedToID).Error; err != nil || !assignee.Role.IsStaff() {
			return Validation("assignedToId must reference an admin or rep")
		}
		meta["assignedToId"] = assignee.ID
		meta["previousAssignedToId"] = review.AssignedToID
		if err := s.update(tx, review, "", map[string]interface{}{"assigned_to_id": assignee.ID}); err != nil {
			return err
		}
		return s.audit(tx, review.ID, models.AuditAssign, actor, meta)

	case ActionEscalate:
		if err := s.transition(tx, review, models.ReviewEscalated, map[string]interface{}{"escalated_at": ts}); err != nil {
			return err
		}
		meta["from"] = review.Status
		return s.audit(tx, review.ID, models.AuditEscalate, actor, meta)

	case ActionResolve:
		updates := map[string]interface{}{"resolved_at": ts}
		if req.ResolutionOutcome != nil {
			outcome := strings.TrimSpace(*req.ResolutionOutcome)
			updates["resolution_outcome"] = outcome
			meta["resolutionOutcome"] = outcome
		}
		if err := s.transition(tx, review, models.ReviewResolved, updates); err != nil {
			return err
		}
		meta["from"] = review.Status
		return s.audit(tx, review.ID, models.AuditResolve, actor, meta)

	case ActionIgnore:
		if err := s.transition(tx, review, models.ReviewIgnored, nil); err != nil {
			return err
		}
		meta["from"] = review.Status
		return s.audit(tx, review.ID, models.AuditIgnore, actor, meta)

	case ActionHide, ActionShow, ActionToggleVisibility:
		visible := action == ActionShow
		if action == ActionToggleVisibility {
			visible = !review.IsVisible
		}
		if err := s.update(tx, review, "", map[string]interface{}{"is_visible": visible}); err != nil {
			return err
		}
		if err := RecomputeBarberRating(ctx, tx, review.BarberID); err != nil {
			return err
		}
		auditAction := models.AuditUnhide
		if !visible {
			auditAction = models.AuditHide
		}
		meta["wasVisible"] = review.IsVisible
		meta["isVisible"] = visible
		return s.audit(tx, review.ID, auditAction, actor, meta)

	case ActionInternalNotes:
		notes := ""
		if req.InternalNotes != nil {
			notes = strings.TrimSpace(*req.InternalNotes)
		}
		if err := s.update(tx, review, "", map[string]interface{}{"internal_notes": notes}); err != nil {
			return err
		}
		meta["length"] = len(notes)
		return s.audit(tx, review.ID, models.AuditNote, actor, meta)

	case ActionAdminResponse:
		if req.AdminResponse == nil || strings.TrimSpace(*req.AdminResponse) == "" {
			return Validation("adminResponse is required")
		}
		response := strings.TrimSpace(*req.AdminResponse)
		if err := s.transition(tx, review, models.ReviewResponded, map[string]interface{}{
			"admin_response":    response,
			"admin_response_at": ts,
		}); err != nil {
			return err
		}
		meta["from"] = review.Status
		meta["response"] = response
		return s.audit(tx, review.ID, models.AuditRespond, actor, meta)
	}
	return ErrInvalidAction
}

// transition moves the review status along the moderation table.
func (s *ReviewService) transition(tx *gorm.DB, review *models.Review, to models.ReviewStatus, extra map[string]interface{}) error {
	if !models.CanTransitionReview(review.Status, to) {
		return withMessage(ErrInvalidTransition, "Cannot move review from %s to %s", review.Status, to)
	}
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	return s.update(tx, review, review.Status, updates)
}

// update writes columns on the review, guarded by the status it was read
// with when expectStatus is set.
func (s *ReviewService) update(tx *gorm.DB, review *models.Review, expectStatus models.ReviewStatus, updates map[string]interface{}) error {
	query := tx.Model(&models.Review{}).Where("id = ?", review.ID)
	if expectStatus != "" {
		query = query.Where("status = ?", expectStatus)
	}
	res := query.Updates(updates)
	if res.Error != nil {
		return Internal("Failed to update review", res.Error)
	}
	if res.RowsAffected == 0 {
		return withMessage(ErrInvalidTransition, "Review changed concurrently")
	}
	return nil
}

func (s *ReviewService) audit(tx *gorm.DB, reviewID uint, action string, actor *Actor, meta map[string]interface{}) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return Internal("Failed to encode audit metadata", err)
	}
	entry := models.ReviewAuditLog{
		ReviewID:    reviewID,
		Action:      action,
		PerformedBy: actor.ID,
		Metadata:    datatypes.JSON(raw),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return Internal("Failed to write audit log", err)
	}
	return nil
}

// Delete removes a review (ADMIN only), recomputes the barber rating and
// appends a DELETE audit entry, all in one transaction.
func (s *ReviewService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if !actor.Is(models.RoleAdmin) {
		return Forbidden("Only admins can delete reviews")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return Internal("Failed to load review", err)
		}

		res := tx.Delete(&models.Review{}, review.ID)
		if res.Error != nil {
			return Internal("Failed to delete review", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		if err := RecomputeBarberRating(ctx, tx, review.BarberID); err != nil {
			return err
		}
		return s.audit(tx, review.ID, models.AuditDelete, actor, map[string]interface{}{
			"actorRole":  string(actor.Role),
			"barberId":   review.BarberID,
			"orderId":    review.OrderID,
			"rating":     review.Rating,
			"wasVisible": review.IsVisible,
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("review deleted", zap.Uint("review_id", id), zap.Uint("actor_id", actor.ID))
	return nil
}

// Create records a customer's review of their own completed order.
func (s *ReviewService) Create(ctx context.Context, actor *Actor, in CreateReviewInput) (*models.Review, error) {
	if !actor.Is(models.RoleCustomer) {
		return nil, Forbidden("Only customers can leave reviews")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, Validation("rating must be between 1 and 5")
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Customer").First(&order, in.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return Internal("Failed to load order", err)
		}
		if order.Customer == nil || order.Customer.UserID != actor.ID {
			return ErrForbidden
		}
		if order.Status != models.OrderCompleted || order.AssignedBarberID == nil {
			return Validation("Only completed orders can be reviewed")
		}

		var existing int64
		if err := tx.Model(&models.Review{}).Where("order_id = ?", order.ID).Count(&existing).Error; err != nil {
			return Internal("Failed to check existing review", err)
		}
		if existing > 0 {
			return ErrReviewExists
		}

		review = models.Review{
			OrderID:    order.ID,
			CustomerID: order.Customer.ID,
			BarberID:   *order.AssignedBarberID,
			Rating:     in.Rating,
			Comment:    strings.TrimSpace(in.Comment),
			IsVisible:  true,
			Status:     models.ReviewNew,
			Source:     models.SourceWebsite,
		}
		if err := tx.Create(&review).Error; err != nil {
			return Internal("Failed to create review", err)
		}
		return RecomputeBarberRating(ctx, tx, review.BarberID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// BarberRespond stores the assigned barber's public reply to a review.
func (s *ReviewService) BarberRespond(ctx context.Context, actor *Actor, id uint, response string) (*models.Review, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, Validation("barberResponse is required")
	}
	barber, err := barberForActor(ctx, s.db, actor)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return Internal("Failed to load review", err)
		}
		if review.BarberID != barber.ID {
			return Forbidden("This review is not about you")
		}
		if err := s.update(tx, &review, "", map[string]interface{}{
			"barber_response":    response,
			"barber_response_at": s.clock().UTC(),
		}); err != nil {
			return err
		}
		return s.audit(tx, review.ID, models.AuditBarberRespond, actor, map[string]interface{}{
			"actorRole": string(actor.Role),
			"response":  response,
		})
	})
	if err != nil {
		return nil, err
	}
	review, _, err := s.Get(ctx, id)
	return review, err
}

// ListForBarber returns the visible reviews about a BARBER actor.
func (s *ReviewService) ListForBarber(ctx context.Context, actor *Actor) ([]models.Review, error) {
	barber, err := barberForActor(ctx, s.db, actor)
	if err != nil {
		return nil, err
	}
	var reviews []models.Review
	err = s.db.WithContext(ctx).
		Preload("Customer.User").
		Where("barber_id = ? AND is_visible = ?", barber.ID, true).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, Internal("Failed to list reviews", err)
	}
	return reviews, nil
}

// RecomputeBarberRating rescans the barber's visible reviews and stores their
// mean and count. It must run on the transaction that changed the reviews.
func RecomputeBarberRating(ctx context.Context, tx *gorm.DB, barberID uint) error {
	var agg struct {
		Count int64
		Avg   sql.NullFloat64
	}
	err := tx.WithContext(ctx).Model(&models.Review{}).
		Select("COUNT(*) AS count, AVG(CAST(rating AS FLOAT)) AS avg").
		Where("barber_id = ? AND is_visible = ?", barberID, true).
		Scan(&agg).Error
	if err != nil {
		return Internal("Failed to aggregate ratings", err)
	}

	avg := 0.0
	if agg.Count > 0 && agg.Avg.Valid {
		avg = agg.Avg.Float64
	}
	err = tx.WithContext(ctx).Model(&models.Barber{}).Where("id = ?", barberID).
		Updates(map[string]interface{}{
			"rating_avg":    avg,
			"total_reviews": agg.Count,
		}).Error
	if err != nil {
		return Internal("Failed to update barber rating", err)
	}
	return nil
}
