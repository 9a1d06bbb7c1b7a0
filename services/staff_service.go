package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateStaffInput is the body for creating an ADMIN, REP or BARBER account.
type CreateStaffInput struct {
	Name     string              `json:"name" binding:"required"`
	Email    string              `json:"email" binding:"required,email"`
	Phone    string              `json:"phone"`
	Password string              `json:"password" binding:"required,min=8"`
	Role     models.Role         `json:"role" binding:"required"`
	City     string              `json:"city"`
	State    string              `json:"state"`
	Status   models.BarberStatus `json:"status"`
}

// UpdateBarberInput carries the admin-editable barber fields. Nil fields are
// left unchanged.
type UpdateBarberInput struct {
	Status         *models.BarberStatus `json:"status"`
	CommissionRate *float64             `json:"commissionRate"`
	City           *string              `json:"city"`
	State          *string              `json:"state"`
}

// CustomerSummary is a customer row with lifetime order totals.
type CustomerSummary struct {
	models.Customer
	OrderCount int64   `json:"orderCount"`
	TotalSpent float64 `json:"totalSpent"`
}

// StaffService manages staff accounts, barber profiles and the customer list.
type StaffService struct {
	db     *gorm.DB
	photos *PhotoService
	logger *zap.Logger
}

// NewStaffService creates a StaffService. photos may be nil.
func NewStaffService(db *gorm.DB, photos *PhotoService, logger *zap.Logger) *StaffService {
	return &StaffService{db: db, photos: photos, logger: orNop(logger)}
}

// CreateStaff creates a dashboard or barber account. BARBER accounts also
// get a barber profile, PENDING_APPROVAL unless a status is given.
func (s *StaffService) CreateStaff(ctx context.Context, in CreateStaffInput) (*models.User, *models.Barber, error) {
	switch in.Role {
	case models.RoleAdmin, models.RoleRep, models.RoleBarber:
	default:
		return nil, nil, Validation("role must be ADMIN, REP or BARBER")
	}
	if len(in.Password) < minPasswordLength {
		return nil, nil, Validation("password must be at least 8 characters")
	}
	status := in.Status
	if status == "" {
		status = models.BarberPendingApproval
	}
	if !status.Valid() {
		return nil, nil, Validation("status is not a valid barber status")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, nil, Internal("Failed to hash password", err)
	}
	email := NormalizeEmail(in.Email)

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         in.Role,
	}
	var barber *models.Barber

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
			return Internal("Failed to check email", err)
		}
		if taken > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			return Internal("Failed to create user", err)
		}
		if in.Role != models.RoleBarber {
			return nil
		}
		barber = &models.Barber{
			UserID:         user.ID,
			City:           strings.TrimSpace(in.City),
			State:          strings.TrimSpace(in.State),
			Status:         status,
			CommissionRate: models.DefaultCommissionRate,
		}
		if err := tx.Create(barber).Error; err != nil {
			return Internal("Failed to create barber profile", err)
		}
		barber.User = user
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("staff account created", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &user, barber, nil
}

// ListBarbers returns barber profiles filtered by status and city.
func (s *StaffService) ListBarbers(ctx context.Context, status, city string) ([]models.Barber, error) {
	query := s.db.WithContext(ctx).Preload("User")
	if status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}
	if city != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	var barbers []models.Barber
	if err := query.Order("rating_avg DESC, id ASC").Find(&barbers).Error; err != nil {
		return nil, Internal("Failed to list barbers", err)
	}
	s.attachPhotos(ctx, barbers)
	return barbers, nil
}

// GetBarber loads one barber profile.
func (s *StaffService) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	var barber models.Barber
	err := s.db.WithContext(ctx).Preload("User").First(&barber, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBarberNotFound
	}
	if err != nil {
		return nil, Internal("Failed to load barber", err)
	}
	if s.photos != nil {
		s.photos.AttachURL(ctx, &barber)
	}
	return &barber, nil
}

// BarberProfile returns the barber profile of a BARBER actor.
func (s *StaffService) BarberProfile(ctx context.Context, actor *Actor) (*models.Barber, error) {
	barber, err := barberForActor(ctx, s.db, actor)
	if err != nil {
		return nil, err
	}
	if s.photos != nil {
		s.photos.AttachURL(ctx, barber)
	}
	return barber, nil
}

// UpdateBarber applies admin edits to a barber profile.
func (s *StaffService) UpdateBarber(ctx context.Context, id uint, in UpdateBarberInput) (*models.Barber, error) {
	updates := map[string]interface{}{}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, Validation("status is not a valid barber status")
		}
		updates["status"] = *in.Status
		if *in.Status != models.BarberActive {
			updates["is_online"] = false
		}
	}
	if in.CommissionRate != nil {
		if *in.CommissionRate < 0 || *in.CommissionRate > 1 {
			return nil, Validation("commissionRate must be between 0 and 1")
		}
		updates["commission_rate"] = *in.CommissionRate
	}
	if in.City != nil {
		updates["city"] = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		updates["state"] = strings.TrimSpace(*in.State)
	}
	if len(updates) == 0 {
		return nil, Validation("No fields to update")
	}

	res := s.db.WithContext(ctx).Model(&models.Barber{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, Internal("Failed to update barber", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrBarberNotFound
	}
	s.logger.Info("barber updated", zap.Uint("barber_id", id))
	return s.GetBarber(ctx, id)
}

func (s *StaffService) attachPhotos(ctx context.Context, barbers []models.Barber) {
	if s.photos == nil {
		return
	}
	for i := range barbers {
		s.photos.AttachURL(ctx, &barbers[i])
	}
}

// ListCustomers returns a page of customers with order count and total
// spent on paid orders.
func (s *StaffService) ListCustomers(ctx context.Context, search string, limit, offset int) ([]CustomerSummary, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Customer{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("user_id IN (?)",
			s.db.Model(&models.User{}).Select("id").Where("LOWER(name) LIKE ? OR email LIKE ?", like, like))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, Internal("Failed to count customers", err)
	}

	var customers []models.Customer
	if err := query.Preload("User").Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&customers).Error; err != nil {
		return nil, 0, Internal("Failed to list customers", err)
	}
	if len(customers) == 0 {
		return []CustomerSummary{}, total, nil
	}

	ids := make([]uint, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	var stats []struct {
		CustomerID uint
		OrderCount int64
		TotalSpent float64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("customer_id, COUNT(*) AS order_count, COALESCE(SUM(CASE WHEN payment_status = ? THEN total_amount ELSE 0 END), 0) AS total_spent", models.PaymentPaid).
		Where("customer_id IN ?", ids).
		Group("customer_id").
		Scan(&stats).Error
	if err != nil {
		return nil, 0, Internal("Failed to aggregate customer orders", err)
	}
	byID := make(map[uint]int, len(stats))
	for i, st := range stats {
		byID[st.CustomerID] = i
	}

	out := make([]CustomerSummary, len(customers))
	for i, c := range customers {
		out[i] = CustomerSummary{Customer: c}
		if j, ok := byID[c.ID]; ok {
			out[i].OrderCount = stats[j].OrderCount
			out[i].TotalSpent = money(decimal.NewFromFloat(stats[j].TotalSpent))
		}
	}
	return out, total, nil
}
