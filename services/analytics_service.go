package services

import (
	"context"
	"sort"
	"time"

	"github.com/jinzhu/now"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxRangeDays bounds how many days one report may cover.
const MaxRangeDays = 366

// DateRange is an inclusive reporting window in UTC.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseDateRange reads YYYY-MM-DD bounds. Missing bounds default to the
// month containing ref.
func ParseDateRange(startDate, endDate string, ref time.Time) (DateRange, error) {
	month := now.With(ref.UTC())
	r := DateRange{Start: month.BeginningOfMonth(), End: month.EndOfMonth()}

	if startDate != "" {
		t, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
		if err != nil {
			return r, Validation("startDate must be YYYY-MM-DD")
		}
		r.Start = now.With(t).BeginningOfDay()
	}
	if endDate != "" {
		t, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
		if err != nil {
			return r, Validation("endDate must be YYYY-MM-DD")
		}
		r.End = now.With(t).EndOfDay()
	}
	if r.End.Before(r.Start) {
		return r, Validation("endDate must not be before startDate")
	}
	if r.End.Sub(r.Start) >= MaxRangeDays*24*time.Hour {
		return r, Validation("date range must not exceed 366 days")
	}
	return r, nil
}

// Financials summarises money flow over a range.
type Financials struct {
	Range             DateRange `json:"range"`
	OrderCount        int64     `json:"orderCount"`
	PaidOrderCount    int64     `json:"paidOrderCount"`
	GrossRevenue      float64   `json:"grossRevenue"`
	PendingAmount     float64   `json:"pendingAmount"`
	RefundedAmount    float64   `json:"refundedAmount"`
	AverageOrderValue float64   `json:"averageOrderValue"`
	BarberCommission  float64   `json:"barberCommission"`
	PlatformShare     float64   `json:"platformShare"`
}

// Operations is a snapshot of the order pipeline.
type Operations struct {
	Range              DateRange        `json:"range"`
	OrdersByStatus     map[string]int64 `json:"ordersByStatus"`
	OrdersByPayment    map[string]int64 `json:"ordersByPaymentStatus"`
	OrdersByJobStatus  map[string]int64 `json:"ordersByJobStatus"`
	UnassignedPaid     int64            `json:"unassignedPaidOrders"`
	ActiveBarbers      int64            `json:"activeBarbers"`
	OnlineBarbers      int64            `json:"onlineBarbers"`
	AverageBarberScore float64          `json:"averageRating"`
}

// TrafficDay is one day of the traffic series.
type TrafficDay struct {
	Date         string `json:"date"`
	Orders       int64  `json:"orders"`
	NewCustomers int64  `json:"newCustomers"`
}

// ServiceStat ranks one service title by volume sold.
type ServiceStat struct {
	Title    string  `json:"title"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Orders   int64   `json:"orders"`
}

// AnalyticsService answers read-only reporting queries for the dashboard.
type AnalyticsService struct {
	db     *gorm.DB
	logger *zap.Logger
	clock  func() time.Time
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(db *gorm.DB, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: orNop(logger), clock: time.Now}
}

// Range parses request bounds against the service clock.
func (s *AnalyticsService) Range(startDate, endDate string) (DateRange, error) {
	return ParseDateRange(startDate, endDate, s.clock())
}

func (s *AnalyticsService) ordersIn(ctx context.Context, r DateRange) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Order{}).Where("orders.created_at BETWEEN ? AND ?", r.Start, r.End)
}

// Financials totals revenue and commission for orders created in r.
// Commission is owed on completed, paid orders at the barber's rate.
func (s *AnalyticsService) Financials(ctx context.Context, r DateRange) (*Financials, error) {
	var orders []models.Order
	err := s.ordersIn(ctx, r).
		Preload("AssignedBarber").
		Where("status <> ?", models.OrderCancelled).
		Find(&orders).Error
	if err != nil {
		return nil, Internal("Failed to load orders", err)
	}

	var gross, pending, refunded, commission decimal.Decimal
	var paid int64
	for _, o := range orders {
		total := decimal.NewFromFloat(o.TotalAmount)
		switch o.PaymentStatus {
		case models.PaymentPaid:
			paid++
			gross = gross.Add(total)
			if o.Status == models.OrderCompleted && o.AssignedBarber != nil {
				commission = commission.Add(total.Mul(decimal.NewFromFloat(o.AssignedBarber.CommissionRate)))
			}
		case models.PaymentPending, models.PaymentPartiallyPaid:
			pending = pending.Add(total)
		case models.PaymentRefunded:
			refunded = refunded.Add(total)
		}
	}

	avg := decimal.Zero
	if paid > 0 {
		avg = gross.Div(decimal.NewFromInt(paid))
	}
	return &Financials{
		Range:             r,
		OrderCount:        int64(len(orders)),
		PaidOrderCount:    paid,
		GrossRevenue:      money(gross),
		PendingAmount:     money(pending),
		RefundedAmount:    money(refunded),
		AverageOrderValue: money(avg),
		BarberCommission:  money(commission),
		PlatformShare:     money(gross.Sub(commission)),
	}, nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

type groupCount struct {
	GroupKey string
	Count    int64
}

func (s *AnalyticsService) countBy(ctx context.Context, r DateRange, column string) (map[string]int64, error) {
	var rows []groupCount
	err := s.ordersIn(ctx, r).
		Select(column + " AS group_key, COUNT(*) AS count").
		Where(column + " IS NOT NULL").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, Internal("Failed to count orders by "+column, err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.GroupKey] = row.Count
	}
	return out, nil
}

// Operations counts orders per status for r plus the live barber pool.
func (s *AnalyticsService) Operations(ctx context.Context, r DateRange) (*Operations, error) {
	ops := &Operations{Range: r}
	var err error
	if ops.OrdersByStatus, err = s.countBy(ctx, r, "status"); err != nil {
		return nil, err
	}
	if ops.OrdersByPayment, err = s.countBy(ctx, r, "payment_status"); err != nil {
		return nil, err
	}
	if ops.OrdersByJobStatus, err = s.countBy(ctx, r, "job_status"); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Order{}).
		Where("assigned_barber_id IS NULL AND payment_status = ? AND status NOT IN ?",
			models.PaymentPaid, []models.OrderStatus{models.OrderCancelled, models.OrderCompleted}).
		Count(&ops.UnassignedPaid).Error; err != nil {
		return nil, Internal("Failed to count unassigned orders", err)
	}
	if err := db.Model(&models.Barber{}).Where("status = ?", models.BarberActive).Count(&ops.ActiveBarbers).Error; err != nil {
		return nil, Internal("Failed to count barbers", err)
	}
	if err := db.Model(&models.Barber{}).Where("status = ? AND is_online = ?", models.BarberActive, true).Count(&ops.OnlineBarbers).Error; err != nil {
		return nil, Internal("Failed to count barbers", err)
	}

	var avg struct{ Avg *float64 }
	if err := db.Model(&models.Barber{}).
		Select("AVG(rating_avg) AS avg").
		Where("total_reviews > 0").
		Scan(&avg).Error; err != nil {
		return nil, Internal("Failed to average ratings", err)
	}
	if avg.Avg != nil {
		ops.AverageBarberScore = decimal.NewFromFloat(*avg.Avg).Round(2).InexactFloat64()
	}
	return ops, nil
}

// Traffic returns a day-by-day series of orders and new customers over r,
// with zero-filled days.
func (s *AnalyticsService) Traffic(ctx context.Context, r DateRange) ([]TrafficDay, error) {
	var orderTimes []time.Time
	if err := s.ordersIn(ctx, r).Pluck("orders.created_at", &orderTimes).Error; err != nil {
		return nil, Internal("Failed to load order traffic", err)
	}
	var customerTimes []time.Time
	if err := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("created_at BETWEEN ? AND ?", r.Start, r.End).
		Pluck("created_at", &customerTimes).Error; err != nil {
		return nil, Internal("Failed to load customer traffic", err)
	}

	days := make([]TrafficDay, 0)
	index := make(map[string]int)
	for day := now.With(r.Start).BeginningOfDay(); !day.After(r.End); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		index[key] = len(days)
		days = append(days, TrafficDay{Date: key})
	}
	for _, t := range orderTimes {
		if i, ok := index[t.UTC().Format(dateLayout)]; ok {
			days[i].Orders++
		}
	}
	for _, t := range customerTimes {
		if i, ok := index[t.UTC().Format(dateLayout)]; ok {
			days[i].NewCustomers++
		}
	}
	return days, nil
}

// Services ranks item titles sold in r by quantity, then revenue.
// Cancelled orders are excluded.
func (s *AnalyticsService) Services(ctx context.Context, r DateRange) ([]ServiceStat, error) {
	var rows []struct {
		Title    string
		Quantity int64
		Revenue  float64
		Orders   int64
	}
	err := s.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.title AS title, SUM(order_items.quantity) AS quantity, SUM(order_items.total_price) AS revenue, COUNT(DISTINCT order_items.order_id) AS orders").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at BETWEEN ? AND ?", r.Start, r.End).
		Where("orders.status <> ? AND orders.deleted_at IS NULL", models.OrderCancelled).
		Group("order_items.title").
		Scan(&rows).Error
	if err != nil {
		return nil, Internal("Failed to aggregate services", err)
	}

	stats := make([]ServiceStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, ServiceStat{
			Title:    row.Title,
			Quantity: row.Quantity,
			Revenue:  decimal.NewFromFloat(row.Revenue).Round(2).InexactFloat64(),
			Orders:   row.Orders,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Quantity != stats[j].Quantity {
			return stats[i].Quantity > stats[j].Quantity
		}
		if stats[i].Revenue != stats[j].Revenue {
			return stats[i].Revenue > stats[j].Revenue
		}
		return stats[i].Title < stats[j].Title
	})
	return stats, nil
}
