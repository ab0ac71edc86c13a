package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopfront/shopfront/internal/orders"
)

// Window is how far back the daily sales series reaches.
const Window = 7 * 24 * time.Hour

// Counter counts documents in a collection.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Summary holds the store-wide totals.
type Summary struct {
	Users        int64   `json:"users"`
	Products     int64   `json:"products"`
	TotalSales   int64   `json:"totalSales"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// Day is one point of the daily sales series.
type Day struct {
	Date    string  `json:"date"`
	Sales   int64   `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// Report is the admin dashboard payload.
type Report struct {
	Summary Summary `json:"analyticsData"`
	Daily   []Day   `json:"dailySalesData"`
}

// Service computes dashboard analytics.
type Service struct {
	users    Counter
	products Counter
	orders   orders.Store
	now      func() time.Time
}

// NewService constructs the analytics service. A nil clock uses time.Now.
func NewService(users, products Counter, store orders.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{users: users, products: products, orders: store, now: now}
}

// Report gathers the totals and the daily series ending now.
func (s *Service) Report(ctx context.Context) (Report, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("count users: %w", err)
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("count products: %w", err)
	}
	totals, err := s.orders.Totals(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("order totals: %w", err)
	}

	end := s.now().UTC()
	start := end.Add(-Window)
	daily, err := s.orders.DailySales(ctx, start, end)
	if err != nil {
		return Report{}, fmt.Errorf("daily sales: %w", err)
	}

	return Report{
		Summary: Summary{
			Users:        userCount,
			Products:     productCount,
			TotalSales:   totals.Sales,
			TotalRevenue: dollars(totals.RevenueCents),
		},
		Daily: FillDays(start, end, daily),
	}, nil
}

// FillDays returns one entry per UTC calendar day from start through end,
// using zero sales for days missing from data.
func FillDays(start, end time.Time, data []orders.DailySales) []Day {
	byDate := make(map[string]orders.DailySales, len(data))
	for _, d := range data {
		byDate[d.Date] = d
	}

	var days []Day
	for day := start.UTC(); !day.After(end.UTC()); day = day.AddDate(0, 0, 1) {
		date := day.Format(orders.DayFormat)
		d := byDate[date]
		days = append(days, Day{Date: date, Sales: d.Sales, Revenue: dollars(d.RevenueCents)})
	}
	return days
}

func dollars(cents int64) float64 {
	return float64(cents) / 100
}
