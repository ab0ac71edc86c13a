package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopfront/shopfront/internal/orders"
)

type staticCounter struct {
	n   int64
	err error
}

func (c staticCounter) Count(context.Context) (int64, error) { return c.n, c.err }

func TestFillDaysCoversEveryDay(t *testing.T) {
	end := time.Date(2024, 10, 3, 15, 0, 0, 0, time.UTC)
	start := end.Add(-Window)

	days := FillDays(start, end, []orders.DailySales{
		{Date: "2024-09-28", Sales: 2, RevenueCents: 4_550},
		{Date: "2024-10-03", Sales: 1, RevenueCents: 100},
	})

	require.Len(t, days, 8)
	require.Equal(t, "2024-09-26", days[0].Date)
	require.Equal(t, "2024-10-03", days[7].Date)
	require.Equal(t, Day{Date: "2024-09-28", Sales: 2, Revenue: 45.5}, days[2])
	require.Equal(t, Day{Date: "2024-09-29"}, days[3])
	require.EqualValues(t, 1, days[7].Sales)
}

func TestReport(t *testing.T) {
	now := time.Date(2024, 10, 3, 15, 0, 0, 0, time.UTC)
	store := orders.NewInMemory()
	ctx := context.Background()
	for i, at := range []time.Time{now.Add(-time.Hour), now.Add(-26 * time.Hour), now.Add(-30 * 24 * time.Hour)} {
		_, err := store.Create(ctx, orders.Order{UserID: "u", StripeSessionID: fmt.Sprintf("cs_%d", i), TotalCents: 2_500, CreatedAt: at})
		require.NoError(t, err)
	}

	svc := NewService(staticCounter{n: 12}, staticCounter{n: 30}, store, func() time.Time { return now })
	report, err := svc.Report(ctx)
	require.NoError(t, err)
	require.Equal(t, Summary{Users: 12, Products: 30, TotalSales: 3, TotalRevenue: 75}, report.Summary)

	var sales int64
	for _, d := range report.Daily {
		sales += d.Sales
	}
	require.EqualValues(t, 2, sales)
	require.Equal(t, "2024-10-03", report.Daily[len(report.Daily)-1].Date)
}

func TestReportPropagatesErrors(t *testing.T) {
	svc := NewService(staticCounter{err: errors.New("mongo down")}, staticCounter{}, orders.NewInMemory(), nil)
	_, err := svc.Report(context.Background())
	require.ErrorContains(t, err, "count users")
}
