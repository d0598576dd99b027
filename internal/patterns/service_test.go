package patterns

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/config"
	"github.com/revoa/analytics-backend/pkg/enums"
	"github.com/revoa/analytics-backend/pkg/logger"
)

type stubPatternsRepo struct {
	platformDays  []PlatformDayRow
	platformErr   error
	financials    []DayFinancialRow
	financialsErr error
	events        []PurchaseEventRow
	eventsErr     error
}

func (s *stubPatternsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPatternsRepo) FindDailyPlatformMetrics(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]PlatformDayRow, error) {
	return s.platformDays, s.platformErr
}

func (s *stubPatternsRepo) FindDailyOrderFinancials(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]DayFinancialRow, error) {
	return s.financials, s.financialsErr
}

func (s *stubPatternsRepo) FindPurchaseEvents(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]PurchaseEventRow, error) {
	return s.events, s.eventsErr
}

func newPatternsService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "patterns-test"}), config.PatternsConfig{})
	require.NoError(t, err)
	return svc
}

func TestDailyMetricsApportionsCOGSByRevenueShare(t *testing.T) {
	repo := &stubPatternsRepo{
		platformDays: []PlatformDayRow{
			{Date: "2026-08-01", Platform: enums.AdPlatformFacebook, Spend: 40, Conversions: 3, Revenue: 300},
			{Date: "2026-08-01", Platform: enums.AdPlatformGoogle, Spend: 10, Conversions: 1, Revenue: 100},
		},
		financials: []DayFinancialRow{{Date: "2026-08-01", Revenue: 500, COGS: 80}},
	}
	svc := newPatternsService(t, repo)

	metrics, err := svc.DailyMetrics(context.Background(), uuid.New(), "2026-08-01", "2026-08-07")
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	byPlatform := map[enums.AdPlatform]DailyMetric{}
	for _, m := range metrics {
		byPlatform[m.Platform] = m
	}

	fb := byPlatform[enums.AdPlatformFacebook]
	assert.InDelta(t, 60.0, fb.COGS, 0.001, "facebook carries 300/400 of the day's 80 cogs")
	assert.InDelta(t, 300-60-40, fb.NetProfit, 0.001)

	gg := byPlatform[enums.AdPlatformGoogle]
	assert.InDelta(t, 20.0, gg.COGS, 0.001)
	assert.InDelta(t, 100-20-10, gg.NetProfit, 0.001)
}

func TestDailyMetricsApportionsHourlyByRevenueShare(t *testing.T) {
	repo := &stubPatternsRepo{
		platformDays: []PlatformDayRow{
			{Date: "2026-08-01", Platform: enums.AdPlatformFacebook, Revenue: 300},
			{Date: "2026-08-01", Platform: enums.AdPlatformGoogle, Revenue: 100},
		},
		events: []PurchaseEventRow{
			{OccurredAt: time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC), OrderValue: 50},
			{OccurredAt: time.Date(2026, 8, 1, 9, 45, 0, 0, time.UTC), OrderValue: 25},
			{OccurredAt: time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC), OrderValue: 10},
		},
	}
	svc := newPatternsService(t, repo)

	metrics, err := svc.DailyMetrics(context.Background(), uuid.New(), "2026-08-01", "2026-08-07")
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	byPlatform := map[enums.AdPlatform]DailyMetric{}
	for _, m := range metrics {
		byPlatform[m.Platform] = m
	}
	fb := byPlatform[enums.AdPlatformFacebook]
	gg := byPlatform[enums.AdPlatformGoogle]

	assert.InDelta(t, 56.25, fb.Hourly[9], 0.001, "facebook carries 300/400 of the 09h revenue")
	assert.InDelta(t, 18.75, gg.Hourly[9], 0.001)
	assert.InDelta(t, 7.5, fb.Hourly[20], 0.001)
	assert.InDelta(t, 75.0, fb.Hourly[9]+gg.Hourly[9], 0.001, "the split preserves the store total")
}

func TestDailyMetricsParksHourlyWhenDayHasNoRevenue(t *testing.T) {
	repo := &stubPatternsRepo{
		platformDays: []PlatformDayRow{
			{Date: "2026-08-01", Platform: enums.AdPlatformFacebook, Spend: 20},
			{Date: "2026-08-01", Platform: enums.AdPlatformGoogle, Spend: 10},
		},
		events: []PurchaseEventRow{
			{OccurredAt: time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC), OrderValue: 30},
		},
	}
	svc := newPatternsService(t, repo)

	metrics, err := svc.DailyMetrics(context.Background(), uuid.New(), "2026-08-01", "2026-08-07")
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	var carriers int
	for _, m := range metrics {
		if m.Hourly[14] > 0 {
			carriers++
			assert.InDelta(t, 30.0, m.Hourly[14], 0.001)
		}
	}
	assert.Equal(t, 1, carriers, "with no revenue to split on, the breakdown lands once")
}

func TestDailyMetricsDegradesWithoutFinancials(t *testing.T) {
	repo := &stubPatternsRepo{
		platformDays:  []PlatformDayRow{{Date: "2026-08-01", Platform: enums.AdPlatformTikTok, Spend: 30, Revenue: 90}},
		financialsErr: errors.New("orders db down"),
		eventsErr:     errors.New("pixel db down"),
	}
	svc := newPatternsService(t, repo)

	metrics, err := svc.DailyMetrics(context.Background(), uuid.New(), "2026-08-01", "2026-08-07")
	require.NoError(t, err, "degraded lookups must not fail the analysis")
	require.Len(t, metrics, 1)
	assert.Zero(t, metrics[0].COGS)
	assert.InDelta(t, 60.0, metrics[0].NetProfit, 0.001)
}

func TestDailyMetricsPropagatesPrimaryFailure(t *testing.T) {
	repo := &stubPatternsRepo{platformErr: errors.New("metrics db down")}
	svc := newPatternsService(t, repo)

	_, err := svc.DailyMetrics(context.Background(), uuid.New(), "2026-08-01", "2026-08-07")
	require.Error(t, err)
}

func TestSuggestionsEmptyDatasetReturnsEmptySlice(t *testing.T) {
	svc := newPatternsService(t, &stubPatternsRepo{})

	got, err := svc.Suggestions(context.Background(), uuid.New(), "2026-08-01", "2026-08-07")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
