package patterns

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/config"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
	"github.com/revoa/analytics-backend/pkg/logger"
)

type service struct {
	repo Repository
	logg *logger.Logger
	cfg  config.PatternsConfig
}

// NewService builds the pattern analysis service.
func NewService(repo Repository, logg *logger.Logger, cfg config.PatternsConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "patterns repository is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{repo: repo, logg: logg, cfg: cfg}, nil
}

// DailyMetrics assembles the analyzer input: one row per platform-day with ad
// spend and attributed revenue, store COGS apportioned by revenue share, and
// an hourly revenue breakdown from purchase pixel events. Order and pixel
// lookups degrade to zeros so the ad-metric view always renders.
func (s *service) DailyMetrics(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]DailyMetric, error) {
	platformDays, err := s.repo.FindDailyPlatformMetrics(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading daily platform metrics")
	}
	if len(platformDays) == 0 {
		return []DailyMetric{}, nil
	}

	cogsByDay := s.dailyCOGS(ctx, userID, startDate, endDate)
	hourlyByDay := s.hourlyRevenue(ctx, userID, startDate, endDate)

	revenueByDay := map[string]float64{}
	for _, row := range platformDays {
		revenueByDay[row.Date] += row.Revenue
	}

	out := make([]DailyMetric, 0, len(platformDays))
	for _, row := range platformDays {
		metric := DailyMetric{
			Date:        row.Date,
			Platform:    row.Platform,
			Revenue:     row.Revenue,
			AdSpend:     row.Spend,
			Conversions: row.Conversions,
		}
		// Store-level COGS lands on each platform proportional to its share
		// of the day's attributed revenue.
		if dayRevenue := revenueByDay[row.Date]; dayRevenue > 0 {
			metric.COGS = cogsByDay[row.Date] * (row.Revenue / dayRevenue)
		}
		metric.NetProfit = metric.Revenue - metric.COGS - metric.AdSpend
		out = append(out, metric)
	}

	// Hourly revenue is store-level; split each day's breakdown across the
	// day's rows by revenue share, mirroring the COGS apportionment, so the
	// per-platform window sums still total the store's hourly revenue. A day
	// with no attributed revenue parks its breakdown on one row.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Revenue > out[j].Revenue
	})
	parked := map[string]bool{}
	for i := range out {
		hourly, ok := hourlyByDay[out[i].Date]
		if !ok {
			continue
		}
		if dayRevenue := revenueByDay[out[i].Date]; dayRevenue > 0 {
			share := out[i].Revenue / dayRevenue
			for h, revenue := range hourly {
				out[i].Hourly[h] = revenue * share
			}
			continue
		}
		if parked[out[i].Date] {
			continue
		}
		parked[out[i].Date] = true
		out[i].Hourly = hourly
	}

	return out, nil
}

// Suggestions runs the full analysis over the window and returns the ranked
// recommendations. An empty dataset yields an empty slice, never an error.
func (s *service) Suggestions(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]Suggestion, error) {
	metrics, err := s.DailyMetrics(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(userID, metrics, s.cfg).Suggestions(), nil
}

func (s *service) dailyCOGS(ctx context.Context, userID uuid.UUID, startDate, endDate string) map[string]float64 {
	out := map[string]float64{}
	financials, err := s.repo.FindDailyOrderFinancials(ctx, userID, startDate, endDate)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "order financials lookup failed, analyzing without cogs")
		return out
	}
	for _, day := range financials {
		out[day.Date] = day.COGS
	}
	return out
}

func (s *service) hourlyRevenue(ctx context.Context, userID uuid.UUID, startDate, endDate string) map[string][24]float64 {
	out := map[string][24]float64{}
	events, err := s.repo.FindPurchaseEvents(ctx, userID, startDate, endDate)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "pixel event lookup failed, analyzing without hourly resolution")
		return out
	}
	for _, event := range events {
		at := event.OccurredAt.UTC()
		day := at.Format(time.DateOnly)
		hourly := out[day]
		hourly[at.Hour()] += event.OrderValue
		out[day] = hourly
	}
	return out
}
