package reports

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/revoa/analytics-backend/internal/resolver"
	"github.com/revoa/analytics-backend/pkg/config"
	"github.com/revoa/analytics-backend/pkg/db/models"
	"github.com/revoa/analytics-backend/pkg/enums"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
	"github.com/revoa/analytics-backend/pkg/logger"
	"github.com/revoa/analytics-backend/pkg/metrics"
)

type service struct {
	repo     Repository
	resolver resolver.Service
	logg     *logger.Logger
	pipeline *metrics.PipelineMetrics
	cfg      config.ReportsConfig
}

// NewService builds the aggregation layer.
func NewService(repo Repository, res resolver.Service, logg *logger.Logger, pipeline *metrics.PipelineMetrics, cfg config.ReportsConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reports repository is required")
	}
	if res == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "resolver service is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{repo: repo, resolver: res, logg: logg, pipeline: pipeline, cfg: cfg}, nil
}

// degrade logs a failed store read; the caller falls back to the zero-valued
// report shape so rendering collaborators never see an error for a read.
func (s *service) degrade(ctx context.Context, stage string, err error) {
	ectx := s.logg.WithFields(ctx, map[string]any{"stage": stage, "error": err.Error()})
	s.logg.Warn(ectx, "store read failed, degrading to empty report")
}

// discoverAccounts loads the user's active accounts, one fetch per platform in
// parallel. A failed platform is logged and skipped so one broken connector
// never empties the whole report.
func (s *service) discoverAccounts(ctx context.Context, userID uuid.UUID) []models.AdAccount {
	platforms := enums.AllAdPlatforms()
	results := make([][]models.AdAccount, len(platforms))

	var wg sync.WaitGroup
	for i, platform := range platforms {
		wg.Add(1)
		go func(i int, platform enums.AdPlatform) {
			defer wg.Done()
			accounts, err := s.repo.FindAccountsByPlatform(ctx, userID, platform)
			if err != nil {
				pctx := s.logg.WithFields(ctx, map[string]any{"platform": platform.String(), "error": err.Error()})
				s.logg.Warn(pctx, "account discovery failed for platform, skipping")
				return
			}
			results[i] = accounts
		}(i, platform)
	}
	wg.Wait()

	var all []models.AdAccount
	for _, accounts := range results {
		all = append(all, accounts...)
	}
	return all
}

func accountIDs(accounts []models.AdAccount) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	return ids
}

func adIDs(ads []AdContext) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(ads))
	for _, a := range ads {
		ids = append(ids, a.AdID)
	}
	return ids
}

func sumTotals(rows []models.AdMetric) Totals {
	var t Totals
	for _, row := range rows {
		t.Spend += row.Spend
		t.Impressions += row.Impressions
		t.Clicks += row.Clicks
		t.Conversions += row.Conversions
		t.ConversionValue += row.ConversionValue
	}
	return t
}

func (s *service) Overview(ctx context.Context, userID uuid.UUID, r DateRange) (*Overview, error) {
	out := &Overview{Daily: []DailyPoint{}}

	accounts := s.discoverAccounts(ctx, userID)
	if len(accounts) == 0 {
		return out, nil
	}
	out.AccountCount = len(accounts)

	ads, err := s.repo.FindAdsByAccounts(ctx, accountIDs(accounts))
	if err != nil {
		s.degrade(ctx, "ads for overview", err)
		return out, nil
	}
	if len(ads) == 0 {
		return out, nil
	}
	out.AdCount = len(ads)

	rows, err := s.repo.FindMetricRows(ctx, enums.MetricEntityAd, adIDs(ads), r.StartDate, r.EndDate)
	if err != nil {
		s.degrade(ctx, "ad metrics for overview", err)
		return out, nil
	}
	if len(rows) == 0 {
		return out, nil
	}

	out.Totals = sumTotals(rows)
	out.Ratios = deriveRatios(out.Totals)
	out.HasData = true

	byDay := map[string]*DailyPoint{}
	for _, row := range rows {
		point, ok := byDay[row.Date]
		if !ok {
			point = &DailyPoint{Date: row.Date}
			byDay[row.Date] = point
		}
		point.Spend += row.Spend
		point.Impressions += row.Impressions
		point.Clicks += row.Clicks
		point.Conversions += row.Conversions
		point.ConversionValue += row.ConversionValue
	}

	// Day-level profit applies the period COGS ratio to each day's revenue.
	// Supplier costs land per order batch, not per calendar day, so per-day
	// profit is an approximation; period totals are exact.
	var totalCOGS float64
	financials, err := s.repo.FindDailyOrderFinancials(ctx, userID, r.StartDate, r.EndDate)
	if err != nil {
		s.degrade(ctx, "order financials for overview", err)
	}
	for _, day := range financials {
		totalCOGS += day.COGS
	}
	cogsRate := safeDiv(totalCOGS, out.Totals.ConversionValue)

	for _, point := range byDay {
		point.CTR = safeDiv(float64(point.Clicks), float64(point.Impressions)) * 100
		point.CPA = safeDiv(point.Spend, point.Conversions)
		point.CVR = safeDiv(point.Conversions, float64(point.Clicks))
		point.ROAS = safeDiv(point.ConversionValue, point.Spend)
		point.Profit = point.ConversionValue - point.ConversionValue*cogsRate - point.Spend
		point.NetROAS = safeDiv(point.Profit, point.Spend)
		out.Daily = append(out.Daily, *point)
	}
	sort.Slice(out.Daily, func(i, j int) bool { return out.Daily[i].Date < out.Daily[j].Date })

	return out, nil
}

func (s *service) CreativePerformance(ctx context.Context, userID uuid.UUID, r DateRange) ([]CreativeRow, error) {
	rows := []CreativeRow{}

	accounts := s.discoverAccounts(ctx, userID)
	if len(accounts) == 0 {
		return rows, nil
	}

	ads, err := s.repo.FindAdsByAccounts(ctx, accountIDs(accounts))
	if err != nil {
		s.degrade(ctx, "ads for creative report", err)
		return rows, nil
	}
	if len(ads) == 0 {
		return rows, nil
	}
	ids := adIDs(ads)

	metricRows, err := s.repo.FindMetricRows(ctx, enums.MetricEntityAd, ids, r.StartDate, r.EndDate)
	if err != nil {
		s.degrade(ctx, "ad metrics for creative report", err)
		return rows, nil
	}
	totalsByAd := map[uuid.UUID]Totals{}
	for _, row := range metricRows {
		t := totalsByAd[row.EntityID]
		t.Spend += row.Spend
		t.Impressions += row.Impressions
		t.Clicks += row.Clicks
		totalsByAd[row.EntityID] = t
	}

	resolved, err := s.resolver.Resolve(ctx, resolver.ResolveInput{
		UserID:     userID,
		AccountIDs: accountIDs(accounts),
		AdIDs:      ids,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	})
	if err != nil {
		s.degrade(ctx, "resolving conversions for creative report", err)
		return rows, nil
	}

	for _, ad := range ads {
		conv := resolved[ad.AdID]
		totals := totalsByAd[ad.AdID]
		totals.Conversions = conv.Conversions
		totals.ConversionValue = conv.ConversionValue
		ratios := deriveRatios(totals)

		profit := conv.ConversionValue - conv.TotalCOGS - totals.Spend
		row := CreativeRow{
			AdID:               ad.AdID,
			Name:               ad.Name,
			Platform:           ad.Platform,
			CampaignName:       ad.CampaignName,
			AdSetName:          ad.AdSetName,
			CreativeType:       ad.CreativeType,
			ThumbnailURL:       ad.ThumbnailURL,
			Totals:             totals,
			Ratios:             ratios,
			COGS:               conv.TotalCOGS,
			Profit:             profit,
			NetROAS:            safeDiv(profit, totals.Spend),
			ProfitMargin:       profitMargin(profit, conv.ConversionValue),
			PerformanceTier:    performanceTier(s.cfg, ratios.ROAS),
			FatigueScore:       fatigueScore(s.cfg, ratios.CTR),
			Source:             conv.Source,
			HasData:            conv.HasData,
			LinkedProductCount: conv.LinkedProductCount,
		}
		if row.Source == "" {
			row.Source = enums.ConversionSourceNone
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Totals.Spend != rows[j].Totals.Spend {
			return rows[i].Totals.Spend > rows[j].Totals.Spend
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

func (s *service) CampaignPerformance(ctx context.Context, userID uuid.UUID, r DateRange) ([]EntityRow, error) {
	return s.entityPerformance(ctx, userID, r, enums.MetricEntityCampaign)
}

func (s *service) AdSetPerformance(ctx context.Context, userID uuid.UUID, r DateRange) ([]EntityRow, error) {
	return s.entityPerformance(ctx, userID, r, enums.MetricEntityAdSet)
}

// entityPerformance reports platform truth for campaigns/ad sets. Order
// linkage lives at the ad level, so these rows never carry COGS or profit.
func (s *service) entityPerformance(ctx context.Context, userID uuid.UUID, r DateRange, entityType enums.MetricEntityType) ([]EntityRow, error) {
	rows := []EntityRow{}

	accounts := s.discoverAccounts(ctx, userID)
	if len(accounts) == 0 {
		return rows, nil
	}

	var entities []EntityContext
	var err error
	if entityType == enums.MetricEntityCampaign {
		entities, err = s.repo.FindCampaignsByAccounts(ctx, accountIDs(accounts))
	} else {
		entities, err = s.repo.FindAdSetsByAccounts(ctx, accountIDs(accounts))
	}
	if err != nil {
		s.degrade(ctx, "entities for report", err)
		return rows, nil
	}
	if len(entities) == 0 {
		return rows, nil
	}

	ids := make([]uuid.UUID, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}

	metricRows, err := s.repo.FindMetricRows(ctx, entityType, ids, r.StartDate, r.EndDate)
	if err != nil {
		s.degrade(ctx, "entity metrics", err)
		return rows, nil
	}
	totalsByID := map[uuid.UUID]Totals{}
	for _, row := range metricRows {
		t := totalsByID[row.EntityID]
		t.Spend += row.Spend
		t.Impressions += row.Impressions
		t.Clicks += row.Clicks
		t.Conversions += row.Conversions
		t.ConversionValue += row.ConversionValue
		totalsByID[row.EntityID] = t
	}

	for _, entity := range entities {
		totals := totalsByID[entity.ID]
		ratios := deriveRatios(totals)
		rows = append(rows, EntityRow{
			ID:              entity.ID,
			Name:            entity.Name,
			Platform:        entity.Platform,
			Status:          entity.Status,
			Totals:          totals,
			Ratios:          ratios,
			COGS:            0,
			ProfitAvailable: false,
			PerformanceTier: performanceTier(s.cfg, ratios.ROAS),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Totals.Spend != rows[j].Totals.Spend {
			return rows[i].Totals.Spend > rows[j].Totals.Spend
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

func (s *service) ProfitMetrics(ctx context.Context, userID uuid.UUID, r DateRange) (*ProfitMetrics, error) {
	out := &ProfitMetrics{Daily: []DailyProfitPoint{}}

	financials, err := s.repo.FindDailyOrderFinancials(ctx, userID, r.StartDate, r.EndDate)
	if err != nil {
		s.degrade(ctx, "order financials for profit report", err)
		financials = nil
	}

	spendByDay, totalSpend := s.dailyAdSpend(ctx, userID, r)
	out.AdSpend = totalSpend

	if len(financials) == 0 {
		out.NetProfit = -totalSpend
		out.NetROAS = safeDiv(out.NetProfit, totalSpend)
		return out, nil
	}

	var totalRevenue, totalCOGS float64
	for _, day := range financials {
		totalRevenue += day.Revenue
		totalCOGS += day.COGS
	}
	out.Revenue = totalRevenue
	out.COGS = totalCOGS
	out.NetProfit = totalRevenue - totalCOGS - totalSpend
	out.ProfitMargin = profitMargin(out.NetProfit, totalRevenue)
	out.NetROAS = safeDiv(out.NetProfit, totalSpend)
	out.HasData = true

	// Per-day COGS is apportioned by the day's revenue share. Supplier costs
	// land per order batch, not per calendar day, so the day split is an
	// approximation; the period totals are exact.
	cogsRate := safeDiv(totalCOGS, totalRevenue)
	for _, day := range financials {
		apportionedCOGS := day.Revenue * cogsRate
		spend := spendByDay[day.Date]
		out.Daily = append(out.Daily, DailyProfitPoint{
			Date:      day.Date,
			Revenue:   day.Revenue,
			COGS:      apportionedCOGS,
			AdSpend:   spend,
			NetProfit: day.Revenue - apportionedCOGS - spend,
		})
	}
	sort.Slice(out.Daily, func(i, j int) bool { return out.Daily[i].Date < out.Daily[j].Date })

	return out, nil
}

// dailyAdSpend sums ad-level spend per day across all the user's accounts.
// Failures degrade to zero spend so the profit report still renders.
func (s *service) dailyAdSpend(ctx context.Context, userID uuid.UUID, r DateRange) (map[string]float64, float64) {
	byDay := map[string]float64{}

	accounts := s.discoverAccounts(ctx, userID)
	if len(accounts) == 0 {
		return byDay, 0
	}
	ads, err := s.repo.FindAdsByAccounts(ctx, accountIDs(accounts))
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "ad lookup failed, reporting zero ad spend")
		return byDay, 0
	}
	if len(ads) == 0 {
		return byDay, 0
	}
	rows, err := s.repo.FindMetricRows(ctx, enums.MetricEntityAd, adIDs(ads), r.StartDate, r.EndDate)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "metric lookup failed, reporting zero ad spend")
		return byDay, 0
	}

	var total float64
	for _, row := range rows {
		byDay[row.Date] += row.Spend
		total += row.Spend
	}
	return byDay, total
}

func (s *service) AdProfitBreakdown(ctx context.Context, userID uuid.UUID, r DateRange) ([]AdProfitRow, error) {
	rows := []AdProfitRow{}

	accounts := s.discoverAccounts(ctx, userID)
	if len(accounts) == 0 {
		return rows, nil
	}
	ads, err := s.repo.FindAdsByAccounts(ctx, accountIDs(accounts))
	if err != nil {
		s.degrade(ctx, "ads for profit breakdown", err)
		return rows, nil
	}
	if len(ads) == 0 {
		return rows, nil
	}
	ids := adIDs(ads)

	metricRows, err := s.repo.FindMetricRows(ctx, enums.MetricEntityAd, ids, r.StartDate, r.EndDate)
	if err != nil {
		s.degrade(ctx, "ad metrics for profit breakdown", err)
		return rows, nil
	}
	spendByAd := map[uuid.UUID]float64{}
	for _, row := range metricRows {
		spendByAd[row.EntityID] += row.Spend
	}

	resolved, err := s.resolver.Resolve(ctx, resolver.ResolveInput{
		UserID:     userID,
		AccountIDs: accountIDs(accounts),
		AdIDs:      ids,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	})
	if err != nil {
		s.degrade(ctx, "resolving conversions for profit breakdown", err)
		return rows, nil
	}

	for _, ad := range ads {
		conv := resolved[ad.AdID]
		spend := spendByAd[ad.AdID]
		profit := conv.ConversionValue - conv.TotalCOGS - spend
		source := conv.Source
		if source == "" {
			source = enums.ConversionSourceNone
		}
		rows = append(rows, AdProfitRow{
			AdID:         ad.AdID,
			Name:         ad.Name,
			Revenue:      conv.ConversionValue,
			COGS:         conv.TotalCOGS,
			AdSpend:      spend,
			Profit:       profit,
			ProfitMargin: profitMargin(profit, conv.ConversionValue),
			NetROAS:      safeDiv(profit, spend),
			Source:       source,
			HasData:      conv.HasData,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AdSpend != rows[j].AdSpend {
			return rows[i].AdSpend > rows[j].AdSpend
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// EnrichMetricsWithProfit writes cogs/profit/profit_margin back onto the ad
// metric rows in range. Each ad's resolved COGS for the period is apportioned
// to its days by conversion-value share. Row updates are independent: one
// failure is collected and the rest proceed.
func (s *service) EnrichMetricsWithProfit(ctx context.Context, userID uuid.UUID, r DateRange) (*EnrichResult, error) {
	out := &EnrichResult{}

	accounts := s.discoverAccounts(ctx, userID)
	if len(accounts) == 0 {
		return out, nil
	}
	ads, err := s.repo.FindAdsByAccounts(ctx, accountIDs(accounts))
	if err != nil {
		s.degrade(ctx, "ads for enrichment", err)
		return out, nil
	}
	if len(ads) == 0 {
		return out, nil
	}
	ids := adIDs(ads)

	metricRows, err := s.repo.FindMetricRows(ctx, enums.MetricEntityAd, ids, r.StartDate, r.EndDate)
	if err != nil {
		s.degrade(ctx, "ad metrics for enrichment", err)
		return out, nil
	}
	if len(metricRows) == 0 {
		return out, nil
	}

	resolved, err := s.resolver.Resolve(ctx, resolver.ResolveInput{
		UserID:     userID,
		AccountIDs: accountIDs(accounts),
		AdIDs:      ids,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	})
	if err != nil {
		s.degrade(ctx, "resolving conversions for enrichment", err)
		return out, nil
	}

	valueByAd := map[uuid.UUID]float64{}
	for _, row := range metricRows {
		valueByAd[row.EntityID] += row.ConversionValue
	}

	var updateErrs error
	for _, row := range metricRows {
		conv, ok := resolved[row.EntityID]
		if !ok || !conv.HasData {
			out.Skipped++
			continue
		}

		// The ad's period COGS lands on each day proportional to that day's
		// share of the platform-reported conversion value.
		dayCOGS := conv.TotalCOGS * safeDiv(row.ConversionValue, valueByAd[row.EntityID])
		profit := row.ConversionValue - dayCOGS - row.Spend
		margin := profitMargin(profit, row.ConversionValue)

		if err := s.repo.UpdateMetricProfit(ctx, row.ID, dayCOGS, profit, margin); err != nil {
			updateErrs = multierr.Append(updateErrs, err)
			out.Skipped++
			continue
		}
		out.Updated++
	}
	s.pipeline.AddEnrichedRows(out.Updated)

	if updateErrs != nil {
		ectx := s.logg.WithFields(ctx, map[string]any{"error": updateErrs.Error(), "updated": out.Updated, "skipped": out.Skipped})
		s.logg.Warn(ectx, "profit enrichment completed with row failures")
	}
	return out, nil
}
