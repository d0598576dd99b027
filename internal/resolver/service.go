package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/db/models"
	"github.com/revoa/analytics-backend/pkg/enums"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
	"github.com/revoa/analytics-backend/pkg/logger"
	"github.com/revoa/analytics-backend/pkg/metrics"
)

type service struct {
	repo     Repository
	logg     *logger.Logger
	pipeline *metrics.PipelineMetrics
}

// NewService builds the conversion source resolver.
func NewService(repo Repository, logg *logger.Logger, pipeline *metrics.PipelineMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "resolver repository is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{repo: repo, logg: logg, pipeline: pipeline}, nil
}

type sourceResult struct {
	source enums.ConversionSource
	totals map[uuid.UUID]sourceTotals
}

// Resolve produces exactly one ResolvedConversion per requested ad id, taking
// conversion data from the highest-priority source that has any. Source
// fetches run concurrently and degrade independently: a failed branch yields
// an empty map so the remaining tiers still resolve.
func (s *service) Resolve(ctx context.Context, input ResolveInput) (map[uuid.UUID]ResolvedConversion, error) {
	started := time.Now()
	out := make(map[uuid.UUID]ResolvedConversion, len(input.AdIDs))
	if len(input.AdIDs) == 0 {
		return out, nil
	}

	ads, err := s.repo.FindAdsByIDs(ctx, input.AdIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading candidate ads")
	}

	results := make(chan sourceResult, 3)
	go func() { results <- s.fetchPixelTotals(ctx, input, ads) }()
	go func() { results <- s.fetchUTMTotals(ctx, input) }()
	go func() { results <- s.fetchPlatformTotals(ctx, input) }()

	bySource := make(map[enums.ConversionSource]map[uuid.UUID]sourceTotals, 3)
	for i := 0; i < 3; i++ {
		res := <-results
		bySource[res.source] = res.totals
	}

	linked, err := s.repo.CountLinkedProducts(ctx, input.UserID, input.AdIDs)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "linked product count failed, defaulting to zero")
		linked = map[uuid.UUID]int{}
	}

	priority := []enums.ConversionSource{
		enums.ConversionSourceRevoaPixel,
		enums.ConversionSourceUTMAttribution,
		enums.ConversionSourcePlatformPixel,
	}

	for _, adID := range input.AdIDs {
		record := ResolvedConversion{
			AdID:               adID,
			Source:             enums.ConversionSourceNone,
			LinkedProductCount: linked[adID],
		}
		for _, source := range priority {
			totals, ok := bySource[source][adID]
			if !ok || (totals.conversions == 0 && totals.value == 0) {
				continue
			}
			record.Conversions = totals.conversions
			record.ConversionValue = totals.value
			record.TotalCOGS = totals.cogs
			record.Source = source
			record.HasData = true
			break
		}
		// Clicks exist only platform-side, so the conversion rate divides
		// the winning source's conversions by platform-reported clicks.
		if clicks := bySource[enums.ConversionSourcePlatformPixel][adID].clicks; clicks > 0 {
			record.ConversionRate = record.Conversions / clicks
		}
		s.pipeline.IncResolution(record.Source.String())
		out[adID] = record
	}

	s.pipeline.ObserveResolveDuration(time.Since(started))
	return out, nil
}

// fetchPixelTotals attributes first-party purchase events to candidate ads by
// matching utm_term/utm_content against the ad's platform id or name.
func (s *service) fetchPixelTotals(ctx context.Context, input ResolveInput, ads []models.Ad) sourceResult {
	result := sourceResult{source: enums.ConversionSourceRevoaPixel, totals: map[uuid.UUID]sourceTotals{}}

	events, err := s.repo.FindPurchasePixelEvents(ctx, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		s.degrade(ctx, result.source, err)
		return result
	}

	for _, event := range events {
		for _, ad := range ads {
			if !pixelEventMatchesAd(event, ad) {
				continue
			}
			totals := result.totals[ad.ID]
			totals.conversions++
			totals.value += event.OrderValue
			result.totals[ad.ID] = totals
		}
	}
	return result
}

// fetchUTMTotals aggregates explicit ad->order attribution links and joins the
// order line items for real landed COGS.
func (s *service) fetchUTMTotals(ctx context.Context, input ResolveInput) sourceResult {
	result := sourceResult{source: enums.ConversionSourceUTMAttribution, totals: map[uuid.UUID]sourceTotals{}}

	rows, err := s.repo.FindAttributedConversions(ctx, input.AccountIDs, input.StartDate, input.EndDate)
	if err != nil {
		s.degrade(ctx, result.source, err)
		return result
	}
	if len(rows) == 0 {
		return result
	}

	orderIDs := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ShopifyOrderID]; ok {
			continue
		}
		seen[row.ShopifyOrderID] = struct{}{}
		orderIDs = append(orderIDs, row.ShopifyOrderID)
	}

	cogsByOrder, err := s.repo.FindOrderCOGS(ctx, orderIDs)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "order cogs lookup failed, attributing zero cogs")
		cogsByOrder = map[uuid.UUID]float64{}
	}

	for _, row := range rows {
		totals := result.totals[row.AdID]
		totals.conversions++
		totals.value += row.ConversionValue
		totals.cogs += cogsByOrder[row.ShopifyOrderID]
		result.totals[row.AdID] = totals
	}
	return result
}

// fetchPlatformTotals falls back to the platform-reported daily metrics.
func (s *service) fetchPlatformTotals(ctx context.Context, input ResolveInput) sourceResult {
	result := sourceResult{source: enums.ConversionSourcePlatformPixel, totals: map[uuid.UUID]sourceTotals{}}

	metricTotals, err := s.repo.FindAdMetricTotals(ctx, input.AdIDs, input.StartDate, input.EndDate)
	if err != nil {
		s.degrade(ctx, result.source, err)
		return result
	}

	for adID, totals := range metricTotals {
		result.totals[adID] = sourceTotals{
			conversions: totals.Conversions,
			value:       totals.ConversionValue,
			clicks:      float64(totals.Clicks),
		}
	}
	return result
}

func (s *service) degrade(ctx context.Context, source enums.ConversionSource, err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{"source": source.String(), "error": err.Error()})
	s.logg.Warn(ctx, "conversion source fetch degraded to empty")
	s.pipeline.IncDegraded(source.String())
}

// pixelEventMatchesAd reports whether a purchase event can be attributed to the
// ad. The utm_term and utm_content params carry the platform ad id when the
// storefront script tagged the landing URL; older tags carried a fragment of
// the ad name instead, hence the substring fallback.
func pixelEventMatchesAd(event models.PixelEvent, ad models.Ad) bool {
	for _, param := range []*string{event.UTMTerm, event.UTMContent} {
		if param == nil {
			continue
		}
		value := strings.TrimSpace(*param)
		if value == "" {
			continue
		}
		if value == ad.ExternalID {
			return true
		}
		if strings.Contains(strings.ToLower(ad.Name), strings.ToLower(value)) {
			return true
		}
	}
	return false
}
