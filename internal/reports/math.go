package reports

import (
	"github.com/revoa/analytics-backend/pkg/config"
	"github.com/revoa/analytics-backend/pkg/enums"
)

// safeDiv returns zero when the denominator is zero so empty periods never
// produce Inf/NaN in report payloads.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// deriveRatios computes the percentage CTR and the cost/return ratios. CVR
// stays a plain fraction of clicks that converted.
func deriveRatios(t Totals) Ratios {
	return Ratios{
		CTR:  safeDiv(float64(t.Clicks), float64(t.Impressions)) * 100,
		CPC:  safeDiv(t.Spend, float64(t.Clicks)),
		CPA:  safeDiv(t.Spend, t.Conversions),
		CVR:  safeDiv(t.Conversions, float64(t.Clicks)),
		ROAS: safeDiv(t.ConversionValue, t.Spend),
	}
}

// performanceTier buckets by ROAS using the configured thresholds.
func performanceTier(cfg config.ReportsConfig, roas float64) enums.PerformanceTier {
	switch {
	case roas >= cfg.HighROAS:
		return enums.PerformanceTierHigh
	case roas >= cfg.MediumROAS:
		return enums.PerformanceTierMedium
	default:
		return enums.PerformanceTierLow
	}
}

// fatigueScore maps CTR (percent) onto 0..100: a creative at 0% CTR scores 100,
// one at slope-determined healthy CTR scores 0.
func fatigueScore(cfg config.ReportsConfig, ctr float64) float64 {
	return clamp(0, 100, 100-ctr*cfg.FatigueCTRSlope)
}

// profitMargin is profit over revenue, as a percentage.
func profitMargin(profit, revenue float64) float64 {
	return safeDiv(profit, revenue) * 100
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
