package patterns

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/config"
	"github.com/revoa/analytics-backend/pkg/enums"
)

// Availability thresholds in days of distinct history.
const (
	comprehensiveDays = 90
	moderateDays      = 30
	basicDays         = 7
)

// Budget analysis constants: equal-count spend buckets and the share of the
// running-peak marginal return below which spend is considered saturated.
const (
	budgetBucketCount    = 10
	diminishingThreshold = 0.8
)

// Correlation classification cutoffs.
const (
	synergisticR    = 0.5
	cannibalisticR  = -0.3
	momentumBandPct = 10.0
)

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Analyzer computes cross-platform patterns over pre-aggregated daily metrics.
// It is pure: construction captures all inputs and every method is read-only,
// returning empty results (never errors) when the sample is too thin.
type Analyzer struct {
	userID  uuid.UUID
	metrics []DailyMetric
	cfg     config.PatternsConfig
}

// NewAnalyzer builds an analyzer over the caller's daily metrics.
func NewAnalyzer(userID uuid.UUID, metrics []DailyMetric, cfg config.PatternsConfig) *Analyzer {
	if cfg.MinBudgetDays <= 0 {
		cfg.MinBudgetDays = 20
	}
	if cfg.MinCorrelationDays <= 0 {
		cfg.MinCorrelationDays = 14
	}
	return &Analyzer{userID: userID, metrics: metrics, cfg: cfg}
}

// DataAvailability grades the distinct-day depth of the dataset.
func (a *Analyzer) DataAvailability() Availability {
	days := map[string]struct{}{}
	for _, m := range a.metrics {
		days[m.Date] = struct{}{}
	}

	out := Availability{Days: len(days)}
	switch {
	case out.Days >= comprehensiveDays:
		out.Tier = enums.AvailabilityComprehensive
		out.Confidence = 0.9
	case out.Days >= moderateDays:
		out.Tier = enums.AvailabilityModerate
		out.Confidence = 0.7
	case out.Days >= basicDays:
		out.Tier = enums.AvailabilityBasic
		out.Confidence = 0.5
	default:
		out.Tier = enums.AvailabilityMinimal
		out.Confidence = 0.3
	}
	return out
}

// DayOfWeekPatterns averages performance per weekday per platform. Rows on
// the same platform and calendar day merge into one sample before bucketing.
func (a *Analyzer) DayOfWeekPatterns() []DayOfWeekPattern {
	type dayAgg struct {
		revenue     float64
		profit      float64
		spend       float64
		conversions float64
	}
	byPlatform := map[enums.AdPlatform]map[string]*dayAgg{}
	for _, m := range a.metrics {
		byDate, ok := byPlatform[m.Platform]
		if !ok {
			byDate = map[string]*dayAgg{}
			byPlatform[m.Platform] = byDate
		}
		agg, ok := byDate[m.Date]
		if !ok {
			agg = &dayAgg{}
			byDate[m.Date] = agg
		}
		agg.revenue += m.Revenue
		agg.profit += m.NetProfit
		agg.spend += m.AdSpend
		agg.conversions += m.Conversions
	}

	out := []DayOfWeekPattern{}
	for _, platform := range enums.AllAdPlatforms() {
		byDate := byPlatform[platform]
		if len(byDate) == 0 {
			continue
		}

		sums := make([]dayAgg, 7)
		counts := make([]int, 7)
		for date, agg := range byDate {
			day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
			if err != nil {
				continue
			}
			wd := int(day.Weekday())
			sums[wd].revenue += agg.revenue
			sums[wd].profit += agg.profit
			sums[wd].spend += agg.spend
			sums[wd].conversions += agg.conversions
			counts[wd]++
		}

		for wd := 0; wd < 7; wd++ {
			if counts[wd] == 0 {
				continue
			}
			n := float64(counts[wd])
			out = append(out, DayOfWeekPattern{
				Platform:        platform,
				Weekday:         weekdayNames[wd],
				AvgRevenue:      sums[wd].revenue / n,
				AvgNetProfit:    sums[wd].profit / n,
				AvgSpend:        sums[wd].spend / n,
				AvgConversions:  sums[wd].conversions / n,
				ProfitPerDollar: ratioOrZero(sums[wd].profit, sums[wd].spend),
				DataPoints:      counts[wd],
			})
		}
	}
	return out
}

// TimeOfDayPatterns folds each platform's hourly revenue breakdowns into four
// 6-hour windows. Day-level profit, spend, and conversions are apportioned
// into the windows by that day's hourly revenue share; platforms without any
// hourly resolution are skipped.
func (a *Analyzer) TimeOfDayPatterns() []TimeWindowPattern {
	byPlatform := a.groupByPlatform()
	out := []TimeWindowPattern{}

	for _, platform := range enums.AllAdPlatforms() {
		windows := [4]TimeWindowPattern{
			{Platform: platform, Window: "overnight", StartHour: 0, EndHour: 5},
			{Platform: platform, Window: "morning", StartHour: 6, EndHour: 11},
			{Platform: platform, Window: "afternoon", StartHour: 12, EndHour: 17},
			{Platform: platform, Window: "evening", StartHour: 18, EndHour: 23},
		}

		var total float64
		var hourlyDays int
		var profitSums, spendSums, convSums [4]float64
		for _, row := range byPlatform[platform] {
			var dayTotal float64
			var dayWindows [4]float64
			for hour, revenue := range row.Hourly {
				dayWindows[hour/6] += revenue
				dayTotal += revenue
			}
			if dayTotal == 0 {
				continue
			}
			hourlyDays++
			total += dayTotal
			for w := range windows {
				windows[w].Revenue += dayWindows[w]
				share := dayWindows[w] / dayTotal
				profitSums[w] += row.NetProfit * share
				spendSums[w] += row.AdSpend * share
				convSums[w] += row.Conversions * share
			}
		}
		if total == 0 {
			continue
		}

		n := float64(hourlyDays)
		for w := range windows {
			windows[w].RevenueShare = windows[w].Revenue / total
			windows[w].AvgNetProfit = profitSums[w] / n
			windows[w].AvgSpend = spendSums[w] / n
			windows[w].AvgConversions = convSums[w] / n
			windows[w].ProfitPerDollar = ratioOrZero(profitSums[w], spendSums[w])
		}
		out = append(out, windows[:]...)
	}
	return out
}

// WeekOverWeekTrends compares each platform's last 7 days of profit against
// the prior 7 and the trailing-28 daily average.
func (a *Analyzer) WeekOverWeekTrends() []PlatformTrend {
	byPlatform := a.groupByPlatform()
	out := []PlatformTrend{}

	for _, platform := range enums.AllAdPlatforms() {
		rows := byPlatform[platform]
		if len(rows) < 14 {
			continue
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

		last7Rows := rows[len(rows)-7:]
		prior7Rows := rows[len(rows)-14 : len(rows)-7]
		last7 := sumProfit(last7Rows)
		prior7 := sumProfit(prior7Rows)

		trailing := rows
		if len(trailing) > 28 {
			trailing = trailing[len(trailing)-28:]
		}
		trailingAvg := sumProfit(trailing) / float64(len(trailing))

		changePct := 0.0
		if prior7 != 0 {
			changePct = (last7 - prior7) / math.Abs(prior7) * 100
		}

		// Accelerating demands improving efficiency too: more profit bought
		// with disproportionately more spend is growth, not momentum.
		lastEfficiency := profitPerSpend(last7, sumSpend(last7Rows))
		priorEfficiency := profitPerSpend(prior7, sumSpend(prior7Rows))

		momentum := enums.MomentumStable
		switch {
		case changePct > momentumBandPct && lastEfficiency > priorEfficiency:
			momentum = enums.MomentumAccelerating
		case changePct < -momentumBandPct:
			momentum = enums.MomentumDeclining
		}

		out = append(out, PlatformTrend{
			Platform:      platform,
			Last7Profit:   last7,
			Prior7Profit:  prior7,
			Trailing28Avg: trailingAvg,
			ChangePct:     changePct,
			Momentum:      momentum,
			DaysOfData:    len(rows),
		})
	}
	return out
}

// BudgetCorrelation buckets each platform's days by spend and finds where the
// marginal return falls off. Platforms with fewer spend days than the
// configured minimum are skipped.
func (a *Analyzer) BudgetCorrelation() []BudgetInsight {
	byPlatform := a.groupByPlatform()
	out := []BudgetInsight{}

	for _, platform := range enums.AllAdPlatforms() {
		var spendDays []DailyMetric
		for _, row := range byPlatform[platform] {
			if row.AdSpend > 0 {
				spendDays = append(spendDays, row)
			}
		}
		if len(spendDays) < a.cfg.MinBudgetDays {
			continue
		}

		sort.Slice(spendDays, func(i, j int) bool { return spendDays[i].AdSpend < spendDays[j].AdSpend })

		// Equal-count buckets; the remainder spreads one extra day into the
		// leading buckets so every spend day lands in some bucket.
		bucketCount := budgetBucketCount
		if len(spendDays) < bucketCount {
			bucketCount = len(spendDays)
		}
		base := len(spendDays) / bucketCount
		extra := len(spendDays) % bucketCount

		buckets := make([]BudgetBucket, 0, bucketCount)
		start := 0
		for b := 0; b < bucketCount; b++ {
			size := base
			if b < extra {
				size++
			}
			chunk := spendDays[start : start+size]
			start += size

			var spend, profit float64
			for _, row := range chunk {
				spend += row.AdSpend
				profit += row.NetProfit
			}
			n := float64(len(chunk))
			bucket := BudgetBucket{
				AvgSpend:  spend / n,
				AvgProfit: profit / n,
				Days:      len(chunk),
			}
			if bucket.AvgSpend > 0 {
				bucket.MarginalReturn = bucket.AvgProfit / bucket.AvgSpend
			}
			buckets = append(buckets, bucket)
		}

		insight := BudgetInsight{Platform: platform, Buckets: buckets}
		peak := math.Inf(-1)
		for _, bucket := range buckets {
			if bucket.MarginalReturn > peak {
				peak = bucket.MarginalReturn
				continue
			}
			if peak > 0 && bucket.MarginalReturn < peak*diminishingThreshold {
				insight.DiminishingThresholdSpend = bucket.AvgSpend
				insight.HasThreshold = true
				break
			}
		}
		out = append(out, insight)
	}
	return out
}

// CrossPlatformCorrelation computes Pearson correlation of daily profit for
// each platform pair over their aligned dates.
func (a *Analyzer) CrossPlatformCorrelation() []PlatformPair {
	profitByPlatformDate := map[enums.AdPlatform]map[string]float64{}
	for _, m := range a.metrics {
		dates, ok := profitByPlatformDate[m.Platform]
		if !ok {
			dates = map[string]float64{}
			profitByPlatformDate[m.Platform] = dates
		}
		dates[m.Date] += m.NetProfit
	}

	platforms := enums.AllAdPlatforms()
	out := []PlatformPair{}
	for i := 0; i < len(platforms); i++ {
		for j := i + 1; j < len(platforms); j++ {
			seriesA, okA := profitByPlatformDate[platforms[i]]
			seriesB, okB := profitByPlatformDate[platforms[j]]
			if !okA || !okB {
				continue
			}

			var xs, ys []float64
			var dates []string
			for date := range seriesA {
				if _, ok := seriesB[date]; ok {
					dates = append(dates, date)
				}
			}
			if len(dates) < a.cfg.MinCorrelationDays {
				continue
			}
			sort.Strings(dates)
			for _, date := range dates {
				xs = append(xs, seriesA[date])
				ys = append(ys, seriesB[date])
			}

			r, ok := pearson(xs, ys)
			if !ok {
				continue
			}
			out = append(out, PlatformPair{
				PlatformA:    platforms[i],
				PlatformB:    platforms[j],
				Correlation:  r,
				OverlapDays:  len(dates),
				Relationship: classifyRelationship(r),
			})
		}
	}
	return out
}

// Suggestions assembles all analyses into ranked recommendations. Confidence
// comes from the availability tier; priority from the size of the effect.
func (a *Analyzer) Suggestions() []Suggestion {
	availability := a.DataAvailability()
	out := []Suggestion{}

	for _, trend := range a.WeekOverWeekTrends() {
		if trend.Momentum == enums.MomentumStable {
			continue
		}
		verb := "accelerating"
		if trend.Momentum == enums.MomentumDeclining {
			verb = "declining"
		}
		out = append(out, Suggestion{
			Kind:       enums.SuggestionTrendAlert,
			Priority:   math.Abs(trend.ChangePct),
			Confidence: availability.Confidence,
			Rationale: fmt.Sprintf("%s profit is %s: %.0f last 7 days vs %.0f prior (%+.1f%%)",
				trend.Platform, verb, trend.Last7Profit, trend.Prior7Profit, trend.ChangePct),
			UserID: a.userID,
		})
	}

	for _, insight := range a.BudgetCorrelation() {
		if !insight.HasThreshold {
			continue
		}
		out = append(out, Suggestion{
			Kind:       enums.SuggestionDiminishingReturns,
			Priority:   50,
			Confidence: availability.Confidence,
			Rationale: fmt.Sprintf("%s marginal returns fall off near %.0f daily spend; additional budget above that underperforms",
				insight.Platform, insight.DiminishingThresholdSpend),
			UserID: a.userID,
		})
	}

	for _, pair := range a.CrossPlatformCorrelation() {
		if pair.Relationship == enums.RelationshipIndependent {
			continue
		}
		priority := math.Abs(pair.Correlation) * 60
		out = append(out, Suggestion{
			Kind:       enums.SuggestionBudgetReallocation,
			Priority:   priority,
			Confidence: availability.Confidence,
			Rationale: fmt.Sprintf("%s and %s profits are %s (r=%.2f over %d days)",
				pair.PlatformA, pair.PlatformB, pair.Relationship, pair.Correlation, pair.OverlapDays),
			UserID: a.userID,
		})
	}

	daysByPlatform := map[enums.AdPlatform][]DayOfWeekPattern{}
	for _, day := range a.DayOfWeekPatterns() {
		daysByPlatform[day.Platform] = append(daysByPlatform[day.Platform], day)
	}
	for _, platform := range enums.AllAdPlatforms() {
		best, worst, ok := bestAndWorstDays(daysByPlatform[platform])
		if !ok {
			continue
		}
		out = append(out, Suggestion{
			Kind:       enums.SuggestionDayOfWeek,
			Priority:   30,
			Confidence: availability.Confidence,
			Rationale: fmt.Sprintf("%s averages %.0f net profit on %s vs %.0f on %s; consider shifting budget toward stronger days",
				platform, best.AvgNetProfit, best.Weekday, worst.AvgNetProfit, worst.Weekday),
			UserID: a.userID,
		})
	}

	windowsByPlatform := map[enums.AdPlatform][]TimeWindowPattern{}
	for _, w := range a.TimeOfDayPatterns() {
		windowsByPlatform[w.Platform] = append(windowsByPlatform[w.Platform], w)
	}
	for _, platform := range enums.AllAdPlatforms() {
		windows := windowsByPlatform[platform]
		if len(windows) == 0 {
			continue
		}
		top := windows[0]
		for _, w := range windows[1:] {
			if w.Revenue > top.Revenue {
				top = w
			}
		}
		if top.RevenueShare <= 0.4 {
			continue
		}
		out = append(out, Suggestion{
			Kind:       enums.SuggestionTimeOfDay,
			Priority:   top.RevenueShare * 50,
			Confidence: availability.Confidence,
			Rationale: fmt.Sprintf("%.0f%% of %s revenue lands in the %s window (%02d:00-%02d:59); dayparting may be worthwhile",
				top.RevenueShare*100, platform, top.Window, top.StartHour, top.EndHour),
			UserID: a.userID,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

func (a *Analyzer) groupByPlatform() map[enums.AdPlatform][]DailyMetric {
	out := map[enums.AdPlatform][]DailyMetric{}
	for _, m := range a.metrics {
		out[m.Platform] = append(out[m.Platform], m)
	}
	return out
}

func sumProfit(rows []DailyMetric) float64 {
	var total float64
	for _, row := range rows {
		total += row.NetProfit
	}
	return total
}

func sumSpend(rows []DailyMetric) float64 {
	var total float64
	for _, row := range rows {
		total += row.AdSpend
	}
	return total
}

// ratioOrZero avoids Inf/NaN in pattern payloads for spendless buckets.
func ratioOrZero(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// profitPerSpend is the efficiency measure behind momentum classification.
// With no spend recorded the profit itself stands in, so organic-only
// platforms still classify on profit movement alone.
func profitPerSpend(profit, spend float64) float64 {
	if spend == 0 {
		return profit
	}
	return profit / spend
}

func bestAndWorstDays(days []DayOfWeekPattern) (best, worst DayOfWeekPattern, ok bool) {
	if len(days) < 2 {
		return best, worst, false
	}
	best, worst = days[0], days[0]
	for _, day := range days[1:] {
		if day.AvgNetProfit > best.AvgNetProfit {
			best = day
		}
		if day.AvgNetProfit < worst.AvgNetProfit {
			worst = day
		}
	}
	if best.Weekday == worst.Weekday {
		return best, worst, false
	}
	return best, worst, true
}

func classifyRelationship(r float64) enums.PlatformRelationship {
	switch {
	case r > synergisticR:
		return enums.RelationshipSynergistic
	case r < cannibalisticR:
		return enums.RelationshipCannibalistic
	default:
		return enums.RelationshipIndependent
	}
}

// pearson returns the correlation coefficient, or ok=false when either series
// has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if n == 0 || len(xs) != len(ys) {
		return 0, false
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
