package controllers

import (
	"net/http"

	"github.com/revoa/analytics-backend/api/responses"
	"github.com/revoa/analytics-backend/api/validators"
	"github.com/revoa/analytics-backend/internal/reports"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
	"github.com/revoa/analytics-backend/pkg/logger"
)

func ReportsOverview(service reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dateRange, err := resolveDateRange(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		overview, err := service.Overview(ctx, userID, dateRange)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

func ReportsCreatives(service reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dateRange, err := resolveDateRange(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		// limit=0 returns the full ranking.
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := service.CreativePerformance(ctx, userID, dateRange)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}
		responses.WriteSuccess(w, rows)
	}
}

func ReportsCampaigns(service reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dateRange, err := resolveDateRange(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := service.CampaignPerformance(ctx, userID, dateRange)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ReportsAdSets(service reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dateRange, err := resolveDateRange(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := service.AdSetPerformance(ctx, userID, dateRange)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ReportsProfit(service reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dateRange, err := resolveDateRange(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		metrics, err := service.ProfitMetrics(ctx, userID, dateRange)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}

type enrichRequest struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// ReportsEnrichProfit backfills cogs/profit columns onto stored metric rows.
// The write is not atomic across rows; the response carries how many updated.
func ReportsEnrichProfit(service reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body enrichRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dateRange := reports.DateRange{StartDate: body.Start, EndDate: body.End}
		if dateRange.EndDate < dateRange.StartDate {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "end must not precede start"))
			return
		}

		result, err := service.EnrichMetricsWithProfit(ctx, userID, dateRange)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
