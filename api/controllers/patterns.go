package controllers

import (
	"net/http"

	"github.com/revoa/analytics-backend/api/responses"
	"github.com/revoa/analytics-backend/internal/patterns"
	"github.com/revoa/analytics-backend/pkg/logger"
)

func PatternSuggestions(service patterns.Service, logg *logger.Logger) http.HandlerFunc {
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

		suggestions, err := service.Suggestions(ctx, userID, dateRange.StartDate, dateRange.EndDate)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}
