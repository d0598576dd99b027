package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/api/middleware"
	"github.com/revoa/analytics-backend/internal/reports"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
)

const (
	dateLayout       = "2006-01-02"
	defaultRangeDays = 30
)

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// requireUserID pulls the authenticated user out of the request context.
// Report data is always scoped to one user, so a missing or malformed id is a
// hard stop.
func requireUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "user context required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "user context required")
	}
	return userID, nil
}

// resolveDateRange reads start/end query params as ISO days. Both or neither
// must be supplied; omitted, the range covers the trailing 30 days.
func resolveDateRange(r *http.Request, now time.Time) (reports.DateRange, error) {
	query := r.URL.Query()
	start := strings.TrimSpace(query.Get("start"))
	end := strings.TrimSpace(query.Get("end"))

	if start == "" && end == "" {
		endDay := now.Truncate(24 * time.Hour)
		startDay := endDay.AddDate(0, 0, -(defaultRangeDays - 1))
		return reports.DateRange{
			StartDate: startDay.Format(dateLayout),
			EndDate:   endDay.Format(dateLayout),
		}, nil
	}
	if start == "" || end == "" {
		return reports.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "start and end must be provided together")
	}
	if _, err := time.Parse(dateLayout, start); err != nil {
		return reports.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid start date")
	}
	if _, err := time.Parse(dateLayout, end); err != nil {
		return reports.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid end date")
	}
	if end < start {
		return reports.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "end must not precede start")
	}
	return reports.DateRange{StartDate: start, EndDate: end}, nil
}
