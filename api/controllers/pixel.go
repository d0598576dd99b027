package controllers

import (
	"context"
	"net/http"

	"github.com/revoa/analytics-backend/api/responses"
	"github.com/revoa/analytics-backend/api/validators"
	"github.com/revoa/analytics-backend/internal/pixel"
	"github.com/revoa/analytics-backend/pkg/logger"
)

// PixelIngestor accepts a validated event envelope and enqueues it.
type PixelIngestor interface {
	Accept(ctx context.Context, envelope pixel.EventEnvelope) (string, error)
}

// PixelEvents is the unauthenticated storefront webhook. It validates the
// envelope and enqueues it; attribution runs asynchronously in the worker.
func PixelEvents(ingest PixelIngestor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var envelope pixel.EventEnvelope
		if err := validators.DecodeJSONBody(r, &envelope); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		eventID, err := ingest.Accept(ctx, envelope)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"event_id": eventID})
	}
}
