package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/revoa/analytics-backend/api/responses"
	"github.com/revoa/analytics-backend/pkg/config"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
	"github.com/revoa/analytics-backend/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one dependency probed by the readiness endpoint.
// Optional checks report their status but never fail readiness.
type HealthCheck struct {
	Name     string
	Pinger   pinger
	Optional bool
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Revoa-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every registered dependency concurrently and reports
// per-dependency status. Any required failure turns the whole check unready.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		type outcome struct {
			name     string
			optional bool
			err      error
		}

		results := make([]outcome, len(checks))
		var wg sync.WaitGroup
		for idx, check := range checks {
			if check.Pinger == nil {
				continue
			}
			wg.Add(1)
			go func(idx int, check HealthCheck) {
				defer wg.Done()
				results[idx] = outcome{
					name:     check.Name,
					optional: check.Optional,
					err:      check.Pinger.Ping(ctx),
				}
			}(idx, check)
		}
		wg.Wait()

		statuses := make(map[string]string, len(checks))
		ready := true
		for _, res := range results {
			if res.name == "" {
				continue
			}
			if res.err != nil {
				statuses[res.name] = "unavailable"
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", res.name), "readiness check failed")
				}
				if !res.optional {
					ready = false
				}
				continue
			}
			statuses[res.name] = "ok"
		}

		w.Header().Set("X-Revoa-Env", cfg.App.Env)
		if !ready {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(statuses))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "dependencies": statuses})
	}
}
