package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/santai-app/santai-backend/api/responses"
	"github.com/santai-app/santai-backend/pkg/config"
	"github.com/santai-app/santai-backend/pkg/db"
	pkgerrors "github.com/santai-app/santai-backend/pkg/errors"
	"github.com/santai-app/santai-backend/pkg/logger"
	"github.com/santai-app/santai-backend/pkg/storage/gcs"
)

const readinessTimeout = 3 * time.Second

type redisPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Santai-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency so load balancers only route to
// instances that can actually serve requests.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redisPinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Santai-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]func(context.Context) error{}
		if dbP != nil {
			checks["postgres"] = dbP.Ping
		}
		if redisP != nil {
			checks["redis"] = redisP.Ping
		}
		if gcsP != nil {
			checks["gcs"] = gcsP.Ping
		}

		status := map[string]string{}
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
						WithDetails(map[string]string{"dependency": name}))
				return
			}
			status[name] = "ok"
		}

		responses.WriteSuccess(w, status)
	}
}
