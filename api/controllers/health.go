package controllers

import (
	"net/http"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/pkg/config"
	"github.com/tillpoint/tillpoint-backend/pkg/db"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tillpoint-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness. The database pinger is nil when the
// ledger runs on the file backend; readiness then only covers the process.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tillpoint-Env", cfg.App.Env)
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "database not reachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
