package controllers

import (
	"net/http"

	"github.com/divinobizcochito/storefront-backend/api/responses"
	"github.com/divinobizcochito/storefront-backend/pkg/config"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
	pkgredis "github.com/divinobizcochito/storefront-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bizcochito-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, pinger pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bizcochito-Env", cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
