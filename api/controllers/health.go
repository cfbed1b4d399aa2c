package controllers

import (
	"net/http"

	"github.com/worldoflottery/archive-backend/api/responses"
	"github.com/worldoflottery/archive-backend/pkg/config"
	"github.com/worldoflottery/archive-backend/pkg/db"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"github.com/worldoflottery/archive-backend/pkg/logger"
	"github.com/worldoflottery/archive-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Lotaria-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the archive storage and, when configured, the cache.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Lotaria-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, "database not ready"))
				return
			}
		}

		if redisClient != nil {
			if err := redisClient.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
