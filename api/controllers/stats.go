package controllers

import (
	"net/http"

	"github.com/worldoflottery/archive-backend/api/responses"
	"github.com/worldoflottery/archive-backend/internal/catalog"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"github.com/worldoflottery/archive-backend/pkg/logger"
)

// CollectionStats returns the insights snapshot for the dashboard.
func CollectionStats(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Stats(ctx))
	}
}
