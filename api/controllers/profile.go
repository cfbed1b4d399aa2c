package controllers

import (
	"net/http"

	"github.com/worldoflottery/archive-backend/api/responses"
	"github.com/worldoflottery/archive-backend/api/validators"
	"github.com/worldoflottery/archive-backend/internal/profile"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"github.com/worldoflottery/archive-backend/pkg/logger"
)

type registerProfilePayload struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginProfilePayload struct {
	Password string `json:"password" validate:"required"`
}

type profileResponse struct {
	Name string `json:"name"`
}

// ProfileRegister creates (or replaces) the collector profile.
func ProfileRegister(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		var payload registerProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stored, err := svc.Register(ctx, payload.Name, payload.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithCollector(ctx, stored.Name), "profile.registered")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profileResponse{Name: stored.Name})
	}
}

// ProfileLogin checks the supplied password against the stored profile.
func ProfileLogin(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		var payload loginProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stored, err := svc.Login(ctx, payload.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profileResponse{Name: stored.Name})
	}
}

// ProfileCurrent reports whether a profile exists and who it belongs to.
func ProfileCurrent(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		stored, err := svc.Current(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profileResponse{Name: stored.Name})
	}
}
