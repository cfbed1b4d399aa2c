package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/worldoflottery/archive-backend/api/responses"
	"github.com/worldoflottery/archive-backend/api/validators"
	"github.com/worldoflottery/archive-backend/internal/catalog"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"github.com/worldoflottery/archive-backend/pkg/logger"
)

type createTicketPayload struct {
	Country       string `json:"country" validate:"required"`
	Continent     string `json:"continent" validate:"required"`
	Entity        string `json:"entity" validate:"required"`
	Type          string `json:"type" validate:"required"`
	ExtractionNo  string `json:"extractionNo"`
	DrawDate      string `json:"drawDate"`
	Value         string `json:"value"`
	Dimensions    string `json:"dimensions"`
	State         string `json:"state" validate:"required"`
	Notes         string `json:"notes"`
	FrontImageURL string `json:"frontImageUrl" validate:"required"`
	BackImageURL  string `json:"backImageUrl"`
	IsFavorite    bool   `json:"isFavorite"`
}

type updateTicketPayload struct {
	Country       *string `json:"country"`
	Continent     *string `json:"continent"`
	Entity        *string `json:"entity"`
	Type          *string `json:"type"`
	ExtractionNo  *string `json:"extractionNo"`
	DrawDate      *string `json:"drawDate"`
	Value         *string `json:"value"`
	Dimensions    *string `json:"dimensions"`
	State         *string `json:"state"`
	Notes         *string `json:"notes"`
	FrontImageURL *string `json:"frontImageUrl"`
	BackImageURL  *string `json:"backImageUrl"`
	IsFavorite    *bool   `json:"isFavorite"`
}

// TicketList returns the filtered, ordered archive view.
func TicketList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		filter := catalog.ListFilter{
			Search:         strings.TrimSpace(query.Get("q")),
			Continent:      strings.TrimSpace(query.Get("continent")),
			Country:        strings.TrimSpace(query.Get("country")),
			FavoritesOnly:  queryFlag(query.Get("favorites")),
			DuplicatesOnly: queryFlag(query.Get("duplicates")),
		}

		responses.WriteSuccess(w, svc.List(ctx, filter))
	}
}

// TicketDetail returns a single ticket by id.
func TicketDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "ticketId"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required"))
			return
		}

		ticket, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}

// TicketCreate registers a new ticket in the archive.
func TicketCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createTicketPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ticket, err := svc.Create(ctx, catalog.CreateTicketInput{
			Country:       payload.Country,
			Continent:     payload.Continent,
			Entity:        payload.Entity,
			Type:          payload.Type,
			ExtractionNo:  payload.ExtractionNo,
			DrawDate:      payload.DrawDate,
			Value:         payload.Value,
			Dimensions:    payload.Dimensions,
			State:         payload.State,
			Notes:         payload.Notes,
			FrontImageURL: payload.FrontImageURL,
			BackImageURL:  payload.BackImageURL,
			IsFavorite:    payload.IsFavorite,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ticket)
	}
}

// TicketUpdate merges the provided fields over an existing ticket.
func TicketUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "ticketId"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required"))
			return
		}

		var payload updateTicketPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ticket, err := svc.Update(ctx, id, catalog.UpdateTicketInput{
			Country:       payload.Country,
			Continent:     payload.Continent,
			Entity:        payload.Entity,
			Type:          payload.Type,
			ExtractionNo:  payload.ExtractionNo,
			DrawDate:      payload.DrawDate,
			Value:         payload.Value,
			Dimensions:    payload.Dimensions,
			State:         payload.State,
			Notes:         payload.Notes,
			FrontImageURL: payload.FrontImageURL,
			BackImageURL:  payload.BackImageURL,
			IsFavorite:    payload.IsFavorite,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}

// TicketDelete removes a ticket. Deleting an absent id still succeeds.
func TicketDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "ticketId"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required"))
			return
		}

		if err := svc.Remove(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}

// TicketToggleFavorite flips the favorite flag on a ticket.
func TicketToggleFavorite(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "ticketId"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required"))
			return
		}

		ticket, err := svc.ToggleFavorite(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}

// TicketDuplicates returns the ids of records that collide on the
// country/date/value/extraction duplicate key.
func TicketDuplicates(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string][]string{"duplicateIds": svc.DuplicateIDs(ctx)})
	}
}

func queryFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
