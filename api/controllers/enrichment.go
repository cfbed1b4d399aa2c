package controllers

import (
	"net/http"

	"github.com/worldoflottery/archive-backend/api/responses"
	"github.com/worldoflottery/archive-backend/api/validators"
	"github.com/worldoflottery/archive-backend/internal/enrichment"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"github.com/worldoflottery/archive-backend/pkg/logger"
)

type analyzeTicketPayload struct {
	MIMEType    string `json:"mimeType"`
	ImageBase64 string `json:"imageBase64" validate:"required"`
}

type researchTicketPayload struct {
	Prompt string `json:"prompt" validate:"required"`
}

// EnrichmentAnalyze extracts entry-form fields from a ticket scan.
func EnrichmentAnalyze(svc enrichment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "enrichment not configured"))
			return
		}

		var payload analyzeTicketPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		details, err := svc.AnalyzeTicket(ctx, payload.MIMEType, payload.ImageBase64)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// EnrichmentResearch returns a grounded write-up for a ticket description.
func EnrichmentResearch(svc enrichment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "enrichment not configured"))
			return
		}

		var payload researchTicketPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ResearchTicket(ctx, payload.Prompt)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
