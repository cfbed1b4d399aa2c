package catalog

import (
	"context"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
	"github.com/worldoflottery/archive-backend/pkg/enums"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// placeholderImage is a 1x1 transparent GIF; starter records carry it so the
// front-image invariant holds without shipping real scans.
const placeholderImage = "data:image/gif;base64,R0lGODlhAQABAIAAAP///wAAACH5BAEAAAAALAAAAAABAAEAAAICRAEAOw=="

// starterTickets is the fixed set written into an empty archive on first
// run. IDs are constant so a reseed never duplicates records.
var starterTickets = []models.Ticket{
	{
		ID:            "5f0c1d5e-a9f1-4a7e-9c1f-0d6b7b1c0a01",
		AutoID:        "PT-0001",
		Country:       "Portugal",
		Continent:     enums.ContinentEurope,
		Entity:        "Santa Casa da Misericórdia",
		Type:          "Lotaria Nacional",
		ExtractionNo:  "27",
		DrawDate:      "1975-07-04",
		Value:         "20$00",
		Dimensions:    "150x80mm",
		State:         enums.ConditionCirculated,
		Notes:         "Clássica de Lisboa, série completa.",
		FrontImageURL: placeholderImage,
		CreatedAt:     1609459200000,
	},
	{
		ID:            "5f0c1d5e-a9f1-4a7e-9c1f-0d6b7b1c0a02",
		AutoID:        "ES-0002",
		Country:       "Espanha",
		Continent:     enums.ContinentEurope,
		Entity:        "Loterías y Apuestas del Estado",
		Type:          "Lotaria Estatal",
		ExtractionNo:  "102",
		DrawDate:      "1982-12-22",
		Value:         "500 pesetas",
		Dimensions:    "140x70mm",
		State:         enums.ConditionUncirculated,
		Notes:         "Sorteio Extraordinário de Navidad.",
		FrontImageURL: placeholderImage,
		CreatedAt:     1609459200001,
	},
	{
		ID:            "5f0c1d5e-a9f1-4a7e-9c1f-0d6b7b1c0a03",
		AutoID:        "BR-0003",
		Country:       "Brasil",
		Continent:     enums.ContinentAmericas,
		Entity:        "Caixa Econômica Federal",
		Type:          "Lotaria Nacional",
		ExtractionNo:  "5",
		DrawDate:      "",
		Value:         "2,50",
		Dimensions:    "160x85mm",
		State:         enums.ConditionAmostra,
		FrontImageURL: placeholderImage,
		CreatedAt:     1609459200002,
	},
}

// seedStarterSet writes the starter records through the record store. With a
// transaction runner and a tx-capable store the whole set commits or rolls
// back as one write, so a first run never leaves a partial starter set.
func (s *service) seedStarterSet(ctx context.Context) ([]models.Ticket, error) {
	if txStore, ok := s.store.(TxRecordStore); ok && s.tx != nil {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			bound := txStore.WithTx(tx)
			for _, ticket := range starterTickets {
				if err := bound.Put(ctx, ticket); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return append([]models.Ticket(nil), starterTickets...), nil
	}

	// No transaction runner: write record by record, combining per-record
	// failures so one bad write does not hide the rest.
	var errs error
	seeded := make([]models.Ticket, 0, len(starterTickets))
	for _, ticket := range starterTickets {
		if err := s.store.Put(ctx, ticket); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		seeded = append(seeded, ticket)
	}
	return seeded, errs
}
