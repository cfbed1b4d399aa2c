package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
	"github.com/worldoflottery/archive-backend/pkg/enums"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"github.com/worldoflottery/archive-backend/pkg/logger"
	"github.com/worldoflottery/archive-backend/pkg/metrics"
)

// RecordStore is the durable persistence surface the service writes through.
type RecordStore interface {
	GetAll(ctx context.Context) ([]models.Ticket, error)
	Put(ctx context.Context, ticket models.Ticket) error
	Delete(ctx context.Context, id string) error
}

// TxRunner executes fn inside one storage transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TxRecordStore is a RecordStore that can bind its writes to a transaction.
type TxRecordStore interface {
	RecordStore
	WithTx(tx *gorm.DB) RecordStore
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Store         RecordStore
	Tx            TxRunner
	Logger        *logger.Logger
	Metrics       *metrics.CatalogMetrics
	SeedOnEmpty   bool
	MaxImageBytes int
	TopCountries  int

	// Now and NewID are injectable for tests; defaults cover production.
	Now   func() time.Time
	NewID func() string
}

// Service owns identifier assignment and keeps the in-memory projection
// authoritative for the rest of the application. It is the only component
// allowed to call the record store.
type Service interface {
	LoadAll(ctx context.Context) ([]models.Ticket, error)
	List(ctx context.Context, filter ListFilter) []models.Ticket
	Get(ctx context.Context, id string) (models.Ticket, error)
	Create(ctx context.Context, input CreateTicketInput) (models.Ticket, error)
	Update(ctx context.Context, id string, input UpdateTicketInput) (models.Ticket, error)
	Remove(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) (models.Ticket, error)
	DuplicateIDs(ctx context.Context) []string
	Stats(ctx context.Context) CollectionStats
}

type service struct {
	// mu serializes mutations so the count-based autoId sequence is never
	// computed from a stale projection within this process.
	mu            sync.Mutex
	store         RecordStore
	tx            TxRunner
	logg          *logger.Logger
	catalogMetric *metrics.CatalogMetrics
	proj          *projection
	seedOnEmpty   bool
	maxImageBytes int
	topCountries  int
	now           func() time.Time
	newID         func() string
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record store is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.NewID == nil {
		params.NewID = uuid.NewString
	}
	if params.TopCountries <= 0 {
		params.TopCountries = 10
	}
	return &service{
		store:         params.Store,
		tx:            params.Tx,
		logg:          params.Logger,
		catalogMetric: params.Metrics,
		proj:          newProjection(),
		seedOnEmpty:   params.SeedOnEmpty,
		maxImageBytes: params.MaxImageBytes,
		topCountries:  params.TopCountries,
		now:           params.Now,
		newID:         params.NewID,
	}, nil
}

// LoadAll hydrates the projection from the record store. On storage failure
// the projection degrades to empty and the error is returned as recoverable;
// the caller keeps running, records simply will not persist.
func (s *service) LoadAll(ctx context.Context) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	tickets, err := s.store.GetAll(ctx)
	if err != nil {
		s.proj.replaceAll(nil)
		s.catalogMetric.IncFailure("load")
		if s.logg != nil {
			s.logg.Error(ctx, "catalog.load_failed", err)
		}
		return nil, err
	}

	if len(tickets) == 0 && s.seedOnEmpty {
		seeded, seedErr := s.seedStarterSet(ctx)
		if seedErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "catalog.seed_incomplete: "+seedErr.Error())
		}
		tickets = seeded
	}

	s.proj.replaceAll(tickets)
	s.catalogMetric.IncSuccess("load")
	s.catalogMetric.ObserveDuration("load", time.Since(start))
	return s.proj.snapshot(), nil
}

// List derives the filtered, ordered view from the projection snapshot.
func (s *service) List(_ context.Context, filter ListFilter) []models.Ticket {
	snapshot := s.proj.snapshot()
	var duplicates map[string]struct{}
	if filter.DuplicatesOnly {
		duplicates = DuplicateIDs(snapshot)
	}
	return ApplyFilter(snapshot, filter, duplicates)
}

// Get returns a single projected ticket by id.
func (s *service) Get(_ context.Context, id string) (models.Ticket, error) {
	ticket, ok := s.proj.get(id)
	if !ok {
		return models.Ticket{}, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	return ticket, nil
}

// Create validates the input, assigns id/autoId/createdAt and persists the
// record. The projection is updated only after the store confirms the write.
func (s *service) Create(ctx context.Context, input CreateTicketInput) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	ticket, err := s.buildTicket(input)
	if err != nil {
		s.catalogMetric.IncFailure("create")
		return models.Ticket{}, err
	}

	if err := s.store.Put(ctx, ticket); err != nil {
		s.catalogMetric.IncFailure("create")
		return models.Ticket{}, err
	}
	s.proj.upsert(ticket)

	s.catalogMetric.IncSuccess("create")
	s.catalogMetric.ObserveDuration("create", time.Since(start))
	if s.logg != nil {
		s.logg.Info(s.logg.WithTicketID(ctx, ticket.ID), "catalog.ticket_created")
	}
	return ticket, nil
}

// Update merges the provided fields over the existing record, preserving id
// and createdAt, and persists the result before touching the projection.
func (s *service) Update(ctx context.Context, id string, input UpdateTicketInput) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	existing, ok := s.proj.get(id)
	if !ok {
		s.catalogMetric.IncFailure("update")
		return models.Ticket{}, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}

	merged, err := mergeTicket(existing, input)
	if err != nil {
		s.catalogMetric.IncFailure("update")
		return models.Ticket{}, err
	}
	if err := s.validateImages(merged.FrontImageURL, merged.BackImageURL); err != nil {
		s.catalogMetric.IncFailure("update")
		return models.Ticket{}, err
	}

	if err := s.store.Put(ctx, merged); err != nil {
		s.catalogMetric.IncFailure("update")
		return models.Ticket{}, err
	}
	s.proj.upsert(merged)

	s.catalogMetric.IncSuccess("update")
	s.catalogMetric.ObserveDuration("update", time.Since(start))
	return merged, nil
}

// Remove deletes the record from the store and only then drops it from the
// projection. Deleting an absent id is a no-op.
func (s *service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	if err := s.store.Delete(ctx, id); err != nil {
		s.catalogMetric.IncFailure("delete")
		return err
	}
	s.proj.remove(id)

	s.catalogMetric.IncSuccess("delete")
	s.catalogMetric.ObserveDuration("delete", time.Since(start))
	return nil
}

// ToggleFavorite flips the favorite flag and persists it.
func (s *service) ToggleFavorite(ctx context.Context, id string) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.proj.get(id)
	if !ok {
		return models.Ticket{}, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}

	existing.IsFavorite = !existing.IsFavorite
	if err := s.store.Put(ctx, existing); err != nil {
		s.catalogMetric.IncFailure("favorite")
		return models.Ticket{}, err
	}
	s.proj.upsert(existing)
	s.catalogMetric.IncSuccess("favorite")
	return existing, nil
}

// DuplicateIDs returns the current duplicate-id set, sorted.
func (s *service) DuplicateIDs(_ context.Context) []string {
	return SortedDuplicateIDs(s.proj.snapshot())
}

// Stats derives the insights snapshot from the projection.
func (s *service) Stats(_ context.Context) CollectionStats {
	return ComputeStats(s.proj.snapshot(), s.topCountries)
}

func (s *service) buildTicket(input CreateTicketInput) (models.Ticket, error) {
	country := strings.TrimSpace(input.Country)
	entity := strings.TrimSpace(input.Entity)
	ticketType := strings.TrimSpace(input.Type)

	if strings.TrimSpace(input.FrontImageURL) == "" {
		return models.Ticket{}, pkgerrors.New(pkgerrors.CodeValidation, "front image is required")
	}
	if country == "" {
		return models.Ticket{}, pkgerrors.New(pkgerrors.CodeValidation, "country is required")
	}
	if entity == "" {
		return models.Ticket{}, pkgerrors.New(pkgerrors.CodeValidation, "entity is required")
	}
	if ticketType == "" {
		return models.Ticket{}, pkgerrors.New(pkgerrors.CodeValidation, "type is required")
	}
	if err := s.validateImages(input.FrontImageURL, input.BackImageURL); err != nil {
		return models.Ticket{}, err
	}

	continent, err := enums.ParseContinent(strings.TrimSpace(input.Continent))
	if err != nil {
		return models.Ticket{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid continent")
	}
	state, err := enums.ParseTicketCondition(strings.TrimSpace(input.State))
	if err != nil {
		return models.Ticket{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ticket state")
	}
	if err := validateDrawDate(input.DrawDate); err != nil {
		return models.Ticket{}, err
	}

	sequence := s.proj.count() + 1
	return models.Ticket{
		ID:            s.newID(),
		AutoID:        formatAutoID(country, sequence),
		Country:       country,
		Continent:     continent,
		Entity:        entity,
		Type:          ticketType,
		ExtractionNo:  strings.TrimSpace(input.ExtractionNo),
		DrawDate:      strings.TrimSpace(input.DrawDate),
		Value:         strings.TrimSpace(input.Value),
		Dimensions:    strings.TrimSpace(input.Dimensions),
		State:         state,
		Notes:         input.Notes,
		FrontImageURL: input.FrontImageURL,
		BackImageURL:  input.BackImageURL,
		IsFavorite:    input.IsFavorite,
		CreatedAt:     s.now().UnixMilli(),
	}, nil
}

// mergeTicket overlays the provided fields on the existing record. Updates
// are looser than creates: a set-but-empty country, entity or type clears the
// field, only the front image refuses to be emptied. Identity fields never
// change here.
func mergeTicket(existing models.Ticket, input UpdateTicketInput) (models.Ticket, error) {
	merged := existing

	if input.Country != nil {
		merged.Country = strings.TrimSpace(*input.Country)
	}
	if input.Continent != nil {
		continent, err := enums.ParseContinent(strings.TrimSpace(*input.Continent))
		if err != nil {
			return models.Ticket{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid continent")
		}
		merged.Continent = continent
	}
	if input.Entity != nil {
		merged.Entity = strings.TrimSpace(*input.Entity)
	}
	if input.Type != nil {
		merged.Type = strings.TrimSpace(*input.Type)
	}
	if input.ExtractionNo != nil {
		merged.ExtractionNo = strings.TrimSpace(*input.ExtractionNo)
	}
	if input.DrawDate != nil {
		if err := validateDrawDate(*input.DrawDate); err != nil {
			return models.Ticket{}, err
		}
		merged.DrawDate = strings.TrimSpace(*input.DrawDate)
	}
	if input.Value != nil {
		merged.Value = strings.TrimSpace(*input.Value)
	}
	if input.Dimensions != nil {
		merged.Dimensions = strings.TrimSpace(*input.Dimensions)
	}
	if input.State != nil {
		state, err := enums.ParseTicketCondition(strings.TrimSpace(*input.State))
		if err != nil {
			return models.Ticket{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ticket state")
		}
		merged.State = state
	}
	if input.Notes != nil {
		merged.Notes = *input.Notes
	}
	if input.FrontImageURL != nil {
		if strings.TrimSpace(*input.FrontImageURL) == "" {
			return models.Ticket{}, pkgerrors.New(pkgerrors.CodeValidation, "front image cannot be removed")
		}
		merged.FrontImageURL = *input.FrontImageURL
	}
	if input.BackImageURL != nil {
		merged.BackImageURL = *input.BackImageURL
	}
	if input.IsFavorite != nil {
		merged.IsFavorite = *input.IsFavorite
	}

	// Identity fields survive any merge.
	merged.ID = existing.ID
	merged.AutoID = existing.AutoID
	merged.CreatedAt = existing.CreatedAt
	return merged, nil
}

func (s *service) validateImages(front, back string) error {
	if s.maxImageBytes <= 0 {
		return nil
	}
	if len(front) > s.maxImageBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "front image payload exceeds the size limit")
	}
	if len(back) > s.maxImageBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "back image payload exceeds the size limit")
	}
	return nil
}

func validateDrawDate(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", trimmed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "draw date must be an ISO date (YYYY-MM-DD)")
	}
	return nil
}
