package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
)

// fakeStore is an in-memory RecordStore with switchable failures.
type fakeStore struct {
	records  map[string]models.Ticket
	failGet  bool
	failPut  bool
	failDel  bool
	putCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]models.Ticket{}}
}

func (f *fakeStore) GetAll(context.Context) ([]models.Ticket, error) {
	if f.failGet {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, errors.New("disk gone"), "load tickets")
	}
	out := make([]models.Ticket, 0, len(f.records))
	for _, t := range f.records {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) Put(_ context.Context, ticket models.Ticket) error {
	f.putCalls++
	if f.failPut {
		return pkgerrors.Wrap(pkgerrors.CodeStorageWrite, errors.New("disk full"), "persist ticket")
	}
	f.records[ticket.ID] = ticket
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.failDel {
		return pkgerrors.Wrap(pkgerrors.CodeStorageWrite, errors.New("disk gone"), "delete ticket")
	}
	delete(f.records, id)
	return nil
}

func newTestService(t *testing.T, store RecordStore, seed bool) Service {
	t.Helper()

	counter := 0
	svc, err := NewService(ServiceParams{
		Store:       store,
		SeedOnEmpty: seed,
		Now:         func() time.Time { return time.UnixMilli(1700000000000) },
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%03d", counter)
		},
	})
	require.NoError(t, err)
	return svc
}

func validCreateInput() CreateTicketInput {
	return CreateTicketInput{
		Country:       "Portugal",
		Continent:     "Europe",
		Entity:        "Santa Casa da Misericórdia",
		Type:          "Lotaria Nacional",
		ExtractionNo:  "27",
		DrawDate:      "1975-07-04",
		Value:         "20$00",
		State:         "cs (Circulated)",
		FrontImageURL: "data:image/png;base64,AAAA",
	}
}

func TestServiceRequiresStore(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestCreateAssignsIdentity(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	ticket, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, "id-001", ticket.ID)
	assert.Equal(t, "PT-0001", ticket.AutoID)
	assert.Equal(t, int64(1700000000000), ticket.CreatedAt)

	second, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, "PT-0002", second.AutoID)
	assert.NotEqual(t, ticket.ID, second.ID)
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateTicketInput)
	}{
		{"missing front image", func(in *CreateTicketInput) { in.FrontImageURL = "" }},
		{"missing country", func(in *CreateTicketInput) { in.Country = "  " }},
		{"missing entity", func(in *CreateTicketInput) { in.Entity = "" }},
		{"missing type", func(in *CreateTicketInput) { in.Type = "" }},
		{"unknown continent", func(in *CreateTicketInput) { in.Continent = "Atlantis" }},
		{"unknown state", func(in *CreateTicketInput) { in.State = "Mint" }},
		{"malformed draw date", func(in *CreateTicketInput) { in.DrawDate = "04/07/1975" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(t, store, false)
			ctx := context.Background()
			_, err := svc.LoadAll(ctx)
			require.NoError(t, err)

			input := validCreateInput()
			tc.mutate(&input)

			_, err = svc.Create(ctx, input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Zero(t, store.putCalls, "validation failures must not reach the store")
		})
	}
}

func TestCreateEmptyDrawDateAllowed(t *testing.T) {
	svc := newTestService(t, newFakeStore(), false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	input := validCreateInput()
	input.DrawDate = ""
	ticket, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Empty(t, ticket.DrawDate)
}

func TestCreateFailedWriteLeavesProjectionUnchanged(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	store.failPut = true
	_, err = svc.Create(ctx, validCreateInput())
	require.Error(t, err)

	assert.Empty(t, svc.List(ctx, ListFilter{}))

	// The next successful create must reuse the sequence slot.
	store.failPut = false
	ticket, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, "PT-0001", ticket.AutoID)
}

func TestUpdatePreservesIdentityFields(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	newValue := "100$00"
	updated, err := svc.Update(ctx, created.ID, UpdateTicketInput{Value: &newValue})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.AutoID, updated.AutoID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "100$00", updated.Value)
	assert.Equal(t, created.Entity, updated.Entity, "unset fields stay untouched")
}

func TestUpdateCannotRemoveFrontImage(t *testing.T) {
	svc := newTestService(t, newFakeStore(), false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(ctx, created.ID, UpdateTicketInput{FrontImageURL: &empty})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(t, newFakeStore(), false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "missing", UpdateTicketInput{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, created.ID))
	require.NoError(t, svc.Remove(ctx, created.ID))
	assert.Empty(t, svc.List(ctx, ListFilter{}))
}

func TestToggleFavorite(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)
	require.False(t, created.IsFavorite)

	toggled, err := svc.ToggleFavorite(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)
	assert.True(t, store.records[created.ID].IsFavorite, "flag must be persisted")

	back, err := svc.ToggleFavorite(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, back.IsFavorite)
}

func TestLoadAllSeedsEmptyArchive(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, true)

	tickets, err := svc.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, len(starterTickets))
	assert.Len(t, store.records, len(starterTickets), "starter set must be persisted")
}

func TestLoadAllSkipsSeedWhenRecordsExist(t *testing.T) {
	store := newFakeStore()
	store.records["t-1"] = sampleTicket("t-1", "PT-0001")
	svc := newTestService(t, store, true)

	tickets, err := svc.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

// txFakeStore adds a transaction binding to fakeStore so seeding takes the
// single-transaction path.
type txFakeStore struct{ *fakeStore }

func (s *txFakeStore) WithTx(*gorm.DB) RecordStore { return s.fakeStore }

type stubTxRunner struct{ err error }

func (s stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

func TestLoadAllSeedsInOneTransaction(t *testing.T) {
	store := newFakeStore()
	svc, err := NewService(ServiceParams{
		Store:       &txFakeStore{store},
		Tx:          stubTxRunner{},
		SeedOnEmpty: true,
	})
	require.NoError(t, err)

	tickets, err := svc.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, len(starterTickets))
	assert.Len(t, store.records, len(starterTickets), "starter set must be persisted")
}

func TestSeedTransactionFailureLeavesArchiveEmpty(t *testing.T) {
	store := newFakeStore()
	svc, err := NewService(ServiceParams{
		Store:       &txFakeStore{store},
		Tx:          stubTxRunner{err: pkgerrors.New(pkgerrors.CodeStorageWrite, "commit failed")},
		SeedOnEmpty: true,
	})
	require.NoError(t, err)

	tickets, err := svc.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets, "an aborted seed yields an empty archive, not a partial one")
	assert.Zero(t, store.putCalls, "no record is written outside the transaction")
}

func TestLoadAllFailureDegradesToEmpty(t *testing.T) {
	store := newFakeStore()
	store.failGet = true
	svc := newTestService(t, store, true)
	ctx := context.Background()

	_, err := svc.LoadAll(ctx)
	require.Error(t, err)
	assert.Empty(t, svc.List(ctx, ListFilter{}), "projection degrades to empty on load failure")
}

func TestGetReturnsProjectedTicket(t *testing.T) {
	svc := newTestService(t, newFakeStore(), false)
	ctx := context.Background()
	_, err := svc.LoadAll(ctx)
	require.NoError(t, err)

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(ctx, "missing")
	require.Error(t, err)
}
