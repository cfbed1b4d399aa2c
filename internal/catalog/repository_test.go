package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/worldoflottery/archive-backend/pkg/config"
	pkgdb "github.com/worldoflottery/archive-backend/pkg/db"
	"github.com/worldoflottery/archive-backend/pkg/db/models"
	"github.com/worldoflottery/archive-backend/pkg/enums"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Ticket{}))
	return db
}

func sampleTicket(id, autoID string) models.Ticket {
	return models.Ticket{
		ID:            id,
		AutoID:        autoID,
		Country:       "Portugal",
		Continent:     enums.ContinentEurope,
		Entity:        "Santa Casa da Misericórdia",
		Type:          "Lotaria Nacional",
		ExtractionNo:  "27",
		DrawDate:      "1975-07-04",
		Value:         "20$00",
		State:         enums.ConditionCirculated,
		FrontImageURL: "data:image/png;base64,AAAA",
		CreatedAt:     1700000000000,
	}
}

func TestRepositoryPutAndGetAll(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, sampleTicket("t-1", "PT-0001")))
	require.NoError(t, repo.Put(ctx, sampleTicket("t-2", "PT-0002")))

	tickets, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryPutReplacesWholeRecord(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	original := sampleTicket("t-1", "PT-0001")
	original.Notes = "primeira série"
	require.NoError(t, repo.Put(ctx, original))

	replacement := sampleTicket("t-1", "PT-0001")
	replacement.Value = "50$00"
	require.NoError(t, repo.Put(ctx, replacement))

	tickets, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "50$00", tickets[0].Value)
	assert.Empty(t, tickets[0].Notes, "put must replace the record, not merge it")
}

func TestRepositoryPutRejectsEmptyID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	err := repo.Put(context.Background(), models.Ticket{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStorageWrite, typed.Code())
}

func TestRepositoryRoundTripSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := config.DBConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "archive.db"),
		MaxOpenConns: 1,
	}

	first, err := pkgdb.New(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, first.AutoMigrate(ctx, &models.Ticket{}))

	stored := sampleTicket("t-1", "PT-0001")
	require.NoError(t, NewRepository(first.DB()).Put(ctx, stored))
	require.NoError(t, first.Close())

	reopened, err := pkgdb.New(ctx, cfg, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	tickets, err := NewRepository(reopened.DB()).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1, "record must survive a fresh open of the same file")
	assert.Equal(t, stored, tickets[0])
}

func TestRepositoryDeleteIsIdempotent(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, sampleTicket("t-1", "PT-0001")))
	require.NoError(t, repo.Delete(ctx, "t-1"))
	require.NoError(t, repo.Delete(ctx, "t-1"), "deleting a missing id is not an error")
	require.NoError(t, repo.Delete(ctx, ""), "empty id is a no-op")

	tickets, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}
