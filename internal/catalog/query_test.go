package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
	"github.com/worldoflottery/archive-backend/pkg/enums"
)

func queryRecord(id, country, continent, entity, extraction, drawDate string, fav bool) models.Ticket {
	return models.Ticket{
		ID:           id,
		AutoID:       id,
		Country:      country,
		Continent:    enums.Continent(continent),
		Entity:       entity,
		ExtractionNo: extraction,
		DrawDate:     drawDate,
		IsFavorite:   fav,
	}
}

func idsOf(records []models.Ticket) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestApplyFilterOrdersByDateThenExtraction(t *testing.T) {
	records := []models.Ticket{
		queryRecord("a", "Portugal", "Europe", "Santa Casa", "10", "1980-01-01", false),
		queryRecord("b", "Portugal", "Europe", "Santa Casa", "2", "1980-01-01", false),
		queryRecord("c", "Portugal", "Europe", "Santa Casa", "1", "", false),
		queryRecord("d", "Portugal", "Europe", "Santa Casa", "1", "1975-07-04", false),
	}

	got := ApplyFilter(records, ListFilter{}, nil)
	assert.Equal(t, []string{"c", "d", "b", "a"}, idsOf(got),
		"empty dates first, then dates ascending, extraction numbers in natural order")
}

func TestApplyFilterNaturalExtractionOrder(t *testing.T) {
	records := []models.Ticket{
		queryRecord("a", "Portugal", "Europe", "Santa Casa", "10", "", false),
		queryRecord("b", "Portugal", "Europe", "Santa Casa", "2", "", false),
	}

	got := ApplyFilter(records, ListFilter{}, nil)
	assert.Equal(t, []string{"b", "a"}, idsOf(got), `"2" must order before "10"`)
}

func TestApplyFilterDoesNotMutateInput(t *testing.T) {
	records := []models.Ticket{
		queryRecord("z", "Portugal", "Europe", "Santa Casa", "9", "1990-01-01", false),
		queryRecord("a", "Portugal", "Europe", "Santa Casa", "1", "1980-01-01", false),
	}

	_ = ApplyFilter(records, ListFilter{}, nil)
	assert.Equal(t, "z", records[0].ID, "input slice order must be preserved")
}

func TestApplyFilterSearch(t *testing.T) {
	records := []models.Ticket{
		queryRecord("a", "Portugal", "Europe", "Santa Casa", "27", "", false),
		queryRecord("b", "Espanha", "Europe", "Loterías del Estado", "102", "", false),
	}

	got := ApplyFilter(records, ListFilter{Search: "  SANTA  "}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got = ApplyFilter(records, ListFilter{Search: "102"}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got = ApplyFilter(records, ListFilter{Search: ""}, nil)
	assert.Len(t, got, 2, "empty term matches everything")
}

func TestApplyFilterPredicatesCompose(t *testing.T) {
	records := []models.Ticket{
		queryRecord("a", "Portugal", "Europe", "Santa Casa", "1", "", true),
		queryRecord("b", "Portugal", "Europe", "Santa Casa", "2", "", false),
		queryRecord("c", "Brasil", "Americas", "Caixa", "3", "", true),
	}

	got := ApplyFilter(records, ListFilter{Continent: "Europe", FavoritesOnly: true}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestApplyFilterCountryIsCaseInsensitive(t *testing.T) {
	records := []models.Ticket{
		queryRecord("a", "Portugal", "Europe", "Santa Casa", "1", "", false),
	}

	got := ApplyFilter(records, ListFilter{Country: "portugal"}, nil)
	assert.Len(t, got, 1)
}

func TestApplyFilterDuplicatesOnly(t *testing.T) {
	records := []models.Ticket{
		queryRecord("a", "Portugal", "Europe", "Santa Casa", "1", "", false),
		queryRecord("b", "Portugal", "Europe", "Santa Casa", "2", "", false),
	}
	duplicates := map[string]struct{}{"b": {}}

	got := ApplyFilter(records, ListFilter{DuplicatesOnly: true}, duplicates)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}
