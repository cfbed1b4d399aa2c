package catalog

import (
	"sort"
	"strings"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
	"github.com/worldoflottery/archive-backend/pkg/naturalsort"
)

// ApplyFilter derives the displayable, ordered subset of the projection. It
// is pure: the input slice is never mutated and the result is always fresh.
// Ordering is drawDate ascending with empty dates first, then extraction
// number in natural numeric order, ties kept in input order.
func ApplyFilter(records []models.Ticket, filter ListFilter, duplicates map[string]struct{}) []models.Ticket {
	matched := make([]models.Ticket, 0, len(records))
	for _, record := range records {
		if !matchesSearch(record, filter.Search) {
			continue
		}
		if filter.Continent != "" && string(record.Continent) != filter.Continent {
			continue
		}
		if filter.Country != "" && !strings.EqualFold(record.Country, filter.Country) {
			continue
		}
		if filter.FavoritesOnly && !record.IsFavorite {
			continue
		}
		if filter.DuplicatesOnly {
			if _, ok := duplicates[record.ID]; !ok {
				continue
			}
		}
		matched = append(matched, record)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].DrawDate != matched[j].DrawDate {
			// ISO dates compare correctly as strings and the empty
			// string is lower than any real date.
			return matched[i].DrawDate < matched[j].DrawDate
		}
		return naturalsort.Less(matched[i].ExtractionNo, matched[j].ExtractionNo)
	})

	return matched
}

// matchesSearch reports whether the term is empty or a case-insensitive
// substring of country, entity, extraction number or autoId.
func matchesSearch(record models.Ticket, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	for _, field := range []string{record.Country, record.Entity, record.ExtractionNo, record.AutoID} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
