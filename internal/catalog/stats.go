package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/worldoflottery/archive-backend/pkg/db/models"
)

// ComputeStats derives the insights snapshot from the full record set. Pure
// function, recomputed on demand; never persisted.
func ComputeStats(records []models.Ticket, topCountries int) CollectionStats {
	stats := CollectionStats{
		TotalItems:  len(records),
		ByContinent: make(map[string]int),
		ByState:     make(map[string]int),
		ByCountry:   make(map[string]int),
	}

	total := decimal.Zero
	countryCounts := make(map[string]int, len(records))
	for _, record := range records {
		stats.ByContinent[string(record.Continent)]++
		stats.ByState[string(record.State)]++
		countryCounts[record.Country]++
		if record.IsFavorite {
			stats.FavoriteCount++
		}
		if amount, ok := parseDeclaredValue(record.Value); ok {
			total = total.Add(amount)
		}
	}

	stats.DuplicateCount = len(DuplicateIDs(records))
	stats.TotalDeclaredValue = total.String()
	stats.ByCountry = topNCountries(countryCounts, topCountries)
	return stats
}

// topNCountries keeps the n most represented countries, matching the
// dashboard's top-countries bar chart.
func topNCountries(counts map[string]int, n int) map[string]int {
	if n <= 0 || len(counts) <= n {
		return counts
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name: name, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	out := make(map[string]int, n)
	for _, e := range entries[:n] {
		out[e.name] = e.count
	}
	return out
}

// parseDeclaredValue extracts the leading monetary amount from a free-form
// value string such as "€2,50", "100 escudos" or "2.50 EUR". Records whose
// value carries no digits contribute nothing to the total.
func parseDeclaredValue(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	started := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			started = true
			b.WriteRune(r)
		case (r == '.' || r == ',') && started:
			b.WriteRune('.')
		default:
			if started {
				goto done
			}
		}
	}
done:
	token := strings.TrimRight(b.String(), ".")
	if token == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}
