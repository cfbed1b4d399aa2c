package catalog

import (
	"sort"
	"strings"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
)

// DuplicateIDs flags likely re-entries of the same physical ticket: records
// sharing a normalized country|drawDate|value|extractionNo key. Exact-field
// matches only; no fuzzy matching. The key intentionally ignores entity and
// type, matching the collector's established workflow.
func DuplicateIDs(records []models.Ticket) map[string]struct{} {
	groups := make(map[string][]string, len(records))
	for _, record := range records {
		key := duplicateKey(record)
		groups[key] = append(groups[key], record.ID)
	}

	out := make(map[string]struct{})
	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			out[id] = struct{}{}
		}
	}
	return out
}

// SortedDuplicateIDs returns the duplicate set as a deterministic slice.
func SortedDuplicateIDs(records []models.Ticket) []string {
	set := DuplicateIDs(records)
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func duplicateKey(record models.Ticket) string {
	parts := []string{record.Country, record.DrawDate, record.Value, record.ExtractionNo}
	for i, part := range parts {
		parts[i] = stripSpace(strings.ToLower(part))
	}
	return strings.Join(parts, "|")
}

func stripSpace(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
