package catalog

import (
	"sync"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
)

// projection is the live in-memory copy of the archive that the query engine
// reads. It is only mutated after the record store confirms a write, so it
// never diverges from storage on a failed operation.
type projection struct {
	mu      sync.RWMutex
	records map[string]models.Ticket
	order   []string
}

func newProjection() *projection {
	return &projection{records: make(map[string]models.Ticket)}
}

// replaceAll swaps the whole projection, preserving the given order.
func (p *projection) replaceAll(tickets []models.Ticket) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = make(map[string]models.Ticket, len(tickets))
	p.order = make([]string, 0, len(tickets))
	for _, t := range tickets {
		if _, seen := p.records[t.ID]; !seen {
			p.order = append(p.order, t.ID)
		}
		p.records[t.ID] = t
	}
}

// upsert stores the ticket, appending new ids and keeping the position of
// existing ones so ordering stays stable across updates.
func (p *projection) upsert(ticket models.Ticket) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.records[ticket.ID]; !seen {
		p.order = append(p.order, ticket.ID)
	}
	p.records[ticket.ID] = ticket
}

func (p *projection) remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.records[id]; !seen {
		return
	}
	delete(p.records, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *projection) get(id string) (models.Ticket, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ticket, ok := p.records[id]
	return ticket, ok
}

// snapshot returns the records in stable insertion order. The slice is fresh
// on every call; callers may keep or mutate it freely.
func (p *projection) snapshot() []models.Ticket {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Ticket, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.records[id])
	}
	return out
}

func (p *projection) count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}
