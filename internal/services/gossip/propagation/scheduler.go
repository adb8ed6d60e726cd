package propagation

import (
	"time"

	"github.com/louisbranch/rumormill/internal/services/gossip/catalog"
	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
)

// Scheduler tracks gossip instances against their template's interest
// window. The staleness predicate is pure and idempotent, so it can run on a
// periodic sweep or lazily on access.
type Scheduler struct {
	catalog *catalog.Catalog
}

// NewScheduler creates a Scheduler over a loaded catalog.
func NewScheduler(cat *catalog.Catalog) *Scheduler {
	return &Scheduler{catalog: cat}
}

// IsStale reports whether the instance's age exceeds its template's
// interest window at the given time. Instances of unknown templates are
// treated as stale so orphans drain out of the system.
func (s *Scheduler) IsStale(inst *domain.Instance, now time.Time) bool {
	tmpl, ok := s.catalog.Template(inst.TemplateID)
	if !ok {
		return true
	}
	return inst.Age(now) > tmpl.InterestDecay
}

// Sweep marks every expired live instance stale through the engine and
// returns the newly stale instances. Terminal instances are skipped.
func (s *Scheduler) Sweep(engine *Engine, instances []*domain.Instance, now time.Time) []*domain.Instance {
	var expired []*domain.Instance
	for _, inst := range instances {
		if inst.Status.Terminal() {
			continue
		}
		if !s.IsStale(inst, now) {
			continue
		}
		if err := engine.MarkStale(inst); err != nil {
			continue
		}
		expired = append(expired, inst)
	}
	return expired
}
