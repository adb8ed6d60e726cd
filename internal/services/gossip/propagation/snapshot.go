package propagation

import (
	"time"

	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
)

// Snapshot is the read-only view of a gossip instance handed to chat, UI,
// and persistence collaborators.
type Snapshot struct {
	ID         string
	TemplateID string
	Text       string
	Truth      float64
	Retellings int
	Provenance []string
	Status     domain.Status
	Stale      bool
	CreatedAt  time.Time
}

// SnapshotOf captures the instance's current state. The provenance slice is
// copied so the snapshot stays stable while the instance keeps spreading.
func SnapshotOf(inst *domain.Instance) Snapshot {
	provenance := make([]string, len(inst.Provenance))
	copy(provenance, inst.Provenance)

	return Snapshot{
		ID:         inst.ID,
		TemplateID: inst.TemplateID,
		Text:       inst.Text,
		Truth:      inst.Truth,
		Retellings: inst.Retellings,
		Provenance: provenance,
		Status:     inst.Status,
		Stale:      inst.Status == domain.StatusStale,
		CreatedAt:  inst.CreatedAt,
	}
}
