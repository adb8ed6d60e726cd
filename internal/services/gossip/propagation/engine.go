// Package propagation advances gossip instances through retellings.
//
// The engine is the sole mutation path for a gossip instance. Callers own
// serialization: hops for one instance must be delivered by a single worker
// or under a per-instance lock. The engine itself holds no instance state
// and no random state; every call takes the caller's seeded source.
package propagation

import (
	"math/rand"
	"strings"

	"github.com/louisbranch/rumormill/internal/core/decay"
	apperrors "github.com/louisbranch/rumormill/internal/platform/errors"
	"github.com/louisbranch/rumormill/internal/services/gossip/catalog"
	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
)

// Engine applies per-hop propagation semantics to gossip instances.
type Engine struct {
	catalog    *catalog.Catalog
	perHopRate float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithPerHopRate overrides the engine-wide truth decay rate per retelling.
func WithPerHopRate(rate float64) Option {
	return func(e *Engine) {
		if rate > 0 && rate <= 1 {
			e.perHopRate = rate
		}
	}
}

// NewEngine creates an Engine over a loaded catalog.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:    cat,
		perHopRate: decay.DefaultPerHopRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PerHopRate returns the configured truth decay rate per retelling.
func (e *Engine) PerHopRate() float64 {
	return e.perHopRate
}

// Propagate applies one retelling to the instance.
//
// The hop is appended to provenance, the retelling count advances, and truth
// is recomputed from the template's origin value through the decay model.
// With probability spreadRate/10 the hop may append one embellishment and,
// independently, substitute a degradation clause once truth has fallen into
// that clause's tier. Empty embellishment or degradation lists make the
// corresponding draw a no-op.
//
// Propagating a terminal (stale or retired) instance fails with
// ErrInvalidStatusTransition and leaves the instance unmodified.
func (e *Engine) Propagate(inst *domain.Instance, hop string, rng *rand.Rand) error {
	if !domain.IsStatusTransitionAllowed(inst.Status, domain.StatusSpreading) {
		return apperrors.WithMetadata(apperrors.CodeInstanceInvalidStatusTransition,
			"cannot propagate a terminal instance",
			map[string]string{
				"instance_id": inst.ID,
				"status":      string(inst.Status),
			})
	}

	tmpl, ok := e.catalog.Template(inst.TemplateID)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeCatalogTemplateNotFound,
			"instance references unknown template",
			map[string]string{"template_id": inst.TemplateID})
	}

	inst.Retellings++
	inst.Provenance = append(inst.Provenance, hop)
	inst.Truth = decay.DecayedTruth(tmpl.TruthValue, inst.Retellings, e.perHopRate)
	inst.Status = domain.StatusSpreading

	// Both draws are independent; either, both, or neither may fire.
	fireChance := float64(tmpl.SpreadRate) / 10

	if len(tmpl.Embellishments) > 0 && rng.Float64() < fireChance {
		flourish := tmpl.Embellishments[rng.Intn(len(tmpl.Embellishments))]
		inst.Text = inst.Text + " " + inst.Bindings.Substitute(flourish)
	}

	if tier, ok := degradationTier(inst.Truth, len(tmpl.Degradations)); ok && rng.Float64() < fireChance {
		clause := inst.Bindings.Substitute(tmpl.Degradations[tier])
		inst.Text = replaceFinalClause(inst.Text, clause)
	}

	return nil
}

// MarkStale transitions the instance to stale. Instance data survives; only
// further hops are refused.
func (e *Engine) MarkStale(inst *domain.Instance) error {
	return e.transitionTerminal(inst, domain.StatusStale)
}

// Retire transitions the instance to retired on external request.
func (e *Engine) Retire(inst *domain.Instance) error {
	return e.transitionTerminal(inst, domain.StatusRetired)
}

func (e *Engine) transitionTerminal(inst *domain.Instance, to domain.Status) error {
	if !domain.IsStatusTransitionAllowed(inst.Status, to) {
		return apperrors.WithMetadata(apperrors.CodeInstanceInvalidStatusTransition,
			"instance is already terminal",
			map[string]string{
				"instance_id": inst.ID,
				"status":      string(inst.Status),
				"target":      string(to),
			})
	}
	inst.Status = to
	return nil
}

// degradationTier maps a truth value to the degradation clause that applies
// at that level of inaccuracy.
//
// With n clauses, clause i becomes available once truth drops to
// (n-i)/(n+1) or below: the first clause needs mild erosion, the last fires
// only near total unreliability. The deepest available clause wins. High
// truth selects nothing.
func degradationTier(truth float64, clauses int) (int, bool) {
	if clauses <= 0 {
		return 0, false
	}
	tier := -1
	for i := 0; i < clauses; i++ {
		threshold := float64(clauses-i) / float64(clauses+1)
		if truth <= threshold {
			tier = i
		}
	}
	if tier < 0 {
		return 0, false
	}
	return tier, true
}

// replaceFinalClause substitutes clause for the last clause of text,
// modeling a rumor whose facts shift rather than accumulate. The final
// comma-separated clause is replaced when one exists, otherwise the final
// sentence, otherwise the whole text.
func replaceFinalClause(text, clause string) string {
	if idx := strings.LastIndex(text, ", "); idx >= 0 {
		return text[:idx+2] + clause
	}
	trimmed := strings.TrimRight(text, ". ")
	if idx := strings.LastIndex(trimmed, ". "); idx >= 0 {
		return trimmed[:idx+2] + clause
	}
	return clause
}
