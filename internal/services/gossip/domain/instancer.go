package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/louisbranch/rumormill/internal/platform/id"
)

// Instancer produces concrete gossip instances from templates.
//
// # Determinism
//
// Instantiate is deterministic with respect to the supplied random source:
// given the same template, the same resolved pool references, and a
// generator at the same state, it produces a byte-identical instance (modulo
// the generated ID and timestamp, which are injected).
//
// # Binding consistency
//
// Variables are sampled once per call in declared order. Repeated
// occurrences of a variable name in the template body resolve to the same
// sampled value, and so do occurrences inside embellishment or degradation
// strings drawn later in the instance's life. A variable appearing only in
// auxiliary strings is still bound here, never sampled fresh at draw time.
type Instancer struct {
	now   func() time.Time
	newID func() (string, error)
}

// NewInstancer creates an Instancer. Nil arguments fall back to the system
// clock and the platform ID generator.
func NewInstancer(now func() time.Time, newID func() (string, error)) *Instancer {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Instancer{now: now, newID: newID}
}

// Instantiate binds a template's variables to sampled values and renders the
// instance text. refs must be the template's pool references resolved at
// load time, ordered like the declared variable list.
func (ins *Instancer) Instantiate(t Template, refs []PoolRef, rng *rand.Rand) (*Instance, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if t.ID == "" {
		return nil, ErrEmptyTemplateID
	}
	if t.Text == "" {
		return nil, ErrEmptyTemplateText
	}

	bindings := make(Bindings, len(refs))
	for _, ref := range refs {
		if _, bound := bindings[ref.Name]; bound {
			continue
		}
		bindings[ref.Name] = ref.Sample(rng)
	}

	instanceID, err := ins.newID()
	if err != nil {
		return nil, fmt.Errorf("generate instance id: %w", err)
	}

	return &Instance{
		ID:         instanceID,
		TemplateID: t.ID,
		Bindings:   bindings,
		Text:       bindings.Substitute(t.Text),
		Truth:      t.TruthValue,
		Status:     StatusFresh,
		CreatedAt:  ins.now().UTC(),
	}, nil
}
