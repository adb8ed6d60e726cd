package domain

import (
	"fmt"
	"math/rand"
	"strings"
)

// SyntheticArity is the assumed arity of a variable with no authored pool.
// It feeds both combinatorics accounting and placeholder filler generation.
const SyntheticArity = 10

// Pools maps a variable name to its ordered sequence of candidate values.
// Order is irrelevant to correctness but must be stable within a process so
// seeded runs reproduce.
type Pools map[string][]string

// PoolRef is a variable's pool resolved once at load time: either an
// authored pool of candidate values or a synthetic fallback of fixed arity.
// Resolving up front keeps the instancing hot path free of map lookups and
// of the silent-fallback pattern.
type PoolRef struct {
	Name   string
	values []string // nil for synthetic refs
}

// PooledRef returns a reference to an authored pool.
func PooledRef(name string, values []string) PoolRef {
	return PoolRef{Name: name, values: values}
}

// SyntheticRef returns a reference to the synthetic fallback pool.
func SyntheticRef(name string) PoolRef {
	return PoolRef{Name: name}
}

// Synthetic reports whether the reference resolves to the fallback pool.
func (p PoolRef) Synthetic() bool {
	return p.values == nil
}

// Arity returns the number of candidate values the reference can produce.
func (p PoolRef) Arity() int {
	if p.Synthetic() {
		return SyntheticArity
	}
	return len(p.values)
}

// Sample draws one candidate value uniformly using the supplied source.
// Synthetic references produce stable placeholder filler like "a banker (7)"
// so unpooled variables render without crashing.
func (p PoolRef) Sample(rng *rand.Rand) string {
	if p.Synthetic() {
		n := rng.Intn(SyntheticArity) + 1
		return fmt.Sprintf("a %s (%d)", strings.ToLower(p.Name), n)
	}
	return p.values[rng.Intn(len(p.values))]
}

// ResolveRefs resolves every declared variable of a template against the
// authored pools, substituting the synthetic fallback where no pool exists.
// Numbered variables like NPC1 and NPC2 resolve to their base pool (NPC)
// when no pool carries the numbered name, so one authored pool can fill
// several roles in the same template. The result is ordered like the
// template's declared variable list.
func ResolveRefs(t Template, pools Pools) []PoolRef {
	refs := make([]PoolRef, 0, len(t.Variables))
	for _, name := range t.Variables {
		if values, ok := lookupPool(pools, name); ok {
			refs = append(refs, PooledRef(name, values))
			continue
		}
		refs = append(refs, SyntheticRef(name))
	}
	return refs
}

func lookupPool(pools Pools, name string) ([]string, bool) {
	if values, ok := pools[name]; ok && len(values) > 0 {
		return values, true
	}
	base := strings.TrimRight(name, "0123456789")
	if base == name || base == "" {
		return nil, false
	}
	if values, ok := pools[base]; ok && len(values) > 0 {
		return values, true
	}
	return nil, false
}
