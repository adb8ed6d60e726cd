package domain

import (
	"math/rand"
	"strings"
	"testing"
)

func TestResolveRefsPrefersAuthoredPools(t *testing.T) {
	tmpl := Template{
		ID:        "t",
		Variables: []string{"NPC", "WEAPON"},
	}
	refs := ResolveRefs(tmpl, Pools{"NPC": {"Sheriff Cole"}})

	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].Synthetic() {
		t.Fatal("expected authored ref for NPC")
	}
	if !refs[1].Synthetic() {
		t.Fatal("expected synthetic ref for WEAPON")
	}
	if refs[0].Arity() != 1 || refs[1].Arity() != SyntheticArity {
		t.Fatalf("unexpected arities %d and %d", refs[0].Arity(), refs[1].Arity())
	}
}

func TestResolveRefsNumberedVariablesUseBasePool(t *testing.T) {
	tmpl := Template{
		ID:        "t",
		Variables: []string{"NPC1", "NPC2", "NPC"},
	}
	pools := Pools{
		"NPC":  {"Sheriff Cole", "Widow Barnes"},
		"NPC2": {"Doc Whitlock"},
	}
	refs := ResolveRefs(tmpl, pools)

	if refs[0].Synthetic() {
		t.Fatal("expected NPC1 to resolve to the NPC pool")
	}
	if refs[0].Name != "NPC1" || refs[0].Arity() != 2 {
		t.Fatalf("NPC1 ref = %q arity %d, want NPC1 arity 2", refs[0].Name, refs[0].Arity())
	}
	// An exact pool match wins over the base pool.
	if refs[1].Arity() != 1 {
		t.Fatalf("NPC2 arity = %d, want 1 from its own pool", refs[1].Arity())
	}
	if refs[2].Synthetic() || refs[2].Arity() != 2 {
		t.Fatal("expected NPC to resolve to its own pool")
	}
}

func TestResolveRefsAllDigitNameStaysSynthetic(t *testing.T) {
	tmpl := Template{ID: "t", Variables: []string{"42"}}
	refs := ResolveRefs(tmpl, Pools{"": {"ghost value"}})

	if !refs[0].Synthetic() {
		t.Fatal("expected an all-digit variable to stay synthetic")
	}
}

func TestSyntheticSampleProducesFiller(t *testing.T) {
	ref := SyntheticRef("WEAPON")
	rng := rand.New(rand.NewSource(9))

	value := ref.Sample(rng)
	if !strings.Contains(value, "weapon") {
		t.Fatalf("expected filler mentioning the variable, got %q", value)
	}
}

func TestSyntheticSampleIsDeterministic(t *testing.T) {
	ref := SyntheticRef("WEAPON")

	first := ref.Sample(rand.New(rand.NewSource(4)))
	second := ref.Sample(rand.New(rand.NewSource(4)))
	if first != second {
		t.Fatalf("expected identical filler under the same seed, got %q and %q", first, second)
	}
}

func TestPooledSampleCoversAllValues(t *testing.T) {
	ref := PooledRef("LOCATION", []string{"the saloon", "the bank", "the mill"})
	rng := rand.New(rand.NewSource(1))

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[ref.Sample(rng)] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected all 3 values to be drawn, got %v", seen)
	}
}
