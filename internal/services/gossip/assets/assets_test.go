package assets

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/rumormill/internal/services/gossip/catalog"
	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
)

func TestBuiltinBuildsCleanCatalog(t *testing.T) {
	set := Builtin()

	cat, warnings, err := catalog.New(set.Templates, set.Pools)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("builtin content produced warnings: %v", warnings)
	}
	if cat.Len() != len(set.Templates) {
		t.Errorf("catalog holds %d templates, want %d", cat.Len(), len(set.Templates))
	}
}

func TestBuiltinInstanceBindsAuthoredNPCs(t *testing.T) {
	set := Builtin()
	cat, _, err := catalog.New(set.Templates, set.Pools)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	tmpl, ok := cat.Template("frontier-midnight-meeting")
	if !ok {
		t.Fatal("frontier-midnight-meeting missing from builtin catalog")
	}
	refs, _ := cat.Refs(tmpl.ID)
	inst, err := domain.NewInstancer(nil, nil).Instantiate(tmpl, refs, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}

	npcs := make(map[string]bool, len(set.Pools["NPC"]))
	for _, name := range set.Pools["NPC"] {
		npcs[name] = true
	}
	for _, variable := range []string{"NPC1", "NPC2"} {
		bound := inst.Bindings[variable]
		if !npcs[bound] {
			t.Errorf("%s bound to %q, want a name from the NPC pool", variable, bound)
		}
		if !strings.Contains(inst.Text, bound) {
			t.Errorf("rendered text %q missing bound %s %q", inst.Text, variable, bound)
		}
	}
}

func TestBuiltinReturnsIndependentCopies(t *testing.T) {
	first := Builtin()
	first.Pools["NPC"][0] = "mutated"
	first.Templates[0].SpreadRate = 999

	second := Builtin()
	if second.Pools["NPC"][0] == "mutated" {
		t.Error("pool mutation leaked across Builtin() calls")
	}
	if second.Templates[0].SpreadRate == 999 {
		t.Error("template mutation leaked across Builtin() calls")
	}
}

func TestLoad(t *testing.T) {
	input := `{
		"templates": [
			{
				"id": "dock-theft",
				"category": "criminal",
				"tone": "Rumor",
				"text": "{NPC} stole {OBJECT} from the docks",
				"variables": ["NPC", "OBJECT"],
				"spreadRate": 6,
				"truthValue": 0.8,
				"interestDecayDays": 4,
				"relevance": [{"scope": "location", "name": "docks", "weight": 0.9}],
				"embellishments": ["and sold it the same night"],
				"degradations": ["or so the dockhands say"],
				"triggerEvents": ["theft"]
			}
		],
		"pools": {
			"NPC": ["Marlow", "Quince"],
			"OBJECT": ["a crate of rifles"]
		}
	}`

	set, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(set.Templates) != 1 {
		t.Fatalf("got %d templates, want 1", len(set.Templates))
	}
	tmpl := set.Templates[0]
	if tmpl.ID != "dock-theft" {
		t.Errorf("ID = %q, want %q", tmpl.ID, "dock-theft")
	}
	if tmpl.Tone != domain.ToneRumor {
		t.Errorf("Tone = %q, want %q", tmpl.Tone, domain.ToneRumor)
	}
	if tmpl.InterestDecay != 4*24*time.Hour {
		t.Errorf("InterestDecay = %v, want %v", tmpl.InterestDecay, 4*24*time.Hour)
	}
	if len(tmpl.Relevance) != 1 || tmpl.Relevance[0].Weight != 0.9 {
		t.Errorf("Relevance = %v, want one tag with weight 0.9", tmpl.Relevance)
	}
	if got := set.Pools["NPC"]; len(got) != 2 {
		t.Errorf("NPC pool = %v, want 2 entries", got)
	}

	if _, _, err := catalog.New(set.Templates, set.Pools); err != nil {
		t.Errorf("loaded set failed catalog build: %v", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	input := `{"templates": [], "pools": {}, "bogus": true}`
	if _, err := Load(strings.NewReader(input)); err == nil {
		t.Error("Load() accepted unknown top-level field")
	}
}

func TestLoadPreservesUnknownToneForValidation(t *testing.T) {
	input := `{
		"templates": [
			{
				"id": "odd-tone",
				"category": "romance",
				"tone": "whisper",
				"text": "plain text",
				"spreadRate": 5,
				"truthValue": 0.5,
				"interestDecayDays": 1
			}
		],
		"pools": {}
	}`

	set, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := set.Templates[0].Tone; got != domain.Tone("whisper") {
		t.Errorf("Tone = %q, want raw label preserved", got)
	}

	_, warnings, err := catalog.New(set.Templates, set.Pools)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a validation warning for the unknown tone")
	}
}
