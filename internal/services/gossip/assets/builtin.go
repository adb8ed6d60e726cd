package assets

import (
	"time"

	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
)

// Builtin frontier-town demo content. Small enough to read in one
// sitting, large enough to exercise every template feature.

var builtinPools = domain.Pools{
	"NPC": {
		"Sheriff Cole", "Widow Barnes", "Doc Whitlock", "Old Man Tatum",
		"Miss Delia", "Deputy Hart", "Preacher Stone", "Jed the farrier",
	},
	"LOCATION": {
		"the saloon", "the old mill", "the church yard", "the dry gulch",
		"the general store", "the train depot",
	},
	"OBJECT": {
		"a strongbox", "a silver locket", "a branded mare", "a deed",
		"a pouch of gold dust",
	},
	"FACTION": {
		"the railroad men", "the Carson gang", "the cattlemen's association",
		"the temperance league",
	},
}

var builtinTemplates = []domain.Template{
	{
		ID:            "frontier-midnight-meeting",
		Category:      domain.CategoryRomance,
		Tone:          domain.ToneScandal,
		Text:          "{NPC1} was seen leaving {LOCATION} with {NPC2} at midnight",
		Variables:     []string{"NPC1", "NPC2", "LOCATION", "OBJECT"},
		SpreadRate:    7,
		TruthValue:    0.7,
		InterestDecay: 5 * 24 * time.Hour,
		Relevance: []domain.RelevanceTag{
			{Scope: "location", Name: "the saloon", Weight: 0.8},
		},
		Embellishments: []string{
			"and they say {NPC1} was carrying {OBJECT}",
			"and {NPC2} looked like they'd been crying",
		},
		Degradations: []string{
			"or so somebody claims",
			"though nobody can say who saw it",
		},
		TriggerEvents: []string{"npc_sighting"},
	},
	{
		ID:            "frontier-buried-gold",
		Category:      domain.CategoryBusiness,
		Tone:          domain.ToneSecret,
		Text:          "{NPC1} buried {OBJECT} somewhere near {LOCATION}",
		Variables:     []string{"NPC1", "OBJECT", "LOCATION", "FACTION"},
		SpreadRate:    5,
		TruthValue:    0.4,
		InterestDecay: 14 * 24 * time.Hour,
		Embellishments: []string{
			"and {FACTION} are already asking questions about it",
		},
		Degradations: []string{
			"at least that's the story going around",
			"but folks tell it different every time",
		},
	},
	{
		ID:            "frontier-faction-deal",
		Category:      domain.CategoryPolitical,
		Tone:          domain.ToneRumor,
		Text:          "{FACTION} cut a deal with {NPC1} over {LOCATION}",
		Variables:     []string{"FACTION", "NPC1", "LOCATION"},
		SpreadRate:    6,
		TruthValue:    0.6,
		InterestDecay: 10 * 24 * time.Hour,
		Embellishments: []string{
			"and money already changed hands, they say",
		},
		Degradations: []string{
			"though it might be nothing but talk",
		},
		TriggerEvents: []string{"faction_move"},
	},
	{
		ID:            "frontier-stage-robbery",
		Category:      domain.CategoryCriminal,
		Tone:          domain.ToneNews,
		Text:          "the stage out of {LOCATION} was robbed and {NPC1} swears {FACTION} did it",
		Variables:     []string{"LOCATION", "NPC1", "FACTION"},
		SpreadRate:    9,
		TruthValue:    0.9,
		InterestDecay: 3 * 24 * time.Hour,
		Embellishments: []string{
			"and the driver hasn't been seen since",
		},
		Degradations: []string{
			"though {NPC1} wasn't anywhere near it",
		},
		TriggerEvents: []string{"crime_reported"},
	},
	{
		ID:            "frontier-sickness-warning",
		Category:      domain.CategorySupernatural,
		Tone:          domain.ToneWarning,
		Text:          "{NPC1} says the water near {LOCATION} has gone bad",
		Variables:     []string{"NPC1", "LOCATION"},
		SpreadRate:    8,
		TruthValue:    0.5,
		InterestDecay: 7 * 24 * time.Hour,
		Embellishments: []string{
			"and two head of cattle dropped dead by {LOCATION} already",
		},
		Degradations: []string{
			"but nobody's actually taken sick",
		},
	},
	{
		ID:            "frontier-hidden-kin",
		Category:      domain.CategoryRomance,
		Tone:          domain.ToneSecret,
		Text:          "{NPC1} and {NPC2} are kin and neither will admit it",
		Variables:     []string{"NPC1", "NPC2"},
		SpreadRate:    4,
		TruthValue:    0.3,
		InterestDecay: 21 * 24 * time.Hour,
		Degradations: []string{
			"or maybe they just favor each other",
		},
	},
}

// Builtin returns the packaged demo content set. Callers get fresh
// copies so runtime mutation never leaks between supervisors.
func Builtin() Set {
	pools := make(domain.Pools, len(builtinPools))
	for name, values := range builtinPools {
		pools[name] = append([]string(nil), values...)
	}
	templates := make([]domain.Template, len(builtinTemplates))
	copy(templates, builtinTemplates)
	return Set{Templates: templates, Pools: pools}
}
