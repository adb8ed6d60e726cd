// Package domain holds the authored and runtime types of the rumor engine:
// gossip templates, variable pools, instancing, and instance lifecycle.
package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/louisbranch/rumormill/internal/core/combinatorics"
)

// Category is the enumerated topic of a gossip template. The set is open:
// authored content can introduce new categories without engine changes.
type Category string

const (
	CategoryRomance      Category = "romance"
	CategoryBusiness     Category = "business"
	CategoryCriminal     Category = "criminal"
	CategoryPolitical    Category = "political"
	CategorySupernatural Category = "supernatural"
)

// Tone describes how a gossip item is delivered. Unlike categories the set
// is closed: the engine's degradation tiers assume one of these labels.
type Tone string

const (
	ToneUnspecified Tone = ""
	ToneScandal     Tone = "scandal"
	ToneRumor       Tone = "rumor"
	ToneNews        Tone = "news"
	ToneSecret      Tone = "secret"
	ToneWarning     Tone = "warning"
)

// NormalizeToneLabel canonicalizes tone labels from authored assets.
func NormalizeToneLabel(value string) (Tone, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "scandal":
		return ToneScandal, true
	case "rumor":
		return ToneRumor, true
	case "news":
		return ToneNews, true
	case "secret":
		return ToneSecret, true
	case "warning":
		return ToneWarning, true
	default:
		return ToneUnspecified, false
	}
}

// RelevanceTag is an authored bias weight toward a faction or location.
// Tags influence which audiences a rumor is offered to; they are never hard
// filters, so the engine carries them opaquely for the social graph.
type RelevanceTag struct {
	Scope  string  // "faction" or "location"
	Name   string
	Weight float64
}

// Template is one authored, parameterized gossip pattern. Templates are
// immutable after load; every runtime instance references its template by ID.
type Template struct {
	ID             string
	Category       Category
	Tone           Tone
	Text           string
	Variables      []string
	SpreadRate     int           // virality, 1..10
	TruthValue     float64       // ground truth at origin, [0,1]
	InterestDecay  time.Duration // how long the topic itself stays interesting
	Relevance      []RelevanceTag
	Embellishments []string
	Degradations   []string
	TriggerEvents  []string
}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)\}`)

// Placeholders returns the distinct placeholder names appearing in s, in
// first-occurrence order.
func Placeholders(s string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// DeclaresVariable reports whether name is in the template's declared list.
func (t Template) DeclaresVariable(name string) bool {
	for _, declared := range t.Variables {
		if declared == name {
			return true
		}
	}
	return false
}

// SpaceSize returns the number of distinct instances this template can
// express given the available pools. Unpooled variables count with the
// synthetic arity.
func (t Template) SpaceSize(pools Pools) uint64 {
	arities := make([]int, 0, len(t.Variables))
	for _, ref := range ResolveRefs(t, pools) {
		arities = append(arities, ref.Arity())
	}
	return combinatorics.SpaceSize(arities, len(t.Embellishments))
}
