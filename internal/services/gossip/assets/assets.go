// Package assets loads authored gossip content: templates and variable
// pools. Assets are read once at process start; the engine never touches
// the authoring format again after the catalog is built.
package assets

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
)

// Set is one authored content set ready for catalog building.
type Set struct {
	Templates []domain.Template
	Pools     domain.Pools
}

type templateFile struct {
	Templates []templateJSON      `json:"templates"`
	Pools     map[string][]string `json:"pools"`
}

type templateJSON struct {
	ID                string             `json:"id"`
	Category          string             `json:"category"`
	Tone              string             `json:"tone"`
	Text              string             `json:"text"`
	Variables         []string           `json:"variables"`
	SpreadRate        int                `json:"spreadRate"`
	TruthValue        float64            `json:"truthValue"`
	InterestDecayDays int                `json:"interestDecayDays"`
	Relevance         []relevanceJSON    `json:"relevance,omitempty"`
	Embellishments    []string           `json:"embellishments,omitempty"`
	Degradations      []string           `json:"degradations,omitempty"`
	TriggerEvents     []string           `json:"triggerEvents,omitempty"`
}

type relevanceJSON struct {
	Scope  string  `json:"scope"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Load reads an authored content set from JSON.
func Load(r io.Reader) (Set, error) {
	var file templateFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return Set{}, fmt.Errorf("decode gossip assets: %w", err)
	}

	set := Set{Pools: domain.Pools(file.Pools)}
	if set.Pools == nil {
		set.Pools = domain.Pools{}
	}
	for _, t := range file.Templates {
		tone, ok := domain.NormalizeToneLabel(t.Tone)
		if !ok {
			// Keep the raw label so catalog validation reports it.
			tone = domain.Tone(t.Tone)
		}
		relevance := make([]domain.RelevanceTag, 0, len(t.Relevance))
		for _, tag := range t.Relevance {
			relevance = append(relevance, domain.RelevanceTag{
				Scope:  tag.Scope,
				Name:   tag.Name,
				Weight: tag.Weight,
			})
		}
		set.Templates = append(set.Templates, domain.Template{
			ID:             t.ID,
			Category:       domain.Category(t.Category),
			Tone:           tone,
			Text:           t.Text,
			Variables:      t.Variables,
			SpreadRate:     t.SpreadRate,
			TruthValue:     t.TruthValue,
			InterestDecay:  time.Duration(t.InterestDecayDays) * 24 * time.Hour,
			Relevance:      relevance,
			Embellishments: t.Embellishments,
			Degradations:   t.Degradations,
			TriggerEvents:  t.TriggerEvents,
		})
	}
	return set, nil
}

// LoadFile reads an authored content set from a JSON file on disk.
func LoadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("open gossip assets: %w", err)
	}
	defer f.Close()
	return Load(f)
}
