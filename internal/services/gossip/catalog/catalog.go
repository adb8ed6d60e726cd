// Package catalog indexes the authored gossip template set for query.
//
// A Catalog is built once at load time and is immutable afterwards, so it is
// safe for unsynchronized concurrent reads. Queries preserve catalog order.
package catalog

import (
	"fmt"

	apperrors "github.com/louisbranch/rumormill/internal/platform/errors"
	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
)

const maxSpreadRate = 10

// Catalog is the immutable load-time index over validated gossip templates.
type Catalog struct {
	templates []domain.Template

	byID       map[string]int
	byCategory map[domain.Category][]int
	byTone     map[domain.Tone][]int
	byTrigger  map[string][]int
	// bySpreadFloor[r] lists templates with SpreadRate >= r, r in 1..10.
	bySpreadFloor [maxSpreadRate + 1][]int

	refs map[string][]domain.PoolRef
}

// New validates the authored set and builds the catalog indexes.
//
// Templates with content-integrity warnings are not promoted; their warnings
// are returned so the loader can report them. An empty authored pool or a
// duplicate template ID fails the whole load.
func New(templates []domain.Template, pools domain.Pools) (*Catalog, []domain.Warning, error) {
	if err := domain.ValidatePools(pools); err != nil {
		return nil, nil, err
	}

	c := &Catalog{
		byID:       make(map[string]int),
		byCategory: make(map[domain.Category][]int),
		byTone:     make(map[domain.Tone][]int),
		byTrigger:  make(map[string][]int),
		refs:       make(map[string][]domain.PoolRef),
	}

	var warnings []domain.Warning
	for _, tmpl := range templates {
		if found := domain.ValidateTemplate(tmpl); len(found) > 0 {
			warnings = append(warnings, found...)
			continue
		}
		if _, exists := c.byID[tmpl.ID]; exists {
			return nil, warnings, apperrors.WithMetadata(apperrors.CodeCatalogDuplicateTemplate,
				fmt.Sprintf("duplicate template id %q", tmpl.ID),
				map[string]string{"template_id": tmpl.ID})
		}

		idx := len(c.templates)
		c.templates = append(c.templates, tmpl)
		c.byID[tmpl.ID] = idx
		c.byCategory[tmpl.Category] = append(c.byCategory[tmpl.Category], idx)
		c.byTone[tmpl.Tone] = append(c.byTone[tmpl.Tone], idx)
		for _, event := range tmpl.TriggerEvents {
			c.byTrigger[event] = append(c.byTrigger[event], idx)
		}
		for floor := 1; floor <= tmpl.SpreadRate && floor <= maxSpreadRate; floor++ {
			c.bySpreadFloor[floor] = append(c.bySpreadFloor[floor], idx)
		}
		c.refs[tmpl.ID] = domain.ResolveRefs(tmpl, pools)
	}

	return c, warnings, nil
}

// Len returns the number of promoted templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// All returns every promoted template in catalog order.
func (c *Catalog) All() []domain.Template {
	return c.collect(indexRange(len(c.templates)))
}

// Template returns the template with the given ID.
func (c *Catalog) Template(id string) (domain.Template, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Template{}, false
	}
	return c.templates[idx], true
}

// Refs returns the template's pool references resolved at load time.
func (c *Catalog) Refs(id string) ([]domain.PoolRef, bool) {
	refs, ok := c.refs[id]
	return refs, ok
}

// ByCategory returns templates in the given category, in catalog order.
// An unknown category yields an empty result, never an error.
func (c *Catalog) ByCategory(category domain.Category) []domain.Template {
	return c.collect(c.byCategory[category])
}

// ByTone returns templates with the given tone, in catalog order.
func (c *Catalog) ByTone(tone domain.Tone) []domain.Template {
	return c.collect(c.byTone[tone])
}

// ByMinSpreadRate returns templates whose spread rate is at least threshold,
// in catalog order.
func (c *Catalog) ByMinSpreadRate(threshold int) []domain.Template {
	if threshold <= 1 {
		return c.All()
	}
	if threshold > maxSpreadRate {
		return nil
	}
	return c.collect(c.bySpreadFloor[threshold])
}

// ByTriggerEvent returns templates tagged with the given trigger event, in
// catalog order.
func (c *Catalog) ByTriggerEvent(eventID string) []domain.Template {
	return c.collect(c.byTrigger[eventID])
}

func (c *Catalog) collect(indexes []int) []domain.Template {
	if len(indexes) == 0 {
		return nil
	}
	result := make([]domain.Template, 0, len(indexes))
	for _, idx := range indexes {
		result = append(result, c.templates[idx])
	}
	return result
}

func indexRange(n int) []int {
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	return indexes
}
