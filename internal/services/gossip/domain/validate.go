package domain

import (
	"fmt"

	apperrors "github.com/louisbranch/rumormill/internal/platform/errors"
)

// Warning is a structured content-integrity finding against one template.
// Warnings are produced at load-time validation so bad content is caught
// before any simulation runs; a template with warnings is not promoted into
// the catalog.
type Warning struct {
	TemplateID string
	Code       apperrors.Code
	Message    string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.TemplateID, w.Code, w.Message)
}

// ValidatePools checks every authored pool for hard configuration defects.
// An authored pool with no values defeats the synthetic fallback and fails
// the load outright.
func ValidatePools(pools Pools) error {
	for name, values := range pools {
		if len(values) == 0 {
			return fmt.Errorf("pool %q: %w", name, ErrEmptyPool)
		}
	}
	return nil
}

// ValidateTemplate reports content-integrity defects on a single template.
// Undeclared placeholders anywhere in the template body, embellishments, or
// degradations are defects: they would otherwise surface as unresolved text
// mid-simulation.
func ValidateTemplate(t Template) []Warning {
	var warnings []Warning
	add := func(code apperrors.Code, format string, args ...any) {
		warnings = append(warnings, Warning{
			TemplateID: t.ID,
			Code:       code,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	if t.ID == "" {
		add(apperrors.CodeTemplateIDEmpty, "template id is required")
	}
	if t.Text == "" {
		add(apperrors.CodeTemplateTextEmpty, "template text is required")
	}
	if _, ok := NormalizeToneLabel(string(t.Tone)); !ok {
		add(apperrors.CodeTemplateInvalidTone, "unknown tone %q", t.Tone)
	}
	if t.Category == "" {
		add(apperrors.CodeTemplateInvalidCategory, "category is required")
	}
	if t.SpreadRate < 1 || t.SpreadRate > 10 {
		add(apperrors.CodeTemplateInvalidSpreadRate, "spread rate %d outside [1,10]", t.SpreadRate)
	}
	if t.TruthValue < 0 || t.TruthValue > 1 {
		add(apperrors.CodeTemplateInvalidTruthValue, "truth value %v outside [0,1]", t.TruthValue)
	}

	checkPlaceholders := func(source, text string) {
		for _, name := range Placeholders(text) {
			if !t.DeclaresVariable(name) {
				add(apperrors.CodeTemplateUndeclaredVariable,
					"%s references undeclared variable {%s}", source, name)
			}
		}
	}
	checkPlaceholders("text", t.Text)
	for i, embellishment := range t.Embellishments {
		checkPlaceholders(fmt.Sprintf("embellishment %d", i), embellishment)
	}
	for i, degradation := range t.Degradations {
		checkPlaceholders(fmt.Sprintf("degradation %d", i), degradation)
	}

	return warnings
}
