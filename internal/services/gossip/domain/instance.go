package domain

import (
	"strings"
	"time"
)

// Bindings is the concrete variable-binding map produced once when a
// template is instanced. One instancing call produces exactly one binding
// map shared by the main text and every embellishment or degradation drawn
// for the instance at any later point in its propagation lifetime.
type Bindings map[string]string

// Substitute replaces every {NAME} placeholder in s with its bound value.
// Unbound placeholders are left untouched.
func (b Bindings) Substitute(s string) string {
	for name, value := range b {
		s = strings.ReplaceAll(s, "{"+name+"}", value)
	}
	return s
}

// Instance is one concrete gossip item derived from a template. It is owned
// by a single propagation worker for its lifetime; the propagation engine is
// the sole mutation path.
type Instance struct {
	ID         string
	TemplateID string
	Bindings   Bindings
	Text       string // rendered text, reshaped by embellishments and degradations
	Truth      float64
	Retellings int
	Provenance []string // ordered hop identifiers, append-only
	Status     Status
	CreatedAt  time.Time
}

// Age returns how long the instance has existed at the given time.
func (i *Instance) Age(now time.Time) time.Duration {
	return now.Sub(i.CreatedAt)
}
