package domain

import "strings"

// Status describes the propagation lifecycle label of a gossip instance.
type Status string

const (
	StatusUnspecified Status = ""
	// StatusFresh marks an instance with no retellings yet.
	StatusFresh Status = "fresh"
	// StatusSpreading marks an instance with at least one retelling.
	StatusSpreading Status = "spreading"
	// StatusStale marks an instance whose topic outlived its interest window.
	StatusStale Status = "stale"
	// StatusRetired marks an instance removed by external request.
	StatusRetired Status = "retired"
)

// Terminal reports whether the status accepts no further hops.
func (s Status) Terminal() bool {
	return s == StatusStale || s == StatusRetired
}

// NormalizeStatusLabel canonicalizes status labels for storage round-trips.
func NormalizeStatusLabel(value string) (Status, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "fresh":
		return StatusFresh, true
	case "spreading":
		return StatusSpreading, true
	case "stale":
		return StatusStale, true
	case "retired":
		return StatusRetired, true
	default:
		return StatusUnspecified, false
	}
}

// IsStatusTransitionAllowed enforces valid instance lifecycle transitions.
// Hops keep an instance in (or move it into) spreading; staleness and
// retirement may interrupt any live state; terminal states accept nothing.
func IsStatusTransitionAllowed(from, to Status) bool {
	switch from {
	case StatusFresh:
		return to == StatusSpreading || to == StatusStale || to == StatusRetired
	case StatusSpreading:
		return to == StatusSpreading || to == StatusStale || to == StatusRetired
	default:
		return false
	}
}
