// Package storage defines persistence interfaces for retired gossip.
// Live instances stay in memory; only terminal instances reach a store.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested archive record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a write conflicts with an existing record.
	ErrConflict = errors.New("record conflict")
)

// ArchiveRecord stores one retired or stale gossip instance.
type ArchiveRecord struct {
	InstanceID string
	TemplateID string
	Category   string
	Tone       string
	Text       string
	Truth      float64
	Retellings int
	Provenance []string
	Status     string
	Reason     string
	CreatedAt  time.Time
	ArchivedAt time.Time
}

// ListArchivedQuery narrows an archive listing.
type ListArchivedQuery struct {
	// Filter is an AIP-160 expression over archive fields. Empty matches all.
	Filter string
	// Limit caps the result size. Non-positive means the store default.
	Limit int
}

// ArchiveStore persists terminal gossip instances.
type ArchiveStore interface {
	ArchiveInstance(ctx context.Context, record ArchiveRecord) error
	GetArchived(ctx context.Context, instanceID string) (ArchiveRecord, error)
	ListArchived(ctx context.Context, query ListArchivedQuery) ([]ArchiveRecord, error)
}
