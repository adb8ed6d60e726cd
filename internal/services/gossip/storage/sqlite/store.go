// Package sqlite provides SQLite-backed persistence for archived gossip.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/rumormill/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/rumormill/internal/services/gossip/filter"
	"github.com/louisbranch/rumormill/internal/services/gossip/storage"
	"github.com/louisbranch/rumormill/internal/services/gossip/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const defaultListLimit = 100

// Store provides SQLite-backed persistence for the gossip archive.
type Store struct {
	sqlDB *sql.DB
}

// Timestamps are stored as RFC3339 UTC text at second precision so that
// filter comparisons order lexicographically.
func toTimestamp(value time.Time) string {
	return value.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func fromTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

// Open opens a gossip archive SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ArchiveInstance persists one terminal gossip instance.
func (s *Store) ArchiveInstance(ctx context.Context, record storage.ArchiveRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.InstanceID) == "" {
		return fmt.Errorf("instance id is required")
	}
	if strings.TrimSpace(record.TemplateID) == "" {
		return fmt.Errorf("template id is required")
	}

	provenance, err := json.Marshal(record.Provenance)
	if err != nil {
		return fmt.Errorf("encode provenance: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO archived_instances (
    instance_id, template_id, category, tone, text, truth, retellings,
    provenance_json, status, reason, created_at, archived_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		record.InstanceID,
		record.TemplateID,
		record.Category,
		record.Tone,
		record.Text,
		record.Truth,
		record.Retellings,
		string(provenance),
		record.Status,
		record.Reason,
		toTimestamp(record.CreatedAt),
		toTimestamp(record.ArchivedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("archive instance: %w", err)
	}
	return nil
}

// GetArchived loads one archived instance by id.
func (s *Store) GetArchived(ctx context.Context, instanceID string) (storage.ArchiveRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ArchiveRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ArchiveRecord{}, fmt.Errorf("storage is not configured")
	}
	instanceID = strings.TrimSpace(instanceID)
	if instanceID == "" {
		return storage.ArchiveRecord{}, fmt.Errorf("instance id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT instance_id, template_id, category, tone, text, truth, retellings,
       provenance_json, status, reason, created_at, archived_at
FROM archived_instances
WHERE instance_id = ?
`, instanceID)
	record, err := scanArchiveRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ArchiveRecord{}, storage.ErrNotFound
		}
		return storage.ArchiveRecord{}, fmt.Errorf("get archived instance: %w", err)
	}
	return record, nil
}

// ListArchived lists archived instances newest-first, optionally narrowed by
// an AIP-160 filter expression.
func (s *Store) ListArchived(ctx context.Context, query storage.ListArchivedQuery) ([]storage.ArchiveRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	baseQuery := `
SELECT instance_id, template_id, category, tone, text, truth, retellings,
       provenance_json, status, reason, created_at, archived_at
FROM archived_instances
`
	params := []any{}
	if strings.TrimSpace(query.Filter) != "" {
		condition, err := filter.ParseArchiveFilter(query.Filter)
		if err != nil {
			return nil, err
		}
		baseQuery += "WHERE " + condition.Clause + "\n"
		params = append(params, condition.Params...)
	}
	baseQuery += "ORDER BY archived_at DESC, instance_id DESC\nLIMIT ?"
	params = append(params, limit)

	rows, err := s.sqlDB.QueryContext(ctx, baseQuery, params...)
	if err != nil {
		return nil, fmt.Errorf("list archived instances: %w", err)
	}
	defer rows.Close()

	var records []storage.ArchiveRecord
	for rows.Next() {
		record, err := scanArchiveRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan archived instance: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived instances: %w", err)
	}
	return records, nil
}

func scanArchiveRecord(scan func(dest ...any) error) (storage.ArchiveRecord, error) {
	var (
		record         storage.ArchiveRecord
		provenanceJSON string
		createdAt      string
		archivedAt     string
	)
	if err := scan(
		&record.InstanceID,
		&record.TemplateID,
		&record.Category,
		&record.Tone,
		&record.Text,
		&record.Truth,
		&record.Retellings,
		&provenanceJSON,
		&record.Status,
		&record.Reason,
		&createdAt,
		&archivedAt,
	); err != nil {
		return storage.ArchiveRecord{}, err
	}

	if err := json.Unmarshal([]byte(provenanceJSON), &record.Provenance); err != nil {
		return storage.ArchiveRecord{}, fmt.Errorf("decode provenance: %w", err)
	}
	var err error
	if record.CreatedAt, err = fromTimestamp(createdAt); err != nil {
		return storage.ArchiveRecord{}, fmt.Errorf("decode created_at: %w", err)
	}
	if record.ArchivedAt, err = fromTimestamp(archivedAt); err != nil {
		return storage.ArchiveRecord{}, fmt.Errorf("decode archived_at: %w", err)
	}
	return record, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
